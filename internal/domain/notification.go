package domain

import "time"

// NotificationType classifies a notification.
type NotificationType string

const (
	// NotificationJoinRequest asks a driver to accept a rider onto an offer.
	NotificationJoinRequest NotificationType = "JOIN_REQUEST"
	// NotificationOfferRequest asks a rider to accept a driver's offer.
	NotificationOfferRequest NotificationType = "OFFER_REQUEST"
	// NotificationRequestAccepted and NotificationRequestDeclined are part of
	// the wire vocabulary but are not emitted yet; resolving a request does
	// not notify the sender.
	NotificationRequestAccepted NotificationType = "REQUEST_ACCEPTED"
	NotificationRequestDeclined NotificationType = "REQUEST_DECLINED"
)

// Notification is a pending join or offer proposal addressed to a trip's
// creator. It is deleted once resolved, so its existence means "pending".
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	Type        NotificationType `json:"type"`
	Message     string           `json:"message"`
	TripID      string           `json:"trip_id"`
	Sender      User             `json:"sender"`
	IsRead      bool             `json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Decision is the recipient's answer to a notification.
type Decision string

const (
	DecisionAccept  Decision = "accept"
	DecisionDecline Decision = "decline"
)

// Valid reports whether d is accept or decline.
func (d Decision) Valid() bool {
	return d == DecisionAccept || d == DecisionDecline
}

// Outcome describes what resolving a notification did to its trip.
type Outcome string

const (
	// OutcomeAccepted means the trip was updated with the sender.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeDeclined means the notification was discarded.
	OutcomeDeclined Outcome = "declined"
	// OutcomeNoop means the request was accepted but could no longer apply
	// (no seats left, request already fulfilled, sender already on board).
	// The notification is consumed all the same.
	OutcomeNoop Outcome = "no_op"
)

// Resolution is the result of resolving a notification: the consumed
// notification, the trip as it stands afterwards, and what happened.
type Resolution struct {
	Notification Notification `json:"notification"`
	Trip         Trip         `json:"trip"`
	Outcome      Outcome      `json:"outcome"`
}
