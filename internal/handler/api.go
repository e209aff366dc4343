package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/ravitejamarri/zypool/internal/domain"
)

// Wire types. Field names and JSON tags follow spec/openapi.yaml.

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

type CreateSessionRequest struct {
	Mobile string  `json:"mobile"`
	Name   string  `json:"name"`
	City   *string `json:"city,omitempty"`
}

type SelectCityRequest struct {
	City string `json:"city"`
}

// SessionResponse is returned whenever a new token is issued.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
	City      *string   `json:"city"`
}

type CurrentSession struct {
	User User    `json:"user"`
	City *string `json:"city"`
}

type CreateTripRequest struct {
	Type  string             `json:"type"`
	From  string             `json:"from"`
	To    string             `json:"to"`
	Date  openapi_types.Date `json:"date"`
	Time  string             `json:"time"`
	Seats *int               `json:"seats,omitempty"`
	City  *string            `json:"city,omitempty"`
}

type Trip struct {
	ID         string             `json:"id"`
	Creator    User               `json:"creator"`
	Type       string             `json:"type"`
	City       string             `json:"city"`
	From       string             `json:"from"`
	To         string             `json:"to"`
	Date       openapi_types.Date `json:"date"`
	Time       string             `json:"time"`
	Seats      int                `json:"seats"`
	Passengers []User             `json:"passengers"`
	Status     string             `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	TripID      string    `json:"trip_id"`
	Sender      User      `json:"sender"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

type NotificationList struct {
	Data        []Notification `json:"data"`
	UnreadCount int            `json:"unread_count"`
}

type ResolveRequest struct {
	Decision string `json:"decision"`
}

type Resolution struct {
	NotificationID string `json:"notification_id"`
	Outcome        string `json:"outcome"`
	Trip           Trip   `json:"trip"`
}

// --- mapping helpers --------------------------------------------------------

func userToResponse(u domain.User) User {
	return User{ID: u.ID, Name: u.Name, Mobile: u.Mobile}
}

func tripToResponse(t domain.Trip) Trip {
	passengers := make([]User, len(t.Passengers))
	for i, p := range t.Passengers {
		passengers[i] = userToResponse(p)
	}
	return Trip{
		ID:         t.ID,
		Creator:    userToResponse(t.Creator),
		Type:       string(t.Type),
		City:       t.City,
		From:       t.From,
		To:         t.To,
		Date:       openapi_types.Date{Time: t.Date},
		Time:       t.Time,
		Seats:      t.Seats,
		Passengers: passengers,
		Status:     string(t.Status),
		CreatedAt:  t.CreatedAt,
	}
}

func notificationToResponse(n domain.Notification) Notification {
	return Notification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Type:        string(n.Type),
		Message:     n.Message,
		TripID:      n.TripID,
		Sender:      userToResponse(n.Sender),
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}

// optionalCity renders an unselected city as JSON null.
func optionalCity(city string) *string {
	if city == "" {
		return nil
	}
	return &city
}
