// Package domain contains the core data types for the ride-sharing service.
// This package has no dependencies on other internal packages and is imported
// by every other internal package (repo, service, handler).
package domain

import (
	"slices"
	"time"
)

// TripType distinguishes a driver's ride offer from a rider's ride request.
type TripType string

const (
	// TripTypeOffer is a trip where the creator drives and has seats to fill.
	TripTypeOffer TripType = "OFFER"
	// TripTypeRequest is a trip where the creator is looking for a ride.
	TripTypeRequest TripType = "REQUEST"
)

// Valid reports whether t is a known trip type.
func (t TripType) Valid() bool {
	return t == TripTypeOffer || t == TripTypeRequest
}

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	TripStatusActive    TripStatus = "ACTIVE"
	TripStatusFull      TripStatus = "FULL"
	TripStatusCompleted TripStatus = "COMPLETED"
	TripStatusCancelled TripStatus = "CANCELLED"
)

// Closed reports whether the trip is no longer listed for its city.
func (s TripStatus) Closed() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// Trip is a ride offer or ride request scoped to a city.
//
// For an OFFER, Seats is the number of seats still open; it only ever goes
// down, and Status becomes FULL when it reaches zero. For a REQUEST, Seats is
// the number of seats needed (always 1) and is never decremented.
// Passengers only grows and never contains Creator.
type Trip struct {
	ID         string     `json:"id"`
	Creator    User       `json:"creator"`
	Type       TripType   `json:"type"`
	City       string     `json:"city"`
	From       string     `json:"from"`
	To         string     `json:"to"`
	Date       time.Time  `json:"date"`
	Time       string     `json:"time"` // "15:04" local departure time
	Seats      int        `json:"seats"`
	Passengers []User     `json:"passengers"`
	Status     TripStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TripDraft carries the caller-supplied fields of a new trip.
// Seats is only meaningful for offers.
type TripDraft struct {
	Type  TripType
	From  string
	To    string
	Date  time.Time
	Time  string
	Seats int
}

// Clone returns a deep copy of t. Mutating the copy never affects t.
func (t Trip) Clone() Trip {
	c := t
	c.Passengers = slices.Clone(t.Passengers)
	if c.Passengers == nil {
		c.Passengers = []User{}
	}
	return c
}

// HasPassenger reports whether the user with the given id already rides on t.
func (t Trip) HasPassenger(userID string) bool {
	return slices.ContainsFunc(t.Passengers, func(u User) bool { return u.ID == userID })
}
