// Package seed pre-populates a store with demo users and trips so a fresh
// memory-backed server has something to browse.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/ravitejamarri/zypool/internal/domain"
)

// UserCreator is the part of service.UserService the seed needs.
type UserCreator interface {
	Login(ctx context.Context, mobile, name string) (domain.User, error)
}

// TripCreator is the part of service.TripService the seed needs.
type TripCreator interface {
	Create(ctx context.Context, draft domain.TripDraft, creatorID, city string) (domain.Trip, error)
}

type demoUser struct {
	mobile, name string
}

var demoUsers = []demoUser{
	{"9876543210", "Alice"},
	{"1234567890", "Bob"},
	{"5555555555", "Charlie (Driver)"},
}

type demoTrip struct {
	creator int // index into demoUsers
	city    string
	draft   domain.TripDraft
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Listed in the order they should appear; Demo creates them in reverse
// because listings are most recent first.
var demoTrips = []demoTrip{
	{2, "Hyderabad", domain.TripDraft{Type: domain.TripTypeOffer, From: "Gachibowli", To: "Airport", Date: day("2024-08-15"), Time: "10:00", Seats: 3}},
	{1, "Hyderabad", domain.TripDraft{Type: domain.TripTypeRequest, From: "Kondapur", To: "Hitec City", Date: day("2024-08-16"), Time: "09:00"}},
	{0, "Bangalore", domain.TripDraft{Type: domain.TripTypeOffer, From: "Koramangala", To: "Indiranagar", Date: day("2024-08-17"), Time: "18:00", Seats: 2}},
	{1, "Bangalore", domain.TripDraft{Type: domain.TripTypeRequest, From: "Whitefield", To: "Marathahalli", Date: day("2024-08-18"), Time: "20:00"}},
}

// Demo logs in the demo users (creating them on first run) and creates the
// demo trips through the services, so every business rule applies.
func Demo(ctx context.Context, users UserCreator, trips TripCreator) error {
	created := make([]domain.User, len(demoUsers))
	for i, u := range demoUsers {
		user, err := users.Login(ctx, u.mobile, u.name)
		if err != nil {
			return fmt.Errorf("seed.Demo: user %s: %w", u.name, err)
		}
		created[i] = user
	}
	for i := len(demoTrips) - 1; i >= 0; i-- {
		t := demoTrips[i]
		if _, err := trips.Create(ctx, t.draft, created[t.creator].ID, t.city); err != nil {
			return fmt.Errorf("seed.Demo: trip %s to %s: %w", t.draft.From, t.draft.To, err)
		}
	}
	return nil
}
