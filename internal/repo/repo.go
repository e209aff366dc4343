// Package repo contains the Entity Store: the authoritative collections of
// users, trips, and notifications. Each resource has an interface; the
// package ships an in-memory implementation (NewMemoryStore) and a Postgres
// one (NewPostgresStore). No business logic lives here, only storage and
// type mapping.
package repo

import (
	"context"

	"github.com/ravitejamarri/zypool/internal/domain"
)

// UserRepo defines the persistence operations for Users.
type UserRepo interface {
	// Create inserts a new user. The caller supplies the ID.
	Create(ctx context.Context, user domain.User) (domain.User, error)

	// GetByID returns domain.ErrNotFound if no user has that ID.
	GetByID(ctx context.Context, id string) (domain.User, error)

	// GetByMobile returns domain.ErrNotFound if no user has that mobile number.
	GetByMobile(ctx context.Context, mobile string) (domain.User, error)

	// UpdateName changes the display name of an existing user.
	// Returns domain.ErrNotFound if no user has that ID.
	UpdateName(ctx context.Context, id, name string) (domain.User, error)
}

// TripRepo defines the persistence operations for Trips.
// Trips are never deleted; closing a trip is a status change.
type TripRepo interface {
	// Create inserts a trip at the head of the collection so that listings
	// are most-recent-first.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID returns domain.ErrNotFound if no trip has that ID.
	GetByID(ctx context.Context, id string) (domain.Trip, error)

	// GetForUpdate is GetByID, but inside InTx it also prevents concurrent
	// writers from changing the trip until the transaction ends.
	GetForUpdate(ctx context.Context, id string) (domain.Trip, error)

	// ListOpenByCity returns the trips in city whose status is neither
	// COMPLETED nor CANCELLED, most recently created first.
	ListOpenByCity(ctx context.Context, city string) ([]domain.Trip, error)

	// Update overwrites seats, passengers, and status.
	// Returns domain.ErrNotFound if no trip has that ID.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

// NotificationRepo defines the persistence operations for Notifications.
type NotificationRepo interface {
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)

	// GetByID returns domain.ErrNotFound if no notification has that ID.
	GetByID(ctx context.Context, id string) (domain.Notification, error)

	// GetForUpdate is GetByID with a row lock inside InTx.
	GetForUpdate(ctx context.Context, id string) (domain.Notification, error)

	// ListByRecipient returns every notification addressed to recipientID
	// in creation order.
	ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error)

	// MarkRead sets IsRead. Returns domain.ErrNotFound if it does not exist.
	MarkRead(ctx context.Context, id string) error

	// Delete removes a notification. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}

// Store groups the three repositories over one backing store.
//
// InTx runs fn as a single all-or-nothing unit: the Store handed to fn sees
// its own writes, and either every write is applied or none is. Units never
// interleave with each other on the same trip or notification.
type Store interface {
	Users() UserRepo
	Trips() TripRepo
	Notifications() NotificationRepo
	InTx(ctx context.Context, fn func(tx Store) error) error
}
