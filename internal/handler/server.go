// Package handler implements the HTTP handlers for the ride-sharing API.
// All handlers are methods on Server and are mounted by NewRouter.
// Methods are split into resource files (session.go, trip.go,
// notification.go) but all share the same Server struct so they can reach
// its dependencies.
package handler

import (
	"context"
	"time"

	"github.com/ravitejamarri/zypool/internal/domain"
	"github.com/ravitejamarri/zypool/internal/middleware"
	"github.com/ravitejamarri/zypool/internal/session"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the store or service layer.
type TripServicer interface {
	Create(ctx context.Context, draft domain.TripDraft, creatorID, city string) (domain.Trip, error)
	GetByID(ctx context.Context, id string) (domain.Trip, error)
	ListByCity(ctx context.Context, city string) ([]domain.Trip, error)
	RequestToJoin(ctx context.Context, tripID, requesterID string) (domain.Notification, error)
	OfferRide(ctx context.Context, tripID, driverID string) (domain.Notification, error)
	Resolve(ctx context.Context, notificationID string, decision domain.Decision) (domain.Resolution, error)
}

// NotificationServicer defines the inbox operations the notification
// handlers depend on.
type NotificationServicer interface {
	GetByID(ctx context.Context, id string) (domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, id string) error
}

// UserServicer defines the user operations the session handlers depend on.
type UserServicer interface {
	Login(ctx context.Context, mobile, name string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
}

// SessionManager issues and verifies session tokens.
type SessionManager interface {
	middleware.SessionParser
	Issue(s session.Session) (string, time.Time, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	trips    TripServicer
	notes    NotificationServicer
	users    UserServicer
	sessions SessionManager
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, notes NotificationServicer, users UserServicer, sessions SessionManager) *Server {
	return &Server{trips: trips, notes: notes, users: users, sessions: sessions}
}
