package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ravitejamarri/zypool/internal/domain"
	"github.com/ravitejamarri/zypool/internal/repo"
)

// TripService is the trip lifecycle engine. It creates trips, turns join and
// offer requests into notifications, and applies resolutions to trip state.
type TripService struct {
	store repo.Store
	notes *NotificationService
	deps  Deps
}

// NewTripService constructs a TripService. notes dispatches the
// notifications that requests produce.
func NewTripService(store repo.Store, notes *NotificationService, deps Deps) *TripService {
	return &TripService{store: store, notes: notes, deps: deps.withDefaults()}
}

// Create stores a new ACTIVE trip with no passengers for creatorID in city.
// A REQUEST always needs exactly one seat, whatever the draft says.
// City, From and To are normalized with NormalizeText and must not be empty
// afterwards.
// Returns domain.ErrValidation for an unknown type, an OFFER with no seats,
// or an empty city or place, and domain.ErrInvalidOperation if the creator
// does not exist.
func (s *TripService) Create(ctx context.Context, draft domain.TripDraft, creatorID, city string) (_ domain.Trip, err error) {
	ctx, span := s.deps.Tracer.Start(ctx, "TripService.Create",
		trace.WithAttributes(attribute.String("trip.type", string(draft.Type))))
	defer func() { endSpan(span, err) }()

	seats := draft.Seats
	switch draft.Type {
	case domain.TripTypeRequest:
		seats = 1
	case domain.TripTypeOffer:
		if seats < 1 {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: an offer needs at least one seat", domain.ErrValidation)
		}
	default:
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: unknown trip type %q", domain.ErrValidation, draft.Type)
	}

	city, from, to := NormalizeText(city), NormalizeText(draft.From), NormalizeText(draft.To)
	switch {
	case city == "":
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: city is required", domain.ErrValidation)
	case from == "":
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: from is required", domain.ErrValidation)
	case to == "":
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: to is required", domain.ErrValidation)
	}

	creator, err := s.store.Users().GetByID(ctx, creatorID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", missingAsInvalid(err, "creator", creatorID))
	}

	trip := domain.Trip{
		ID:         s.deps.NewID(),
		Creator:    creator,
		Type:       draft.Type,
		City:       city,
		From:       from,
		To:         to,
		Date:       draft.Date,
		Time:       draft.Time,
		Seats:      seats,
		Passengers: []domain.User{},
		Status:     domain.TripStatusActive,
		CreatedAt:  s.deps.Now().UTC(),
	}
	created, err := s.store.Trips().Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	s.deps.Metrics.TripCreated(created.Type)
	s.deps.Logger.InfoContext(ctx, "trip created",
		slog.String("trip_id", created.ID),
		slog.String("type", string(created.Type)),
		slog.String("city", created.City),
		slog.Int("seats", created.Seats),
	)
	return created, nil
}

// GetByID returns a single trip. Returns domain.ErrNotFound if it does not exist.
func (s *TripService) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	trip, err := s.store.Trips().GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// ListByCity returns the trips in city that are not COMPLETED or CANCELLED,
// most recently created first. FULL offers are still listed.
func (s *TripService) ListByCity(ctx context.Context, city string) ([]domain.Trip, error) {
	city = NormalizeText(city)
	if city == "" {
		return nil, fmt.Errorf("service.TripService.ListByCity: %w: city is required", domain.ErrValidation)
	}
	trips, err := s.store.Trips().ListOpenByCity(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByCity: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// RequestToJoin asks the creator of an OFFER to take requesterID on board.
// The trip itself is not changed until the request is resolved.
func (s *TripService) RequestToJoin(ctx context.Context, tripID, requesterID string) (domain.Notification, error) {
	n, err := s.propose(ctx, "TripService.RequestToJoin", tripID, requesterID,
		domain.TripTypeOffer, domain.NotificationJoinRequest, joinRequestMessage)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("service.TripService.RequestToJoin: %w", err)
	}
	return n, nil
}

// OfferRide offers driverID as the ride for a REQUEST trip.
func (s *TripService) OfferRide(ctx context.Context, tripID, driverID string) (domain.Notification, error) {
	n, err := s.propose(ctx, "TripService.OfferRide", tripID, driverID,
		domain.TripTypeRequest, domain.NotificationOfferRequest, offerRequestMessage)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("service.TripService.OfferRide: %w", err)
	}
	return n, nil
}

// propose validates a join or offer proposal and notifies the trip creator.
// Every failure is domain.ErrInvalidOperation: unknown trip or sender, the
// wrong trip type, or a sender who is the creator or already a passenger.
func (s *TripService) propose(
	ctx context.Context,
	spanName, tripID, senderID string,
	want domain.TripType,
	kind domain.NotificationType,
	message func(domain.User, domain.Trip) string,
) (note domain.Notification, err error) {
	ctx, span := s.deps.Tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.String("trip.id", tripID),
		attribute.String("sender.id", senderID),
	))
	defer func() { endSpan(span, err) }()

	err = s.store.InTx(ctx, func(tx repo.Store) error {
		trip, err := tx.Trips().GetByID(ctx, tripID)
		if err != nil {
			return missingAsInvalid(err, "trip", tripID)
		}
		sender, err := tx.Users().GetByID(ctx, senderID)
		if err != nil {
			return missingAsInvalid(err, "user", senderID)
		}
		switch {
		case trip.Type != want:
			return fmt.Errorf("%w: trip %s is a %s, not a %s", domain.ErrInvalidOperation, trip.ID, trip.Type, want)
		case trip.Creator.ID == sender.ID:
			return fmt.Errorf("%w: cannot respond to your own trip", domain.ErrInvalidOperation)
		case trip.HasPassenger(sender.ID):
			return fmt.Errorf("%w: already a passenger on trip %s", domain.ErrInvalidOperation, trip.ID)
		}

		note, err = s.notes.notify(ctx, tx, trip.Creator.ID, kind, trip.ID, sender, message(sender, trip))
		return err
	})
	if err != nil {
		return domain.Notification{}, err
	}

	s.deps.Logger.InfoContext(ctx, "trip request sent",
		slog.String("notification_id", note.ID),
		slog.String("type", string(note.Type)),
		slog.String("trip_id", note.TripID),
		slog.String("sender_id", note.Sender.ID),
	)
	return note, nil
}

// Resolve applies decision to the notification's trip and consumes the
// notification. A second Resolve of the same id returns domain.ErrNotFound,
// which is what keeps a proposal from being accepted twice.
//
// Accepting can still leave the trip untouched (OutcomeNoop), and the
// notification is consumed either way:
//   - a JOIN_REQUEST on an offer with no seats left;
//   - an OFFER_REQUEST on a request that is no longer ACTIVE, so a request
//     is completed by exactly one driver;
//   - a sender who is already on board.
func (s *TripService) Resolve(ctx context.Context, notificationID string, decision domain.Decision) (res domain.Resolution, err error) {
	ctx, span := s.deps.Tracer.Start(ctx, "TripService.Resolve", trace.WithAttributes(
		attribute.String("notification.id", notificationID),
		attribute.String("decision", string(decision)),
	))
	defer func() { endSpan(span, err) }()

	if !decision.Valid() {
		return domain.Resolution{}, fmt.Errorf("service.TripService.Resolve: %w: decision must be accept or decline", domain.ErrValidation)
	}

	err = s.store.InTx(ctx, func(tx repo.Store) error {
		n, err := tx.Notifications().GetForUpdate(ctx, notificationID)
		if err != nil {
			return err
		}
		trip, err := tx.Trips().GetForUpdate(ctx, n.TripID)
		if err != nil {
			return err
		}

		outcome := domain.OutcomeDeclined
		if decision == domain.DecisionAccept {
			var changed bool
			trip, changed = accept(trip, n)
			outcome = domain.OutcomeNoop
			if changed {
				outcome = domain.OutcomeAccepted
				if trip, err = tx.Trips().Update(ctx, trip); err != nil {
					return err
				}
			}
		}

		if err := tx.Notifications().Delete(ctx, n.ID); err != nil {
			return err
		}
		res = domain.Resolution{Notification: n, Trip: trip, Outcome: outcome}
		return nil
	})
	if err != nil {
		return domain.Resolution{}, fmt.Errorf("service.TripService.Resolve: %w", err)
	}

	s.deps.Metrics.Resolved(decision, res.Outcome)
	s.deps.Logger.InfoContext(ctx, "notification resolved",
		slog.String("notification_id", res.Notification.ID),
		slog.String("trip_id", res.Trip.ID),
		slog.String("decision", string(decision)),
		slog.String("outcome", string(res.Outcome)),
		slog.String("status", string(res.Trip.Status)),
		slog.Int("seats", res.Trip.Seats),
	)
	return res, nil
}

// accept returns trip with n's sender taken on board, and whether anything
// changed. The input trip is never modified.
func accept(trip domain.Trip, n domain.Notification) (domain.Trip, bool) {
	if trip.Creator.ID == n.Sender.ID || trip.HasPassenger(n.Sender.ID) {
		return trip, false
	}
	next := trip.Clone()
	switch n.Type {
	case domain.NotificationJoinRequest:
		if next.Seats <= 0 {
			return trip, false
		}
		next.Seats--
		next.Passengers = append(next.Passengers, n.Sender)
		if next.Seats == 0 {
			next.Status = domain.TripStatusFull
		}
	case domain.NotificationOfferRequest:
		if next.Status != domain.TripStatusActive {
			return trip, false
		}
		next.Status = domain.TripStatusCompleted
		next.Passengers = append(next.Passengers, n.Sender)
	default:
		return trip, false
	}
	return next, true
}

// missingAsInvalid reports a missing trip or user referenced by a caller as
// an invalid operation rather than a lookup miss.
func missingAsInvalid(err error, what, id string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s %q does not exist", domain.ErrInvalidOperation, what, id)
	}
	return err
}
