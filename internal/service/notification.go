package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ravitejamarri/zypool/internal/domain"
	"github.com/ravitejamarri/zypool/internal/repo"
)

// NotificationService is the notification dispatcher and inbox.
type NotificationService struct {
	store repo.Store
	deps  Deps
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(store repo.Store, deps Deps) *NotificationService {
	return &NotificationService{store: store, deps: deps.withDefaults()}
}

// notify stores an unread notification through tx, so it commits or rolls
// back together with the operation that produced it.
func (s *NotificationService) notify(
	ctx context.Context,
	tx repo.Store,
	recipientID string,
	kind domain.NotificationType,
	tripID string,
	sender domain.User,
	message string,
) (domain.Notification, error) {
	n, err := tx.Notifications().Create(ctx, domain.Notification{
		ID:          s.deps.NewID(),
		RecipientID: recipientID,
		Type:        kind,
		Message:     message,
		TripID:      tripID,
		Sender:      sender,
		IsRead:      false,
		CreatedAt:   s.deps.Now().UTC(),
	})
	if err != nil {
		return domain.Notification{}, fmt.Errorf("service.NotificationService.notify: %w", err)
	}
	s.deps.Metrics.RequestSent(kind)
	return n, nil
}

// GetByID returns a single notification.
// Returns domain.ErrNotFound if it does not exist or was already resolved.
func (s *NotificationService) GetByID(ctx context.Context, id string) (domain.Notification, error) {
	n, err := s.store.Notifications().GetByID(ctx, id)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("service.NotificationService.GetByID: %w", err)
	}
	return n, nil
}

// ListByRecipient returns every pending notification for recipientID in the
// order they were sent. Display ordering is the caller's concern.
// Always returns a non-nil slice.
func (s *NotificationService) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	notes, err := s.store.Notifications().ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("service.NotificationService.ListByRecipient: %w", err)
	}
	if notes == nil {
		return []domain.Notification{}, nil
	}
	return notes, nil
}

// MarkAsRead flags a notification as read. A notification that no longer
// exists, typically because it was resolved in the meantime, is not an error.
func (s *NotificationService) MarkAsRead(ctx context.Context, id string) error {
	err := s.store.Notifications().MarkRead(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		s.deps.Logger.DebugContext(ctx, "mark read on missing notification", slog.String("notification_id", id))
		return nil
	}
	if err != nil {
		return fmt.Errorf("service.NotificationService.MarkAsRead: %w", err)
	}
	return nil
}
