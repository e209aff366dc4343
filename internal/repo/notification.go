package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ravitejamarri/zypool/internal/domain"
)

// pgNotificationRepo is the Postgres implementation of NotificationRepo.
type pgNotificationRepo struct {
	db db
}

// NewNotificationRepo constructs a NotificationRepo backed by the provided db connection.
func NewNotificationRepo(db db) NotificationRepo {
	return &pgNotificationRepo{db: db}
}

const notificationColumns = `
	id, recipient_id, type, message, trip_id,
	sender_id, sender_name, sender_mobile, is_read, created_at`

func (r *pgNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	q := `
		INSERT INTO notifications (id, recipient_id, type, message, trip_id,
		                           sender_id, sender_name, sender_mobile, is_read, created_at)
		VALUES (@id, @recipient_id, @type, @message, @trip_id,
		        @sender_id, @sender_name, @sender_mobile, @is_read, @created_at)
		RETURNING` + notificationColumns

	args := pgx.NamedArgs{
		"id":            n.ID,
		"recipient_id":  n.RecipientID,
		"type":          string(n.Type),
		"message":       n.Message,
		"trip_id":       n.TripID,
		"sender_id":     n.Sender.ID,
		"sender_name":   n.Sender.Name,
		"sender_mobile": n.Sender.Mobile,
		"is_read":       n.IsRead,
		"created_at":    n.CreatedAt,
	}

	result, err := scanNotification(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgNotificationRepo) GetByID(ctx context.Context, id string) (domain.Notification, error) {
	q := `SELECT` + notificationColumns + ` FROM notifications WHERE id = @id`

	result, err := scanNotification(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetForUpdate locks the notification row so that two concurrent
// resolutions of the same notification cannot both see it.
func (r *pgNotificationRepo) GetForUpdate(ctx context.Context, id string) (domain.Notification, error) {
	q := `SELECT` + notificationColumns + ` FROM notifications WHERE id = @id FOR UPDATE`

	result, err := scanNotification(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.GetForUpdate: %w", err)
	}
	return result, nil
}

func (r *pgNotificationRepo) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	q := `SELECT` + notificationColumns + `
		FROM notifications
		WHERE recipient_id = @recipient_id
		ORDER BY seq`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"recipient_id": recipientID})
	if err != nil {
		return nil, fmt.Errorf("repo.NotificationRepo.ListByRecipient: %w", err)
	}
	defer rows.Close()

	out := []domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.NotificationRepo.ListByRecipient: scan: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.NotificationRepo.ListByRecipient: rows: %w", err)
	}
	return out, nil
}

func (r *pgNotificationRepo) MarkRead(ctx context.Context, id string) error {
	const q = `UPDATE notifications SET is_read = true WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.NotificationRepo.MarkRead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.NotificationRepo.MarkRead: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgNotificationRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM notifications WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.NotificationRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.NotificationRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanNotification(s scanner) (domain.Notification, error) {
	var (
		n     domain.Notification
		nType string
	)
	err := s.Scan(
		&n.ID, &n.RecipientID, &nType, &n.Message, &n.TripID,
		&n.Sender.ID, &n.Sender.Name, &n.Sender.Mobile, &n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		return domain.Notification{}, mapNoRows(err)
	}
	n.Type = domain.NotificationType(nType)
	return n, nil
}
