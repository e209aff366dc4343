package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ravitejamarri/zypool/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
// Begin on a pgx.Tx opens a savepoint, so InTx nests.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore is the Postgres implementation of Store.
type PostgresStore struct {
	db db
}

// NewPostgresStore constructs a Store backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresStore(db db) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Users() UserRepo                 { return NewUserRepo(s.db) }
func (s *PostgresStore) Trips() TripRepo                 { return NewTripRepo(s.db) }
func (s *PostgresStore) Notifications() NotificationRepo { return NewNotificationRepo(s.db) }

// InTx runs fn inside a database transaction. The transaction commits when
// fn returns nil and rolls back otherwise. Row locks taken through
// GetForUpdate are held until then.
func (s *PostgresStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return fn(NewPostgresStore(tx))
	})
	if err != nil {
		return fmt.Errorf("repo.PostgresStore.InTx: %w", err)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// mapNoRows turns pgx.ErrNoRows into domain.ErrNotFound and passes anything
// else through unchanged.
func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}
