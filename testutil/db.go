// Package testutil provides shared helpers for Postgres integration tests.
// Every helper skips the calling test when TEST_DATABASE_URL is unset, so
// `go test ./...` stays green on machines without a database.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/ravitejamarri/zypool/migrations"
)

// DSNEnv names the variable that points integration tests at a database.
const DSNEnv = "TEST_DATABASE_URL"

// NewPool returns a pool on the test database, closed when t finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := openPool(context.Background(), requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// NewTx begins a transaction that is rolled back when t finishes. Handing it
// to repo.NewPostgresStore isolates each test without cleanup SQL.
func NewTx(t *testing.T) pgx.Tx {
	t.Helper()

	tx, err := NewPool(t).Begin(context.Background())
	if err != nil {
		t.Fatalf("testutil.NewTx: begin: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })
	return tx
}

// NewSQLDB returns a database/sql view of a test pool, for goose.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db := stdlib.OpenDBFromPool(NewPool(t))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// MigrateFromEnv applies every pending migration to the database named by
// TEST_DATABASE_URL. It is meant for TestMain, where there is no *testing.T;
// with the variable unset it does nothing and reports false.
func MigrateFromEnv(ctx context.Context) (bool, error) {
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		return false, nil
	}
	pool, err := openPool(ctx, dsn)
	if err != nil {
		return true, fmt.Errorf("testutil.MigrateFromEnv: %w", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	if _, err := migrations.Up(ctx, db); err != nil {
		return true, fmt.Errorf("testutil.MigrateFromEnv: %w", err)
	}
	return true, nil
}

func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skip(DSNEnv + " not set; skipping integration test")
	}
	return dsn
}
