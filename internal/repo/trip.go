package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ravitejamarri/zypool/internal/domain"
)

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `
	id, creator_id, creator_name, creator_mobile, type, city,
	from_place, to_place, trip_date, trip_time, seats, passengers, status, created_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	q := `
		INSERT INTO trips (id, creator_id, creator_name, creator_mobile, type, city,
		                   from_place, to_place, trip_date, trip_time, seats, passengers, status, created_at)
		VALUES (@id, @creator_id, @creator_name, @creator_mobile, @type, @city,
		        @from_place, @to_place, @trip_date, @trip_time, @seats, @passengers, @status, @created_at)
		RETURNING` + tripColumns

	passengers := trip.Passengers
	if passengers == nil {
		passengers = []domain.User{}
	}

	args := pgx.NamedArgs{
		"id":             trip.ID,
		"creator_id":     trip.Creator.ID,
		"creator_name":   trip.Creator.Name,
		"creator_mobile": trip.Creator.Mobile,
		"type":           string(trip.Type),
		"city":           trip.City,
		"from_place":     trip.From,
		"to_place":       trip.To,
		"trip_date":      pgtype.Date{Time: trip.Date, Valid: true},
		"trip_time":      trip.Time,
		"seats":          trip.Seats,
		"passengers":     passengers, // encoded as JSONB
		"status":         string(trip.Status),
		"created_at":     trip.CreatedAt,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	q := `SELECT` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetForUpdate retrieves a trip and locks its row until the enclosing
// transaction ends, so concurrent resolutions of the same trip queue up.
func (r *pgTripRepo) GetForUpdate(ctx context.Context, id string) (domain.Trip, error) {
	q := `SELECT` + tripColumns + ` FROM trips WHERE id = @id FOR UPDATE`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetForUpdate: %w", err)
	}
	return result, nil
}

// ListOpenByCity returns the listable trips of a city, newest first.
func (r *pgTripRepo) ListOpenByCity(ctx context.Context, city string) ([]domain.Trip, error) {
	q := `SELECT` + tripColumns + `
		FROM trips
		WHERE city = @city
		  AND status NOT IN ('COMPLETED', 'CANCELLED')
		ORDER BY seq DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"city": city})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListOpenByCity: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListOpenByCity: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListOpenByCity: rows: %w", err)
	}

	return trips, nil
}

// Update overwrites the mutable matching state of a trip.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	q := `
		UPDATE trips
		SET seats      = @seats,
		    passengers = @passengers,
		    status     = @status,
		    updated_at = now()
		WHERE id = @id
		RETURNING` + tripColumns

	passengers := trip.Passengers
	if passengers == nil {
		passengers = []domain.User{}
	}

	args := pgx.NamedArgs{
		"id":         trip.ID,
		"seats":      trip.Seats,
		"passengers": passengers,
		"status":     string(trip.Status),
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the DATE conversion and the JSONB passenger snapshot.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t          domain.Trip
		tripType   string
		status     string
		date       pgtype.Date
		passengers []domain.User
	)

	err := s.Scan(
		&t.ID, &t.Creator.ID, &t.Creator.Name, &t.Creator.Mobile, &tripType, &t.City,
		&t.From, &t.To, &date, &t.Time, &t.Seats, &passengers, &status, &t.CreatedAt,
	)
	if err != nil {
		return domain.Trip{}, mapNoRows(err)
	}

	t.Type = domain.TripType(tripType)
	t.Status = domain.TripStatus(status)
	t.Date = date.Time
	t.Passengers = passengers
	if t.Passengers == nil {
		t.Passengers = []domain.User{}
	}

	return t, nil
}
