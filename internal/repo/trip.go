// Package repo contains all database access logic for the trip planner.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here; only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and its creator membership in one statement and
	// returns the persisted trip. Returns domain.ErrConflict if trip_code is taken.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// GetByCode retrieves a trip by its shareable trip code.
	// Returns domain.ErrNotFound if no trip carries that code.
	GetByCode(ctx context.Context, code string) (domain.Trip, error)

	// ListByMember returns one page of the trips userID belongs to, newest first,
	// together with the total number of such trips.
	ListByMember(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of an existing trip and returns the
	// updated record. Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip and, by cascade, its members, activities, and votes.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Spent returns the sum of estimated_cost over the trip's activities.
	Spent(ctx context.Context, id uuid.UUID) (float64, error)

	// ActivitiesOutside counts the trip's activities dated before start or
	// after end.
	ActivitiesOutside(ctx context.Context, id uuid.UUID, start, end time.Time) (int, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, name, destination, start_date, end_date, cover_image_url,
		total_budget::float8, currency, creator_id, trip_code, is_archived, created_at, updated_at`

// Create inserts the trip row and the creator's trip_members row. The CTE keeps
// both writes in a single statement so a trip never exists without its creator.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		WITH t AS (
			INSERT INTO trips (name, destination, start_date, end_date, cover_image_url,
			                   total_budget, currency, creator_id, trip_code)
			VALUES (@name, @destination, @start_date, @end_date, @cover_image_url,
			        @total_budget, @currency, @creator_id, @trip_code)
			RETURNING ` + tripColumns + `
		), m AS (
			INSERT INTO trip_members (trip_id, user_id, role)
			SELECT id, creator_id, 'creator' FROM t
		)
		SELECT ` + tripColumns + ` FROM t`

	args := pgx.NamedArgs{
		"name":            trip.Name,
		"destination":     trip.Destination,
		"start_date":      trip.StartDate,
		"end_date":        trip.EndDate,
		"cover_image_url": trip.CoverImageURL,
		"total_budget":    trip.Budget, // nil becomes NULL
		"currency":        trip.Currency,
		"creator_id":      trip.CreatorID,
		"trip_code":       trip.TripCode,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: trip code %q: %w", trip.TripCode, domain.ErrConflict)
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByCode retrieves a trip by trip_code.
func (r *pgTripRepo) GetByCode(ctx context.Context, code string) (domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE trip_code = @code`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"code": code}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByCode: %w", err)
	}
	return result, nil
}

// ListByMember returns one page of the member's trips ordered by created_at descending.
func (r *pgTripRepo) ListByMember(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const countQ = `SELECT count(*) FROM trip_members WHERE user_id = @user_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"user_id": userID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByMember: count: %w", err)
	}

	q := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE id IN (SELECT trip_id FROM trip_members WHERE user_id = @user_id)
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"user_id": userID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByMember: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListByMember: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByMember: rows: %w", err)
	}

	return trips, total, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
// creator_id and trip_code are immutable.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	q := `
		UPDATE trips
		SET name            = @name,
		    destination     = @destination,
		    start_date      = @start_date,
		    end_date        = @end_date,
		    cover_image_url = @cover_image_url,
		    total_budget    = @total_budget,
		    currency        = @currency,
		    is_archived     = @is_archived,
		    updated_at      = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":              trip.ID,
		"name":            trip.Name,
		"destination":     trip.Destination,
		"start_date":      trip.StartDate,
		"end_date":        trip.EndDate,
		"cover_image_url": trip.CoverImageURL,
		"total_budget":    trip.Budget,
		"currency":        trip.Currency,
		"is_archived":     trip.IsArchived,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// Spent sums estimated_cost over every activity of the trip.
func (r *pgTripRepo) Spent(ctx context.Context, id uuid.UUID) (float64, error) {
	const q = `SELECT COALESCE(SUM(estimated_cost), 0)::float8 FROM activities WHERE trip_id = @id`

	var spent float64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&spent); err != nil {
		return 0, fmt.Errorf("repo.TripRepo.Spent: %w", err)
	}
	return spent, nil
}

// ActivitiesOutside counts activities of the trip whose date falls outside
// [start, end].
func (r *pgTripRepo) ActivitiesOutside(ctx context.Context, id uuid.UUID, start, end time.Time) (int, error) {
	const q = `
		SELECT count(*)
		FROM activities
		WHERE trip_id = @id
		  AND (activity_date < @start_date OR activity_date > @end_date)`

	var n int
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "start_date": start, "end_date": end}).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("repo.TripRepo.ActivitiesOutside: %w", err)
	}
	return n, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID, DATE, and nullable total_budget conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		creatorID pgtype.UUID
		start     pgtype.Date
		end       pgtype.Date
		budget    pgtype.Float8
	)

	err := s.Scan(&id, &t.Name, &t.Destination, &start, &end, &t.CoverImageURL,
		&budget, &t.Currency, &creatorID, &t.TripCode, &t.IsArchived, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.CreatorID = uuid.UUID(creatorID.Bytes)
	t.StartDate = start.Time
	t.EndDate = end.Time
	if budget.Valid {
		b := budget.Float64
		t.Budget = &b
	}

	return t, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
