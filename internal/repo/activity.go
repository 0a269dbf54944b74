package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ActivityRepo defines the persistence operations for Activities.
// All single-row operations are scoped by tripID to enforce ownership.
// Reads take a viewer so the returned Activity.Voted reflects that user.
type ActivityRepo interface {
	// Create inserts a new activity and returns the persisted record.
	Create(ctx context.Context, a domain.Activity) (domain.Activity, error)

	// GetByID retrieves one activity of a trip with its vote count.
	// Returns domain.ErrNotFound if no such activity exists under that trip.
	GetByID(ctx context.Context, tripID, id, viewer uuid.UUID) (domain.Activity, error)

	// ListByTripID returns a trip's activities ordered by date, then time.
	ListByTripID(ctx context.Context, tripID, viewer uuid.UUID) ([]domain.Activity, error)

	// Update overwrites the mutable fields of an activity, scoped to its trip.
	// is_locked_in is not touched; use SetLockedIn.
	Update(ctx context.Context, a domain.Activity, viewer uuid.UUID) (domain.Activity, error)

	// SetLockedIn sets the authoritative lock-in flag.
	SetLockedIn(ctx context.Context, tripID, id uuid.UUID, locked bool, viewer uuid.UUID) (domain.Activity, error)

	// Delete removes an activity, scoped to its trip.
	// Returns domain.ErrNotFound if no such activity exists under that trip.
	Delete(ctx context.Context, tripID, id uuid.UUID) error
}

type pgActivityRepo struct {
	db db
}

// NewActivityRepo constructs an ActivityRepo backed by the provided db connection.
func NewActivityRepo(db db) ActivityRepo {
	return &pgActivityRepo{db: db}
}

// activitySelect reads every column of the row aliased "a" plus the derived
// vote_count and voted columns. It expects a @viewer argument.
const activitySelect = `
		a.id, a.trip_id, a.title, a.category, a.activity_date, a.start_time, a.end_time,
		a.location, a.estimated_cost::float8, a.notes, a.image_url, a.creator_id,
		a.is_locked_in, a.created_at, a.updated_at,
		(SELECT count(*) FROM activity_votes v WHERE v.activity_id = a.id),
		EXISTS (SELECT 1 FROM activity_votes v WHERE v.activity_id = a.id AND v.user_id = @viewer)`

func (r *pgActivityRepo) Create(ctx context.Context, act domain.Activity) (domain.Activity, error) {
	q := `
		WITH a AS (
			INSERT INTO activities (trip_id, title, category, activity_date, start_time, end_time,
			                        location, estimated_cost, notes, image_url, creator_id)
			VALUES (@trip_id, @title, @category, @date, @time, @end_time,
			        @location, @estimated_cost, @notes, @image_url, @creator_id)
			RETURNING *
		)
		SELECT ` + activitySelect + ` FROM a`

	args := writeArgs(act)
	args["creator_id"] = act.CreatorID
	args["viewer"] = act.CreatorID

	result, err := scanActivity(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgActivityRepo) GetByID(ctx context.Context, tripID, id, viewer uuid.UUID) (domain.Activity, error) {
	q := `SELECT ` + activitySelect + ` FROM activities a WHERE a.trip_id = @trip_id AND a.id = @id`

	result, err := scanActivity(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "id": id, "viewer": viewer}))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgActivityRepo) ListByTripID(ctx context.Context, tripID, viewer uuid.UUID) ([]domain.Activity, error) {
	q := `
		SELECT ` + activitySelect + `
		FROM activities a
		WHERE a.trip_id = @trip_id
		ORDER BY a.activity_date, a.start_time, a.created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID, "viewer": viewer})
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	acts := []domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ActivityRepo.ListByTripID: scan: %w", err)
		}
		acts = append(acts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByTripID: rows: %w", err)
	}
	return acts, nil
}

func (r *pgActivityRepo) Update(ctx context.Context, act domain.Activity, viewer uuid.UUID) (domain.Activity, error) {
	q := `
		WITH a AS (
			UPDATE activities
			SET title          = @title,
			    category       = @category,
			    activity_date  = @date,
			    start_time     = @time,
			    end_time       = @end_time,
			    location       = @location,
			    estimated_cost = @estimated_cost,
			    notes          = @notes,
			    image_url      = @image_url,
			    updated_at     = now()
			WHERE trip_id = @trip_id AND id = @id
			RETURNING *
		)
		SELECT ` + activitySelect + ` FROM a`

	args := writeArgs(act)
	args["id"] = act.ID
	args["viewer"] = viewer

	result, err := scanActivity(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgActivityRepo) SetLockedIn(ctx context.Context, tripID, id uuid.UUID, locked bool, viewer uuid.UUID) (domain.Activity, error) {
	q := `
		WITH a AS (
			UPDATE activities
			SET is_locked_in = @locked, updated_at = now()
			WHERE trip_id = @trip_id AND id = @id
			RETURNING *
		)
		SELECT ` + activitySelect + ` FROM a`

	args := pgx.NamedArgs{"trip_id": tripID, "id": id, "locked": locked, "viewer": viewer}
	result, err := scanActivity(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.SetLockedIn: %w", err)
	}
	return result, nil
}

func (r *pgActivityRepo) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	const q = `DELETE FROM activities WHERE trip_id = @trip_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "id": id})
	if err != nil {
		return fmt.Errorf("repo.ActivityRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ActivityRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// writeArgs holds the named arguments shared by Create and Update.
func writeArgs(a domain.Activity) pgx.NamedArgs {
	return pgx.NamedArgs{
		"trip_id":        a.TripID,
		"title":          a.Title,
		"category":       string(a.Category),
		"date":           a.Date,
		"time":           a.Time,
		"end_time":       a.EndTime,
		"location":       a.Location,
		"estimated_cost": a.EstimatedCost,
		"notes":          a.Notes,
		"image_url":      a.ImageURL,
	}
}

func scanActivity(s scanner) (domain.Activity, error) {
	var (
		a                     domain.Activity
		id, tripID, creatorID pgtype.UUID
		date                  pgtype.Date
		category              string
	)
	err := s.Scan(&id, &tripID, &a.Title, &category, &date, &a.Time, &a.EndTime,
		&a.Location, &a.EstimatedCost, &a.Notes, &a.ImageURL, &creatorID,
		&a.IsLockedIn, &a.CreatedAt, &a.UpdatedAt, &a.VoteCount, &a.Voted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, domain.ErrNotFound
		}
		return domain.Activity{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	a.TripID = uuid.UUID(tripID.Bytes)
	a.CreatorID = uuid.UUID(creatorID.Bytes)
	a.Category = domain.Category(category)
	a.Date = date.Time
	return a, nil
}
