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

// MemberRepo defines the persistence operations for the trip_members table.
// Membership is what grants a user read/write access to a trip.
type MemberRepo interface {
	// Add inserts a membership, or returns the existing one unchanged if the user
	// already belongs to the trip. The existing role is never downgraded.
	Add(ctx context.Context, m domain.TripMember) (domain.TripMember, error)

	// Get returns the membership of userID in tripID.
	// Returns domain.ErrNotFound if the user is not a member.
	Get(ctx context.Context, tripID, userID uuid.UUID) (domain.TripMember, error)

	// List returns every member of a trip, creator first, then by joined_at.
	List(ctx context.Context, tripID uuid.UUID) ([]domain.TripMember, error)

	// Remove deletes a membership. Returns domain.ErrNotFound if it does not exist.
	Remove(ctx context.Context, tripID, userID uuid.UUID) error
}

type pgMemberRepo struct {
	db db
}

// NewMemberRepo constructs a MemberRepo backed by the provided db connection.
func NewMemberRepo(db db) MemberRepo {
	return &pgMemberRepo{db: db}
}

// Add upserts a membership. DO UPDATE SET role = trip_members.role is a no-op
// update that still lets RETURNING fire on conflict.
func (r *pgMemberRepo) Add(ctx context.Context, m domain.TripMember) (domain.TripMember, error) {
	const q = `
		INSERT INTO trip_members (trip_id, user_id, role)
		VALUES (@trip_id, @user_id, @role)
		ON CONFLICT (trip_id, user_id) DO UPDATE SET role = trip_members.role
		RETURNING trip_id, user_id, role, joined_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trip_id": m.TripID,
		"user_id": m.UserID,
		"role":    string(m.Role),
	})
	result, err := scanMember(row)
	if err != nil {
		return domain.TripMember{}, fmt.Errorf("repo.MemberRepo.Add: %w", err)
	}
	return result, nil
}

// Get retrieves one membership row.
func (r *pgMemberRepo) Get(ctx context.Context, tripID, userID uuid.UUID) (domain.TripMember, error) {
	const q = `
		SELECT trip_id, user_id, role, joined_at
		FROM trip_members
		WHERE trip_id = @trip_id AND user_id = @user_id`

	result, err := scanMember(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID}))
	if err != nil {
		return domain.TripMember{}, fmt.Errorf("repo.MemberRepo.Get: %w", err)
	}
	return result, nil
}

// List returns all members of a trip.
func (r *pgMemberRepo) List(ctx context.Context, tripID uuid.UUID) ([]domain.TripMember, error) {
	const q = `
		SELECT trip_id, user_id, role, joined_at
		FROM trip_members
		WHERE trip_id = @trip_id
		ORDER BY role = 'creator' DESC, joined_at, user_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.List: %w", err)
	}
	defer rows.Close()

	members := []domain.TripMember{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.MemberRepo.List: scan: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.List: rows: %w", err)
	}
	return members, nil
}

// Remove deletes a membership row.
func (r *pgMemberRepo) Remove(ctx context.Context, tripID, userID uuid.UUID) error {
	const q = `DELETE FROM trip_members WHERE trip_id = @trip_id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.MemberRepo.Remove: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.MemberRepo.Remove: %w", domain.ErrNotFound)
	}
	return nil
}

func scanMember(s scanner) (domain.TripMember, error) {
	var (
		m      domain.TripMember
		tripID pgtype.UUID
		userID pgtype.UUID
		role   string
	)
	if err := s.Scan(&tripID, &userID, &role, &m.JoinedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripMember{}, domain.ErrNotFound
		}
		return domain.TripMember{}, err
	}
	m.TripID = uuid.UUID(tripID.Bytes)
	m.UserID = uuid.UUID(userID.Bytes)
	m.Role = domain.Role(role)
	return m, nil
}
