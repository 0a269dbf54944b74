package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// VoteRepo defines the persistence operations for activity_votes.
// A row's existence is the vote; there is no vote value.
type VoteRepo interface {
	// Add records a vote. Idempotent; no error if the vote already exists.
	Add(ctx context.Context, activityID, userID uuid.UUID) error

	// Remove deletes a vote. Returns domain.ErrNotFound if there was none.
	Remove(ctx context.Context, activityID, userID uuid.UUID) error

	// Exists reports whether userID has voted for activityID.
	Exists(ctx context.Context, activityID, userID uuid.UUID) (bool, error)

	// Count returns the number of votes for activityID.
	Count(ctx context.Context, activityID uuid.UUID) (int, error)

	// ListByActivity returns every vote for activityID, oldest first.
	ListByActivity(ctx context.Context, activityID uuid.UUID) ([]domain.ActivityVote, error)
}

type pgVoteRepo struct {
	db db
}

// NewVoteRepo constructs a VoteRepo backed by the provided db connection.
func NewVoteRepo(db db) VoteRepo {
	return &pgVoteRepo{db: db}
}

func (r *pgVoteRepo) Add(ctx context.Context, activityID, userID uuid.UUID) error {
	const q = `
		INSERT INTO activity_votes (activity_id, user_id)
		VALUES (@activity_id, @user_id)
		ON CONFLICT (activity_id, user_id) DO NOTHING`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"activity_id": activityID, "user_id": userID}); err != nil {
		return fmt.Errorf("repo.VoteRepo.Add: %w", err)
	}
	return nil
}

func (r *pgVoteRepo) Remove(ctx context.Context, activityID, userID uuid.UUID) error {
	const q = `DELETE FROM activity_votes WHERE activity_id = @activity_id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"activity_id": activityID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.VoteRepo.Remove: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VoteRepo.Remove: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgVoteRepo) Exists(ctx context.Context, activityID, userID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM activity_votes
			WHERE activity_id = @activity_id AND user_id = @user_id
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"activity_id": activityID, "user_id": userID}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.VoteRepo.Exists: %w", err)
	}
	return exists, nil
}

func (r *pgVoteRepo) Count(ctx context.Context, activityID uuid.UUID) (int, error) {
	const q = `SELECT count(*) FROM activity_votes WHERE activity_id = @activity_id`

	var n int
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"activity_id": activityID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.VoteRepo.Count: %w", err)
	}
	return n, nil
}

func (r *pgVoteRepo) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]domain.ActivityVote, error) {
	const q = `
		SELECT activity_id, user_id, created_at
		FROM activity_votes
		WHERE activity_id = @activity_id
		ORDER BY created_at, user_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"activity_id": activityID})
	if err != nil {
		return nil, fmt.Errorf("repo.VoteRepo.ListByActivity: %w", err)
	}
	defer rows.Close()

	votes := []domain.ActivityVote{}
	for rows.Next() {
		var (
			v                  domain.ActivityVote
			activity, userUUID pgtype.UUID
		)
		if err := rows.Scan(&activity, &userUUID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("repo.VoteRepo.ListByActivity: scan: %w", err)
		}
		v.ActivityID = uuid.UUID(activity.Bytes)
		v.UserID = uuid.UUID(userUUID.Bytes)
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VoteRepo.ListByActivity: rows: %w", err)
	}
	return votes, nil
}
