package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) SaveVote(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO votes (id, user_id, poll_id, option_index, is_skip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	var optionIndex sql.NullInt32
	if vote.OptionIndex != nil {
		optionIndex = sql.NullInt32{Int32: int32(*vote.OptionIndex), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query, vote.ID, vote.UserID, vote.PollID, optionIndex, vote.IsSkip, vote.CreatedAt)
	if err != nil {
		switch {
		case isPQCode(err, uniqueViolation):
			return domain.ErrAlreadyActed
		case isPQCode(err, foreignKeyViolation):
			return domain.ErrPollNotFound
		}
		return fmt.Errorf("failed to save vote: %w", err)
	}
	return nil
}

func (r *voteRepository) GetByUserAndPoll(ctx context.Context, userID, pollID uuid.UUID) (*domain.Vote, error) {
	query := `
		SELECT id, user_id, poll_id, option_index, is_skip, created_at
		FROM votes
		WHERE user_id = $1 AND poll_id = $2
	`
	var vote domain.Vote
	var optionIndex sql.NullInt32
	err := r.db.QueryRowContext(ctx, query, userID, pollID).Scan(
		&vote.ID, &vote.UserID, &vote.PollID, &optionIndex, &vote.IsSkip, &vote.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	if optionIndex.Valid {
		idx := int(optionIndex.Int32)
		vote.OptionIndex = &idx
	}
	return &vote, nil
}

func (r *voteRepository) CountVotesSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM votes
		WHERE user_id = $1 AND NOT is_skip AND created_at >= $2
	`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

func (r *voteRepository) ActedPollIDs(ctx context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	acted := make(map[uuid.UUID]struct{})
	if len(pollIDs) == 0 {
		return acted, nil
	}

	ids := make([]string, len(pollIDs))
	for i, id := range pollIDs {
		ids[i] = id.String()
	}

	query := `SELECT poll_id FROM votes WHERE user_id = $1 AND poll_id = ANY($2::uuid[])`
	rows, err := r.db.QueryContext(ctx, query, userID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get acted polls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan poll id: %w", err)
		}
		acted[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating acted polls: %w", err)
	}
	return acted, nil
}

func (r *voteRepository) CountByOption(ctx context.Context, pollID uuid.UUID) (map[int]int64, error) {
	query := `
		SELECT option_index, COUNT(*)
		FROM votes
		WHERE poll_id = $1 AND NOT is_skip
		GROUP BY option_index
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes by option: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int64)
	for rows.Next() {
		var idx int
		var count int64
		if err := rows.Scan(&idx, &count); err != nil {
			return nil, fmt.Errorf("failed to scan option count: %w", err)
		}
		counts[idx] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating option counts: %w", err)
	}
	return counts, nil
}
