package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

const pollColumns = `p.id, p.title, p.options, p.tags, p.created_at`

// feedFilter matches polls sharing any tag with $1 (NULL disables the filter)
// and drops polls user $2 already acted on (NULL disables the exclusion).
const feedFilter = `
	WHERE ($1::text[] IS NULL OR p.tags && $1::text[])
	  AND ($2::uuid IS NULL OR NOT EXISTS (
		SELECT 1 FROM votes v WHERE v.poll_id = p.id AND v.user_id = $2::uuid
	  ))
`

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	query := `
		INSERT INTO polls (id, title, options, tags, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	tags := poll.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := r.db.ExecContext(ctx, query, poll.ID, poll.Title, pq.Array(poll.Options), pq.Array(tags), poll.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}
	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls p WHERE p.id = $1`

	poll, err := scanPoll(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	return poll, nil
}

func (r *pollRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Poll, error) {
	query := `
		SELECT ` + pollColumns + `
		FROM polls p
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent polls: %w", err)
	}
	defer rows.Close()

	return scanPolls(rows)
}

func (r *pollRepository) ListFeed(ctx context.Context, q ports.FeedQuery) ([]*domain.Poll, error) {
	query := `
		SELECT ` + pollColumns + `
		FROM polls p
	` + feedFilter + `
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3 OFFSET $4
	`
	tags, user := feedArgs(q)
	rows, err := r.db.QueryContext(ctx, query, tags, user, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed polls: %w", err)
	}
	defer rows.Close()

	return scanPolls(rows)
}

func (r *pollRepository) CountFeed(ctx context.Context, q ports.FeedQuery) (int, error) {
	query := `SELECT COUNT(*) FROM polls p ` + feedFilter

	tags, user := feedArgs(q)
	var count int
	if err := r.db.QueryRowContext(ctx, query, tags, user).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count feed polls: %w", err)
	}
	return count, nil
}

func feedArgs(q ports.FeedQuery) (tags any, user any) {
	if len(q.Tags) > 0 {
		tags = pq.Array(q.Tags)
	}
	if q.ExcludeVotedBy != nil {
		user = q.ExcludeVotedBy.String()
	}
	return tags, user
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (*domain.Poll, error) {
	var poll domain.Poll
	var options, tags pq.StringArray
	if err := row.Scan(&poll.ID, &poll.Title, &options, &tags, &poll.CreatedAt); err != nil {
		return nil, err
	}
	poll.Options = []string(options)
	poll.Tags = []string(tags)
	if poll.Tags == nil {
		poll.Tags = []string{}
	}
	return &poll, nil
}

func scanPolls(rows *sql.Rows) ([]*domain.Poll, error) {
	var polls []*domain.Poll
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	return polls, nil
}
