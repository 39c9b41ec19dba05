package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
)

// FeedQuery selects feed polls from the store, newest first.
type FeedQuery struct {
	Tags           []string
	ExcludeVotedBy *uuid.UUID
	Limit          int
	Offset         int
}

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Poll, error)
	ListFeed(ctx context.Context, query FeedQuery) ([]*domain.Poll, error)
	CountFeed(ctx context.Context, query FeedQuery) (int, error)
}

type CreatePollInput struct {
	Title   string
	Options []string
	Tags    []string
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id string) (*domain.Poll, error)
}
