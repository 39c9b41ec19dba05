package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
)

type VoteRepository interface {
	// SaveVote inserts a vote. A second vote for the same (user, poll) fails
	// with domain.ErrAlreadyActed; an unknown poll fails with
	// domain.ErrPollNotFound.
	SaveVote(ctx context.Context, vote *domain.Vote) error
	// GetByUserAndPoll returns nil, nil when the user has not acted on the poll.
	GetByUserAndPoll(ctx context.Context, userID, pollID uuid.UUID) (*domain.Vote, error)
	CountVotesSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	// ActedPollIDs returns the subset of pollIDs the user voted or skipped on.
	ActedPollIDs(ctx context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]struct{}, error)
	// CountByOption counts non-skip votes of a poll grouped by option index.
	CountByOption(ctx context.Context, pollID uuid.UUID) (map[int]int64, error)
}

type VoteLedger interface {
	RecordVote(ctx context.Context, userID, pollID uuid.UUID, optionIndex int) (*domain.Vote, error)
	RecordSkip(ctx context.Context, userID, pollID uuid.UUID) (*domain.Vote, error)
}

type VoteInput struct {
	PollID      string
	UserID      string
	OptionIndex int
}

type SkipInput struct {
	PollID string
	UserID string
}

type VoteService interface {
	Vote(ctx context.Context, input VoteInput) (*domain.Vote, error)
	Skip(ctx context.Context, input SkipInput) (*domain.Vote, error)
	GetUserVote(ctx context.Context, pollID, userID string) (*domain.Vote, error)
}
