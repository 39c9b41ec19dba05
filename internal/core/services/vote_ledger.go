package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

const DefaultDailyVoteQuota = 100

type voteLedger struct {
	repo  ports.VoteRepository
	quota int
	now   func() time.Time
}

// NewVoteLedger records at most one vote or skip per (user, poll) and caps
// non-skip votes per user per local day at quota.
func NewVoteLedger(repo ports.VoteRepository, quota int) ports.VoteLedger {
	if quota <= 0 {
		quota = DefaultDailyVoteQuota
	}
	return &voteLedger{
		repo:  repo,
		quota: quota,
		now:   time.Now,
	}
}

func (l *voteLedger) RecordVote(ctx context.Context, userID, pollID uuid.UUID, optionIndex int) (*domain.Vote, error) {
	if optionIndex < 0 {
		return nil, domain.ErrInvalidOption
	}
	return l.record(ctx, userID, pollID, &optionIndex)
}

func (l *voteLedger) RecordSkip(ctx context.Context, userID, pollID uuid.UUID) (*domain.Vote, error) {
	return l.record(ctx, userID, pollID, nil)
}

// record is check-then-write. The checks keep the common path cheap; the
// store's unique (user_id, poll_id) constraint settles races and surfaces
// as domain.ErrAlreadyActed from SaveVote.
func (l *voteLedger) record(ctx context.Context, userID, pollID uuid.UUID, optionIndex *int) (*domain.Vote, error) {
	existing, err := l.repo.GetByUserAndPoll(ctx, userID, pollID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyActed
	}

	now := l.now()
	voted, err := l.repo.CountVotesSince(ctx, userID, startOfDay(now))
	if err != nil {
		return nil, fmt.Errorf("failed to count daily votes: %w", err)
	}
	if voted >= l.quota {
		return nil, domain.ErrDailyLimitExceeded
	}

	vote := &domain.Vote{
		ID:          uuid.New(),
		UserID:      userID,
		PollID:      pollID,
		OptionIndex: optionIndex,
		IsSkip:      optionIndex == nil,
		CreatedAt:   now,
	}
	if err := l.repo.SaveVote(ctx, vote); err != nil {
		return nil, err
	}
	return vote, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
