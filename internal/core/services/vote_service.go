package services

import (
	"context"
	"errors"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	ledger   ports.VoteLedger
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, ledger ports.VoteLedger) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		ledger:   ledger,
	}
}

func (s *voteService) Vote(ctx context.Context, input ports.VoteInput) (*domain.Vote, error) {
	pollID, err := parseID(input.PollID, domain.ErrInvalidPollID)
	if err != nil {
		return nil, err
	}
	userID, err := parseID(input.UserID, domain.ErrInvalidUserID)
	if err != nil {
		return nil, err
	}

	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, ledgerFailure(err)
	}
	if input.OptionIndex < 0 || input.OptionIndex >= len(poll.Options) {
		return nil, domain.Fail(domain.ReasonInvalidOption, domain.ErrInvalidOption)
	}

	vote, err := s.ledger.RecordVote(ctx, userID, pollID, input.OptionIndex)
	if err != nil {
		return nil, ledgerFailure(err)
	}
	return vote, nil
}

func (s *voteService) Skip(ctx context.Context, input ports.SkipInput) (*domain.Vote, error) {
	pollID, err := parseID(input.PollID, domain.ErrInvalidPollID)
	if err != nil {
		return nil, err
	}
	userID, err := parseID(input.UserID, domain.ErrInvalidUserID)
	if err != nil {
		return nil, err
	}

	vote, err := s.ledger.RecordSkip(ctx, userID, pollID)
	if err != nil {
		return nil, ledgerFailure(err)
	}
	return vote, nil
}

func (s *voteService) GetUserVote(ctx context.Context, pollID, userID string) (*domain.Vote, error) {
	pid, err := parseID(pollID, domain.ErrInvalidPollID)
	if err != nil {
		return nil, err
	}
	uid, err := parseID(userID, domain.ErrInvalidUserID)
	if err != nil {
		return nil, err
	}

	vote, err := s.voteRepo.GetByUserAndPoll(ctx, uid, pid)
	if err != nil {
		return nil, domain.Fail(domain.ReasonUnknownError, err)
	}
	if vote == nil {
		return nil, domain.Fail(domain.ReasonNotFound, domain.ErrVoteNotFound)
	}
	return vote, nil
}

func ledgerFailure(err error) error {
	switch {
	case errors.Is(err, domain.ErrAlreadyActed):
		return domain.Fail(domain.ReasonAlreadyActed, err)
	case errors.Is(err, domain.ErrDailyLimitExceeded):
		return domain.Fail(domain.ReasonDailyLimitExceeded, err)
	case errors.Is(err, domain.ErrInvalidOption):
		return domain.Fail(domain.ReasonInvalidOption, err)
	case errors.Is(err, domain.ErrPollNotFound):
		return domain.Fail(domain.ReasonNotFound, err)
	}
	return domain.Fail(domain.ReasonUnknownError, err)
}
