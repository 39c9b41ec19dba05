package services

import (
	"context"
	"errors"
	"sort"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type statsService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
}

func NewStatsService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository) ports.StatsService {
	return &statsService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
	}
}

func (s *statsService) GetStats(ctx context.Context, pollID string) (*domain.PollStats, error) {
	id, err := parseID(pollID, domain.ErrInvalidPollID)
	if err != nil {
		return nil, err
	}

	poll, err := s.pollRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPollNotFound) {
			return nil, domain.Fail(domain.ReasonNotFound, err)
		}
		return nil, domain.Fail(domain.ReasonUnknownError, err)
	}

	counts, err := s.voteRepo.CountByOption(ctx, poll.ID)
	if err != nil {
		return nil, domain.Fail(domain.ReasonUnknownError, err)
	}

	return tally(poll, counts), nil
}

// tally lists every option of the poll in position order with its count.
// Counted indices that fall outside the options sequence follow, ascending.
func tally(poll *domain.Poll, counts map[int]int64) *domain.PollStats {
	stats := &domain.PollStats{
		PollID: poll.ID,
		Votes:  make([]domain.OptionCount, 0, len(poll.Options)),
	}
	for i, label := range poll.Options {
		stats.Votes = append(stats.Votes, domain.OptionCount{Option: label, Count: counts[i]})
	}

	var stray []int
	for idx := range counts {
		if idx < 0 || idx >= len(poll.Options) {
			stray = append(stray, idx)
		}
	}
	sort.Ints(stray)
	for _, idx := range stray {
		stats.Votes = append(stats.Votes, domain.OptionCount{Option: poll.OptionLabel(idx), Count: counts[idx]})
	}
	return stats
}
