package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

const (
	DefaultFeedLimit = 10
	MaxFeedLimit     = 50
)

type FeedConfig struct {
	DefaultLimit int
	MaxLimit     int
}

type feedService struct {
	polls ports.PollRepository
	votes ports.VoteRepository
	cache ports.FeedCache
	cfg   FeedConfig
}

func NewFeedService(polls ports.PollRepository, votes ports.VoteRepository, cache ports.FeedCache, cfg FeedConfig) ports.FeedService {
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = MaxFeedLimit
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultFeedLimit
	}
	cfg.DefaultLimit = min(cfg.DefaultLimit, cfg.MaxLimit)
	return &feedService{
		polls: polls,
		votes: votes,
		cache: cache,
		cfg:   cfg,
	}
}

func (s *feedService) GetFeed(ctx context.Context, input ports.FeedInput) (*domain.FeedPage, error) {
	limit := s.clampLimit(input.Limit)
	offset := max(input.Offset, 0)

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, domain.Fail(domain.ReasonInvalidTagFilter, err)
	}

	query := ports.FeedQuery{
		Tags:   tags,
		Limit:  limit + 1,
		Offset: offset,
	}
	if input.UserID != "" {
		userID, err := parseID(input.UserID, domain.ErrInvalidUserID)
		if err != nil {
			return nil, err
		}
		query.ExcludeVotedBy = &userID
	}

	polls, err := s.fetch(ctx, query)
	if err != nil {
		return nil, domain.Fail(domain.ReasonUnknownError, err)
	}

	page := &domain.FeedPage{
		Polls:   polls,
		HasMore: len(polls) > limit,
	}
	if page.HasMore {
		page.Polls = polls[:limit]
	}
	if page.Polls == nil {
		page.Polls = []*domain.Poll{}
	}

	if input.WithTotal {
		total, err := s.polls.CountFeed(ctx, ports.FeedQuery{Tags: tags, ExcludeVotedBy: query.ExcludeVotedBy})
		if err != nil {
			return nil, domain.Fail(domain.ReasonUnknownError, err)
		}
		page.TotalCount = &total
	}

	return page, nil
}

func (s *feedService) clampLimit(limit int) int {
	switch {
	case limit == 0:
		return s.cfg.DefaultLimit
	case limit < 1:
		return 1
	case limit > s.cfg.MaxLimit:
		return s.cfg.MaxLimit
	}
	return limit
}

// fetch returns up to query.Limit polls starting at query.Offset, with the
// user's acted-on polls removed before slicing.
func (s *feedService) fetch(ctx context.Context, query ports.FeedQuery) ([]*domain.Poll, error) {
	if query.Offset >= s.cache.Size() {
		return s.polls.ListFeed(ctx, query)
	}

	snapshot := s.cache.Read(ctx, query.Tags)
	if snapshot == nil {
		if err := s.cache.Refresh(ctx); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("feed snapshot refresh failed, reading from store")
		}
		snapshot = s.cache.Read(ctx, query.Tags)
	}
	if snapshot == nil {
		return s.polls.ListFeed(ctx, query)
	}

	window := snapshot.Polls
	if query.ExcludeVotedBy != nil {
		var err error
		window, err = s.excludeActed(ctx, *query.ExcludeVotedBy, window)
		if err != nil {
			return nil, err
		}
	}

	end := query.Offset + query.Limit
	if end > len(window) && snapshot.Truncated {
		return s.polls.ListFeed(ctx, query)
	}
	if query.Offset >= len(window) {
		return nil, nil
	}
	return window[query.Offset:min(end, len(window))], nil
}

func (s *feedService) excludeActed(ctx context.Context, userID uuid.UUID, polls []*domain.Poll) ([]*domain.Poll, error) {
	if len(polls) == 0 {
		return polls, nil
	}
	ids := make([]uuid.UUID, len(polls))
	for i, p := range polls {
		ids[i] = p.ID
	}

	acted, err := s.votes.ActedPollIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	if len(acted) == 0 {
		return polls, nil
	}

	out := make([]*domain.Poll, 0, len(polls)-len(acted))
	for _, p := range polls {
		if _, ok := acted[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out, nil
}
