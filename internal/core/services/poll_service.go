package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type pollService struct {
	repo ports.PollRepository
}

func NewPollService(repo ports.PollRepository) ports.PollService {
	return &pollService{
		repo: repo,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.Fail(domain.ReasonEmptyTitle, domain.ErrEmptyTitle)
	}

	var options []string
	for _, opt := range input.Options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		options = append(options, opt)
	}
	if len(options) < 2 {
		return nil, domain.Fail(domain.ReasonTooFewOptions, domain.ErrTooFewOptions)
	}

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, domain.Fail(domain.ReasonInvalidTagsFormat, err)
	}

	poll := &domain.Poll{
		ID:        uuid.New(),
		Title:     title,
		Options:   options,
		Tags:      dedupe(tags),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, domain.Fail(domain.ReasonUnknownError, err)
	}

	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	pollID, err := parseID(id, domain.ErrInvalidPollID)
	if err != nil {
		return nil, err
	}

	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		if errors.Is(err, domain.ErrPollNotFound) {
			return nil, domain.Fail(domain.ReasonNotFound, err)
		}
		return nil, domain.Fail(domain.ReasonUnknownError, err)
	}
	return poll, nil
}

// parseID parses a UUID, reporting malformed input as an InvalidID failure
// wrapping sentinel.
func parseID(raw string, sentinel error) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, domain.Fail(domain.ReasonInvalidID, sentinel)
	}
	return id, nil
}

// normalizeTags trims every tag and rejects blank ones.
func normalizeTags(tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return nil, domain.ErrInvalidTag
		}
		out = append(out, tag)
	}
	return out, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
