package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

const (
	DefaultSnapshotSize = 300
	DefaultSnapshotTTL  = 300 * time.Second
)

type feedCache struct {
	store ports.SnapshotStore
	polls ports.PollRepository
	size  int
	ttl   time.Duration
	key   string
	group singleflight.Group
}

// NewFeedCache keeps the size most recent polls in store under a single key,
// expiring after ttl.
func NewFeedCache(store ports.SnapshotStore, polls ports.PollRepository, size int, ttl time.Duration) ports.FeedCache {
	if size <= 0 {
		size = DefaultSnapshotSize
	}
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &feedCache{
		store: store,
		polls: polls,
		size:  size,
		ttl:   ttl,
		key:   fmt.Sprintf("polls:recent:%d", size),
	}
}

func (c *feedCache) Size() int {
	return c.size
}

func (c *feedCache) Read(ctx context.Context, tags []string) *domain.FeedSnapshot {
	data, err := c.store.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			log.Ctx(ctx).Warn().Err(err).Str("key", c.key).Msg("feed snapshot read failed")
		}
		return nil
	}

	var polls []*domain.Poll
	if err := json.Unmarshal(data, &polls); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", c.key).Msg("discarding undecodable feed snapshot")
		if err := c.store.Delete(ctx, c.key); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", c.key).Msg("feed snapshot delete failed")
		}
		return nil
	}

	snapshot := &domain.FeedSnapshot{Truncated: len(polls) >= c.size}
	if len(tags) == 0 {
		snapshot.Polls = polls
		return snapshot
	}
	snapshot.Polls = make([]*domain.Poll, 0, len(polls))
	for _, p := range polls {
		if p.HasAnyTag(tags) {
			snapshot.Polls = append(snapshot.Polls, p)
		}
	}
	return snapshot
}

// Refresh rebuilds the snapshot from the store. Concurrent callers share a
// single rebuild. On error the previous snapshot, if any, is left in place.
func (c *feedCache) Refresh(ctx context.Context) error {
	_, err, _ := c.group.Do(c.key, func() (any, error) {
		polls, err := c.polls.ListRecent(ctx, c.size)
		if err != nil {
			return nil, fmt.Errorf("failed to load recent polls: %w", err)
		}
		if polls == nil {
			polls = []*domain.Poll{}
		}

		data, err := json.Marshal(polls)
		if err != nil {
			return nil, fmt.Errorf("failed to encode feed snapshot: %w", err)
		}

		if err := c.store.Set(ctx, c.key, data, c.ttl); err != nil {
			return nil, fmt.Errorf("failed to store feed snapshot: %w", err)
		}

		log.Ctx(ctx).Debug().Int("polls", len(polls)).Dur("ttl", c.ttl).Msg("feed snapshot refreshed")
		return nil, nil
	})
	return err
}
