// Package redis keeps feed snapshots in Redis so every server instance
// shares one copy.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type SnapshotStore struct {
	client goredis.UniversalClient
}

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

func NewSnapshotStore(client goredis.UniversalClient) *SnapshotStore {
	return &SnapshotStore{client: client}
}

func (s *SnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ports.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

func (s *SnapshotStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *SnapshotStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
