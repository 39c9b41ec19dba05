// Package memory holds feed snapshots in process memory.
package memory

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

const defaultCapacity = 64

type entry struct {
	value     []byte
	expiresAt time.Time
}

type SnapshotStore struct {
	entries *lru.Cache[string, entry]
	now     func() time.Time
}

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore keeps at most capacity keys, evicting the least recently
// used. A capacity below one uses a small default.
func NewSnapshotStore(capacity int) (*SnapshotStore, error) {
	if capacity < 1 {
		capacity = defaultCapacity
	}
	entries, err := lru.New[string, entry](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &SnapshotStore{
		entries: entries,
		now:     time.Now,
	}, nil
}

func (s *SnapshotStore) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := s.entries.Get(key)
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.entries.Remove(key)
		return nil, ports.ErrCacheMiss
	}
	return e.value, nil
}

// Set stores value under key. A ttl of zero never expires.
func (s *SnapshotStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries.Add(key, e)
	return nil
}

func (s *SnapshotStore) Delete(_ context.Context, key string) error {
	s.entries.Remove(key)
	return nil
}
