package ports

import (
	"context"
	"errors"
	"time"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// SnapshotStore is the key-value backend holding serialized feed snapshots.
// Get returns ErrCacheMiss for absent or expired keys.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type FeedCache interface {
	// Read returns the current snapshot filtered by tags, or nil when no
	// valid snapshot exists.
	Read(ctx context.Context, tags []string) *domain.FeedSnapshot
	Refresh(ctx context.Context) error
	Size() int
}

type FeedInput struct {
	Tags      []string
	Limit     int
	Offset    int
	UserID    string
	WithTotal bool
}

type FeedService interface {
	GetFeed(ctx context.Context, input FeedInput) (*domain.FeedPage, error)
}
