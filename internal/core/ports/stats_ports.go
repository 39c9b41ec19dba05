package ports

import (
	"context"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
)

type StatsService interface {
	GetStats(ctx context.Context, pollID string) (*domain.PollStats, error)
}
