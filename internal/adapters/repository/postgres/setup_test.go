package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
)

// setupDB starts a throwaway postgres, applies the schema and returns an open
// handle. The container is terminated when the test ends.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, CreateSchema(ctx, db))
	return db
}

// seedPolls inserts n polls one second apart, oldest first, and returns them
// newest first.
func seedPolls(t *testing.T, repo *pollRepository, n int, tags func(i int) []string) []*domain.Poll {
	t.Helper()

	base := time.Now().UTC().Add(-time.Duration(n) * time.Second).Truncate(time.Microsecond)
	polls := make([]*domain.Poll, n)
	for i := 0; i < n; i++ {
		p := &domain.Poll{
			ID:        uuid.New(),
			Title:     fmt.Sprintf("Poll %d", i),
			Options:   []string{"Yes", "No"},
			Tags:      []string{},
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if tags != nil {
			p.Tags = tags(i)
		}
		require.NoError(t, repo.Save(context.Background(), p))
		polls[n-1-i] = p
	}
	return polls
}

func pollIDs(polls []*domain.Poll) []uuid.UUID {
	ids := make([]uuid.UUID, len(polls))
	for i, p := range polls {
		ids[i] = p.ID
	}
	return ids
}
