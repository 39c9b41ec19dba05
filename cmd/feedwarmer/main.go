// Command feedwarmer rebuilds the shared feed snapshot once and exits. Run it
// on a schedule shorter than the snapshot TTL to keep feed reads off the
// database.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	rediscache "github.com/vncsmyrnk/pollfeed/internal/adapters/cache/redis"
	"github.com/vncsmyrnk/pollfeed/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollfeed/internal/config"
	"github.com/vncsmyrnk/pollfeed/internal/core/services"
	"github.com/vncsmyrnk/pollfeed/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found")
	}

	cfg, err := config.Load("feedwarmer", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.CacheBackend != config.CacheRedis {
		log.Fatal().Str("backend", cfg.CacheBackend).Msg("feedwarmer only makes sense with a shared redis cache")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer client.Close()

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to reach database")
	}

	pollRepo := postgres.NewPollRepository(db)
	feedCache := services.NewFeedCache(rediscache.NewSnapshotStore(client), pollRepo, cfg.SnapshotSize, cfg.SnapshotTTL)

	log.Info().Int("size", feedCache.Size()).Msg("Starting feed snapshot refresh...")

	if err := feedCache.Refresh(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error refreshing feed snapshot")
	}

	log.Info().Msg("Feed snapshot refresh completed successfully.")
}
