package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/pollfeed/internal/adapters/cache/memory"
	rediscache "github.com/vncsmyrnk/pollfeed/internal/adapters/cache/redis"
	"github.com/vncsmyrnk/pollfeed/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollfeed/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollfeed/internal/config"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
	"github.com/vncsmyrnk/pollfeed/internal/core/services"
	"github.com/vncsmyrnk/pollfeed/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found")
	}

	cfg, err := config.Load("server", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to reach database")
	}
	if err := postgres.CreateSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap schema")
	}

	store, closeStore, err := newSnapshotStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.CacheBackend).Msg("failed to set up feed cache")
	}
	defer closeStore()

	// Initialize Repositories
	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)

	// Initialize Services
	feedCache := services.NewFeedCache(store, pollRepo, cfg.SnapshotSize, cfg.SnapshotTTL)
	pollService := services.NewPollService(pollRepo)
	feedService := services.NewFeedService(pollRepo, voteRepo, feedCache, services.FeedConfig{
		DefaultLimit: cfg.FeedDefaultLimit,
		MaxLimit:     cfg.FeedMaxLimit,
	})
	ledger := services.NewVoteLedger(voteRepo, cfg.DailyVoteQuota)
	voteService := services.NewVoteService(pollRepo, voteRepo, ledger)
	statsService := services.NewStatsService(pollRepo, voteRepo)

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty, every request is anonymous")
	}

	pollHandler := http.NewPollHandler(pollService, feedService, statsService, cfg.FeedDefaultLimit)
	voteHandler := http.NewVoteHandler(voteService)
	handler := http.NewHandler(pollHandler, voteHandler, cfg.JWTSecret)

	server := &stdhttp.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("cache", cfg.CacheBackend).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

func newSnapshotStore(ctx context.Context, cfg config.Config) (ports.SnapshotStore, func(), error) {
	if cfg.CacheBackend == config.CacheMemory {
		store, err := memory.NewSnapshotStore(0)
		return store, func() {}, err
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
	}
	return rediscache.NewSnapshotStore(client), func() { client.Close() }, nil
}
