package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
)

type Config struct {
	Port int

	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DatabaseURL string

	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SnapshotSize     int
	SnapshotTTL      time.Duration
	FeedDefaultLimit int
	FeedMaxLimit     int
	DailyVoteQuota   int

	JWTSecret string
	LogLevel  string
	LogFile   string
}

// Load parses args into a Config. Every flag defaults to its environment
// variable, so flags override the environment which overrides built-ins.
func Load(name string, args []string) (Config, error) {
	var cfg Config
	env := envReader{}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "port", env.int("PORT", 8080), "HTTP port")

	fs.StringVar(&cfg.DBHost, "db-host", env.string("POSTGRES_HOST", "localhost"), "Database host")
	fs.StringVar(&cfg.DBPort, "db-port", env.string("POSTGRES_PORT", "5432"), "Database port")
	fs.StringVar(&cfg.DBUser, "db-user", env.string("POSTGRES_USER", ""), "Database user")
	fs.StringVar(&cfg.DBPassword, "db-pass", env.string("POSTGRES_PASSWORD", ""), "Database password")
	fs.StringVar(&cfg.DBName, "db-name", env.string("POSTGRES_DB", ""), "Database name")
	fs.StringVar(&cfg.DatabaseURL, "db-url", env.string("DATABASE_URL", ""), "Database URL, overrides the db-* parts")

	fs.StringVar(&cfg.CacheBackend, "cache", env.string("CACHE_BACKEND", CacheRedis), "Feed snapshot backend (redis or memory)")
	redisAddr := net.JoinHostPort(env.string("REDIS_HOST", "localhost"), env.string("REDIS_PORT", "6379"))
	fs.StringVar(&cfg.RedisAddr, "redis-addr", redisAddr, "Redis address")
	fs.StringVar(&cfg.RedisPassword, "redis-pass", env.string("REDIS_PASSWORD", ""), "Redis password")
	fs.IntVar(&cfg.RedisDB, "redis-db", env.int("REDIS_DB", 0), "Redis database")

	fs.IntVar(&cfg.SnapshotSize, "snapshot-size", env.int("FEED_SNAPSHOT_SIZE", 300), "Polls kept in the feed snapshot")
	fs.DurationVar(&cfg.SnapshotTTL, "snapshot-ttl", env.duration("FEED_SNAPSHOT_TTL", 300*time.Second), "Feed snapshot lifetime")
	fs.IntVar(&cfg.FeedDefaultLimit, "feed-default-limit", env.int("FEED_DEFAULT_LIMIT", 10), "Default feed page size")
	fs.IntVar(&cfg.FeedMaxLimit, "feed-max-limit", env.int("FEED_MAX_LIMIT", 50), "Maximum feed page size")
	fs.IntVar(&cfg.DailyVoteQuota, "daily-vote-quota", env.int("DAILY_VOTE_QUOTA", 100), "Votes allowed per user per day")

	// Secrets (prefer env, allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", env.string("JWT_SECRET", ""), "HS256 secret for access tokens (prefer env)")
	fs.StringVar(&cfg.LogLevel, "log-level", env.string("LOG_LEVEL", "info"), "Log level")
	fs.StringVar(&cfg.LogFile, "log-file", env.string("LOG_FILE", "app.log"), "Rotated log file, empty disables it")

	if err := env.err(); err != nil {
		return Config{}, err
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = cfg.postgresURL()
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) postgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c Config) validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}
	if c.CacheBackend != CacheRedis && c.CacheBackend != CacheMemory {
		errs = append(errs, fmt.Errorf("unknown cache backend %q (use %s or %s)", c.CacheBackend, CacheRedis, CacheMemory))
	}
	if c.SnapshotSize <= 0 {
		errs = append(errs, errors.New("snapshot size must be positive"))
	}
	if c.SnapshotTTL <= 0 {
		errs = append(errs, errors.New("snapshot ttl must be positive"))
	}
	if c.FeedDefaultLimit < 1 {
		errs = append(errs, errors.New("feed default limit must be at least 1"))
	}
	if c.FeedMaxLimit < c.FeedDefaultLimit {
		errs = append(errs, errors.New("feed max limit must not be below the default limit"))
	}
	if c.DailyVoteQuota <= 0 {
		errs = append(errs, errors.New("daily vote quota must be positive"))
	}
	return errors.Join(errs...)
}

// envReader reads typed environment values, remembering parse failures so
// they can be reported once.
type envReader struct {
	errs []error
}

func (r *envReader) string(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (r *envReader) int(key string, def int) int {
	v := r.string(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s env variable: %w", key, err))
		return def
	}
	return n
}

// duration accepts Go durations ("5m") or plain seconds ("300").
func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := r.string(key, "")
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s env variable: %w", key, err))
		return def
	}
	return d
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}
