package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultDialTimeout bounds the reachability check at construction.
const DefaultDialTimeout = 2 * time.Second

// ErrDisabled is reported by Close on a store without a backend.
var ErrDisabled = errors.New("cache disabled")

// Options holds Redis connection settings.
type Options struct {
	Host        string
	Port        int
	DB          int
	Password    string
	DialTimeout time.Duration
}

// DefaultOptions returns settings for a local Redis.
func DefaultOptions() Options {
	return Options{
		Host:        "localhost",
		Port:        6379,
		DialTimeout: DefaultDialTimeout,
	}
}

// Addr returns host:port.
func (o Options) Addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// Store is a namespaced key/value cache with per-entry TTL.
// A Store without a Redis client is disabled: Get always misses and Set
// always reports false, so callers fall through to the upstream.
type Store struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// Connect dials Redis and verifies it with PING. If the backend is
// unreachable the returned Store is disabled; the condition is logged once
// per process.
func Connect(ctx context.Context, opts Options, logger zerolog.Logger) *Store {
	return connect(ctx, opts, logger, &unavailableReported)
}

func connect(ctx context.Context, opts Options, logger zerolog.Logger, reported *onceFlag) *Store {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = DefaultDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr(),
		DB:          opts.DB,
		Password:    opts.Password,
		DialTimeout: opts.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if reported.first() {
			logger.Warn().
				Err(err).
				Str("addr", opts.Addr()).
				Msg("Redis unavailable - running without cache")
		}
		CacheDisabled.Set(1)
		return &Store{logger: logger}
	}

	logger.Info().Str("addr", opts.Addr()).Int("db", opts.DB).Msg("Connected to Redis")
	CacheDisabled.Set(0)
	return &Store{redis: client, logger: logger}
}

// NewStore wraps an existing Redis client without pinging it.
// A nil client yields a disabled store.
func NewStore(redisClient *redis.Client, logger zerolog.Logger) *Store {
	return newStore(redisClient, logger, &unavailableReported)
}

func newStore(redisClient *redis.Client, logger zerolog.Logger, reported *onceFlag) *Store {
	if redisClient == nil {
		if reported.first() {
			logger.Warn().Msg("No Redis client configured - running without cache")
		}
		CacheDisabled.Set(1)
	}
	return &Store{redis: redisClient, logger: logger}
}

// Available reports whether the store has a backend.
func (s *Store) Available() bool {
	return s != nil && s.redis != nil
}

// Ping checks the backend. A disabled store is never reachable.
func (s *Store) Ping(ctx context.Context) bool {
	if !s.Available() {
		return false
	}
	return s.redis.Ping(ctx).Err() == nil
}

// Get returns the stored text for key. Backend errors are logged and
// reported as a miss.
func (s *Store) Get(ctx context.Context, key Key) (string, bool) {
	if !s.Available() {
		return "", false
	}

	cacheKey := key.String()
	val, err := s.redis.Get(ctx, cacheKey).Result()
	if err != nil {
		CacheMisses.WithLabelValues(key.Namespace).Inc()
		if errors.Is(err, redis.Nil) {
			s.logger.Debug().Str("key", cacheKey).Msg("Cache miss")
			return "", false
		}
		CacheErrors.WithLabelValues("get").Inc()
		s.logger.Warn().Err(err).Str("key", cacheKey).Msg("Cache get error - treating as miss")
		return "", false
	}

	CacheHits.WithLabelValues(key.Namespace).Inc()
	s.logger.Debug().Str("key", cacheKey).Msg("Cache hit")
	return val, true
}

// Set stores value under key for ttl. It never fails loudly: the result
// only says whether the value is now cached.
func (s *Store) Set(ctx context.Context, key Key, value string, ttl time.Duration) bool {
	if !s.Available() || ttl <= 0 {
		return false
	}

	cacheKey := key.String()
	if err := s.redis.Set(ctx, cacheKey, value, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		s.logger.Warn().Err(err).Str("key", cacheKey).Msg("Cache set error")
		return false
	}

	s.logger.Debug().Str("key", cacheKey).Dur("ttl", ttl).Msg("Cached value")
	return true
}

// Close releases the backend connection.
func (s *Store) Close() error {
	if !s.Available() {
		return ErrDisabled
	}
	return s.redis.Close()
}

// GetJSON reads key and decodes it into T. Corrupt payloads are misses.
func GetJSON[T any](ctx context.Context, s *Store, key Key) (T, bool) {
	var v T
	raw, ok := s.Get(ctx, key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		var zero T
		CacheErrors.WithLabelValues("decode").Inc()
		s.logger.Warn().Err(err).Str("key", key.String()).Msg("Corrupt cache payload - treating as miss")
		return zero, false
	}
	return v, true
}

// SetJSON encodes value as JSON and stores it under key for ttl.
func SetJSON(ctx context.Context, s *Store, key Key, value any, ttl time.Duration) bool {
	if !s.Available() {
		return false
	}
	data, err := json.Marshal(value)
	if err != nil {
		CacheErrors.WithLabelValues("encode").Inc()
		s.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache encode error")
		return false
	}
	return s.Set(ctx, key, string(data), ttl)
}
