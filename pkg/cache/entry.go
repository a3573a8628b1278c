package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Entry is a stored value together with its expiry.
type Entry struct {
	// Key is the full cache key string
	Key string

	// Value is the serialized (JSON) payload
	Value string

	// Expires is when the backend drops the entry
	Expires time.Time
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return !time.Now().Before(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// Lookup returns the value and remaining lifetime of key in one round trip.
// Keys without an expiry are reported as absent: every write goes through
// Set with a positive TTL, so such a key was not written by this layer.
func (s *Store) Lookup(ctx context.Context, key Key) (*Entry, bool) {
	if !s.Available() {
		return nil, false
	}

	cacheKey := key.String()
	pipe := s.redis.Pipeline()
	getCmd := pipe.Get(ctx, cacheKey)
	ttlCmd := pipe.PTTL(ctx, cacheKey)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		CacheErrors.WithLabelValues("get").Inc()
		s.logger.Warn().Err(err).Str("key", cacheKey).Msg("Cache lookup error")
		return nil, false
	}

	val, err := getCmd.Result()
	if err != nil {
		return nil, false
	}
	ttl := ttlCmd.Val()
	if ttl <= 0 {
		return nil, false
	}

	return &Entry{
		Key:     cacheKey,
		Value:   val,
		Expires: time.Now().Add(ttl),
	}, true
}
