// Package ratelimit bounds outbound Riot API traffic and observes the quota
// the upstream reports back.
//
// Gate is the only component that changes behavior: it caps concurrent
// requests and spaces them out. Tracker is purely observational; it parses
// the X-App-Rate-Limit and X-Method-Rate-Limit headers for logs and metrics
// and never retries or backs off.
package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Riot rate limit headers.
const (
	HeaderAppLimit      = "X-App-Rate-Limit"
	HeaderAppCount      = "X-App-Rate-Limit-Count"
	HeaderMethodLimit   = "X-Method-Rate-Limit"
	HeaderMethodCount   = "X-Method-Rate-Limit-Count"
	HeaderRetryAfter    = "Retry-After"
	HeaderLimitType     = "X-Rate-Limit-Type"
	defaultRetryAfter   = 1 * time.Second
	bucketPairSeparator = ","
)

// WarnRatio is the bucket usage at which Tracker starts warning.
const WarnRatio = 0.8

// Bucket is one rate limit window as reported by the upstream,
// e.g. "20:1" (20 requests per second) with count "7:1".
type Bucket struct {
	Limit  int           `json:"limit"`
	Count  int           `json:"count"`
	Window time.Duration `json:"window"`
}

// UsedRatio returns Count/Limit, 0 for an unbounded bucket.
func (b Bucket) UsedRatio() float64 {
	if b.Limit <= 0 {
		return 0
	}
	return float64(b.Count) / float64(b.Limit)
}

// QuotaState is the last quota snapshot seen on a response.
type QuotaState struct {
	App    []Bucket `json:"app"`
	Method []Bucket `json:"method"`

	// LimitType is set on 429 ("application", "method" or "service")
	LimitType string `json:"limit_type,omitempty"`

	// RetryAfter is only meaningful after a 429
	RetryAfter time.Duration `json:"retry_after"`

	LastStatus int       `json:"last_status"`
	LastUpdate time.Time `json:"last_update"`
}

// IsStale returns true if the state is older than maxAge.
func (s *QuotaState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// UsedRatio returns the highest usage across all app and method buckets.
func (s *QuotaState) UsedRatio() float64 {
	var max float64
	for _, group := range [][]Bucket{s.App, s.Method} {
		for _, b := range group {
			if r := b.UsedRatio(); r > max {
				max = r
			}
		}
	}
	return max
}

// NearLimit returns true once any bucket reaches WarnRatio.
func (s *QuotaState) NearLimit() bool {
	return s.UsedRatio() >= WarnRatio
}

// ParseBuckets combines a limit header ("20:1,100:120") with its count
// header ("3:1,40:120"). Missing count entries read as zero.
func ParseBuckets(limits, counts string) ([]Bucket, error) {
	if strings.TrimSpace(limits) == "" {
		return nil, nil
	}

	countByWindow := make(map[int]int)
	if strings.TrimSpace(counts) != "" {
		for _, pair := range strings.Split(counts, bucketPairSeparator) {
			n, window, err := parsePair(pair)
			if err != nil {
				return nil, fmt.Errorf("parse count %q: %w", pair, err)
			}
			countByWindow[window] = n
		}
	}

	var buckets []Bucket
	for _, pair := range strings.Split(limits, bucketPairSeparator) {
		limit, window, err := parsePair(pair)
		if err != nil {
			return nil, fmt.Errorf("parse limit %q: %w", pair, err)
		}
		buckets = append(buckets, Bucket{
			Limit:  limit,
			Count:  countByWindow[window],
			Window: time.Duration(window) * time.Second,
		})
	}
	return buckets, nil
}

func parsePair(pair string) (int, int, error) {
	value, window, ok := strings.Cut(strings.TrimSpace(pair), ":")
	if !ok {
		return 0, 0, fmt.Errorf("missing ':'")
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, 0, err
	}
	w, err := strconv.Atoi(window)
	if err != nil {
		return 0, 0, err
	}
	return n, w, nil
}

// parseRetryAfter reads a Retry-After value in seconds.
func parseRetryAfter(s string) time.Duration {
	if s == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || secs < 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}
