package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for upstream quota tracking.
var (
	riotQuotaUsedRatio = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "riot_rate_limit_used_ratio",
		Help: "Highest used/limit ratio across reported Riot rate limit buckets",
	})

	riotRateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riot_rate_limited_total",
		Help: "Total number of 429 responses by limit type",
	}, []string{"limit_type"})
)

// Tracker records the quota the upstream reports on each response.
type Tracker struct {
	mu     sync.RWMutex
	state  QuotaState
	logger zerolog.Logger
}

// NewTracker creates a new quota tracker.
func NewTracker(logger zerolog.Logger) *Tracker {
	return &Tracker{logger: logger}
}

// State returns a copy of the last observed quota.
func (t *Tracker) State() QuotaState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := t.state
	s.App = append([]Bucket(nil), t.state.App...)
	s.Method = append([]Bucket(nil), t.state.Method...)
	return s
}

// Observe parses the rate limit headers of a response. Malformed headers
// are logged and leave the previous bucket snapshot in place.
func (t *Tracker) Observe(status int, headers http.Header) {
	app, appErr := ParseBuckets(headers.Get(HeaderAppLimit), headers.Get(HeaderAppCount))
	method, methodErr := ParseBuckets(headers.Get(HeaderMethodLimit), headers.Get(HeaderMethodCount))

	t.mu.Lock()
	if appErr == nil && app != nil {
		t.state.App = app
	}
	if methodErr == nil && method != nil {
		t.state.Method = method
	}
	t.state.LastStatus = status
	t.state.LastUpdate = time.Now()
	t.state.LimitType = ""
	t.state.RetryAfter = 0
	if status == http.StatusTooManyRequests {
		t.state.LimitType = headers.Get(HeaderLimitType)
		t.state.RetryAfter = parseRetryAfter(headers.Get(HeaderRetryAfter))
	}
	state := t.state
	t.mu.Unlock()

	if appErr != nil || methodErr != nil {
		t.logger.Warn().
			AnErr("app_err", appErr).
			AnErr("method_err", methodErr).
			Msg("Malformed Riot rate limit headers")
	}

	ratio := state.UsedRatio()
	riotQuotaUsedRatio.Set(ratio)

	switch {
	case status == http.StatusTooManyRequests:
		limitType := state.LimitType
		if limitType == "" {
			limitType = "unknown"
		}
		riotRateLimitedTotal.WithLabelValues(limitType).Inc()
		t.logger.Warn().
			Str("limit_type", limitType).
			Dur("retry_after", state.RetryAfter).
			Msg("Riot rate limit exceeded - request dropped")
	case state.NearLimit():
		t.logger.Warn().
			Float64("used_ratio", ratio).
			Msg("Riot rate limit nearly exhausted")
	default:
		t.logger.Debug().
			Float64("used_ratio", ratio).
			Msg("Riot rate limit state updated")
	}
}
