// Package client retrieves Riot account, league and match data through a
// shared cache-aside core, a rate gate and an executor strategy.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/riot-match-client/pkg/cache"
	"github.com/Sternrassler/riot-match-client/pkg/pagination"
	"github.com/Sternrassler/riot-match-client/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// HeaderToken carries the static API token on every request.
const HeaderToken = "X-Riot-Token"

// Default upstream hosts.
const (
	DefaultRegionalBaseURL = "https://asia.api.riotgames.com"
	DefaultPlatformBaseURL = "https://kr.api.riotgames.com"
)

// DefaultRequestTimeout is the per-request deadline. There is no
// batch-wide deadline.
const DefaultRequestTimeout = 10 * time.Second

// Prometheus metrics for Riot API requests.
var (
	riotRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riot_requests_total",
		Help: "Total Riot API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	riotRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "riot_request_duration_seconds",
		Help:    "Riot API request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	riotErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riot_errors_total",
		Help: "Total Riot API errors by class",
	}, []string{"class"})
)

// Client is the Riot retrieval client. The sync and concurrent variants
// are the same Client with a different executor.
type Client struct {
	httpClient *http.Client
	cache      *cache.Store
	gate       *ratelimit.Gate
	quota      *ratelimit.Tracker
	exec       pagination.Executor
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Token is sent as X-Riot-Token (REQUIRED)
	Token string

	// RegionalBaseURL serves account-v1 and match-v5
	RegionalBaseURL string

	// PlatformBaseURL serves league-v4, summoner-v4 and spectator-v5
	PlatformBaseURL string

	// Cache is the shared store; nil runs without cache
	Cache *cache.Store

	// Gate bounds in-flight requests and spaces them out
	Gate ratelimit.GateConfig

	// Executor fans out pages and batches; nil means Concurrent
	Executor pagination.Executor

	// RequestTimeout bounds each upstream request
	RequestTimeout time.Duration

	// HTTPClient overrides the transport (tests)
	HTTPClient *http.Client

	// Logger defaults to the global logger with component=riot-client
	Logger *zerolog.Logger
}

// DefaultConfig returns a configuration for the default hosts.
func DefaultConfig(store *cache.Store, token string) Config {
	return Config{
		Token:           token,
		RegionalBaseURL: DefaultRegionalBaseURL,
		PlatformBaseURL: DefaultPlatformBaseURL,
		Cache:           store,
		Gate:            ratelimit.DefaultGateConfig(),
		Executor:        pagination.Concurrent{},
		RequestTimeout:  DefaultRequestTimeout,
	}
}

// New creates a new Riot client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrMissingToken
	}

	hosts := []struct{ name, raw string }{
		{"regional", cfg.RegionalBaseURL},
		{"platform", cfg.PlatformBaseURL},
	}
	for _, h := range hosts {
		name, raw := h.name, h.raw
		if raw == "" {
			return nil, fmt.Errorf("%s: %w", name, ErrMissingBaseURL)
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid %s base url %q", name, raw)
		}
	}
	cfg.RegionalBaseURL = strings.TrimRight(cfg.RegionalBaseURL, "/")
	cfg.PlatformBaseURL = strings.TrimRight(cfg.PlatformBaseURL, "/")

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Executor == nil {
		cfg.Executor = pagination.Concurrent{}
	}

	var logger zerolog.Logger
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "riot-client").Logger()
	} else {
		logger = log.With().Str("component", "riot-client").Logger()
	}

	store := cfg.Cache
	if store == nil {
		store = cache.NewStore(nil, logger)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	logger.Info().
		Str("regional", cfg.RegionalBaseURL).
		Str("platform", cfg.PlatformBaseURL).
		Str("executor", cfg.Executor.Name()).
		Bool("cache", store.Available()).
		Msg("Riot client initialized")

	return &Client{
		httpClient: httpClient,
		cache:      store,
		gate:       ratelimit.NewGate(cfg.Gate),
		quota:      ratelimit.NewTracker(logger),
		exec:       cfg.Executor,
		config:     cfg,
		logger:     logger,
	}, nil
}

// get performs one upstream GET under a gate permit and decodes a 200
// body into dst.
func (c *Client) get(ctx context.Context, endpoint, rawURL string, dst any) error {
	return c.gate.Do(ctx, func(ctx context.Context) error {
		return c.do(ctx, endpoint, rawURL, dst)
	})
}

func (c *Client) do(ctx context.Context, endpoint, rawURL string, dst any) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	startTime := time.Now()
	defer func() {
		riotRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &UpstreamError{Kind: FailureUpstreamUnavailable, Class: ErrorClassNetwork, Endpoint: endpoint, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set(HeaderToken, c.config.Token)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("endpoint", endpoint).Str("url", rawURL).Msg("Executing Riot request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		riotErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		riotRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Riot request failed")
		return &UpstreamError{Kind: FailureUpstreamUnavailable, Class: ErrorClassNetwork, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	c.quota.Observe(resp.StatusCode, resp.Header)
	riotRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		class := ClassifyStatus(resp.StatusCode)
		riotErrorsTotal.WithLabelValues(string(class)).Inc()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

		event := c.logger.Warn()
		if class == ErrorClassNotFound {
			event = c.logger.Debug()
		}
		event.
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Riot request rejected")

		return &UpstreamError{Kind: FailureUpstreamRejected, Class: class, StatusCode: resp.StatusCode, Endpoint: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			riotErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			return &UpstreamError{Kind: FailureUpstreamUnavailable, Class: ErrorClassNetwork, StatusCode: resp.StatusCode, Endpoint: endpoint, Err: err}
		}
		riotErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Malformed Riot payload")
		return &UpstreamError{Kind: FailureMalformedPayload, Class: ErrorClassDecode, StatusCode: resp.StatusCode, Endpoint: endpoint, Err: err}
	}

	return nil
}

// regional builds a URL on the regional host from escaped path segments.
func (c *Client) regional(format string, args ...any) string {
	return c.config.RegionalBaseURL + escapedPath(format, args...)
}

// platform builds a URL on the platform host from escaped path segments.
func (c *Client) platform(format string, args ...any) string {
	return c.config.PlatformBaseURL + escapedPath(format, args...)
}

func escapedPath(format string, args ...any) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(fmt.Sprint(a))
	}
	return fmt.Sprintf(format, escaped...)
}

// cacheAside returns the cached value for key or fetches it and writes it
// through. Fetch errors are returned unchanged and nothing is cached.
func cacheAside[T any](ctx context.Context, c *Client, key cache.Key, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := cache.GetJSON[T](ctx, c.cache, key); ok {
		return v, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	cache.SetJSON(ctx, c.cache, key, v, ttl)
	return v, nil
}

// Cache returns the store the client reads and writes through.
func (c *Client) Cache() *cache.Store {
	return c.cache
}

// Gate returns the rate gate (for tests and readiness).
func (c *Client) Gate() *ratelimit.Gate {
	return c.gate
}

// Quota returns the last upstream quota observation.
func (c *Client) Quota() ratelimit.QuotaState {
	return c.quota.State()
}

// Mode names the executor strategy, "sequential" or "concurrent".
func (c *Client) Mode() string {
	return c.exec.Name()
}

// Close releases idle upstream connections. The cache store is owned by
// the caller and stays open.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
