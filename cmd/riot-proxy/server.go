package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Sternrassler/riot-match-client/pkg/cache"
	"github.com/Sternrassler/riot-match-client/pkg/client"
	"github.com/Sternrassler/riot-match-client/pkg/metrics"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// maxDetails caps the limit query parameter of the player route.
const maxDetails = 100

type contextKey string

// RequestIDKey holds the request id in the request context.
const RequestIDKey contextKey = "request_id"

// Server exposes the Riot client over HTTP. It has no caching or
// concurrency logic of its own.
type Server struct {
	riot   *client.Client
	store  *cache.Store
	logger zerolog.Logger
}

// NewServer creates the HTTP surface for riot.
func NewServer(riot *client.Client, store *cache.Store, logger zerolog.Logger) *Server {
	return &Server{
		riot:   riot,
		store:  store,
		logger: logger.With().Str("component", "riot-proxy").Logger(),
	}
}

// Handler returns the routed handler wrapped in request id and CORS
// middleware.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /v1/players/{gameName}/{tagLine}", s.handlePlayer)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	return requestID(s.logger)(c.Handler(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type readyResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
	Mode   string `json:"mode"`
}

// handleReady always answers 200: the client serves from upstream when the
// cache is disabled or unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := readyResponse{Status: "ready", Cache: "connected", Mode: s.riot.Mode()}

	switch {
	case !s.store.Available():
		resp.Cache = "disabled"
	default:
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if !s.store.Ping(ctx) {
			resp.Cache = "unreachable"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type playerResponse struct {
	GameName string               `json:"gameName"`
	TagLine  string               `json:"tagLine"`
	PUUID    string               `json:"puuid"`
	League   []client.LeagueEntry `json:"league"`
	MatchIDs []string             `json:"matchIds"`
	Matches  []client.MatchDetail `json:"matches"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	gameName, tagLine := r.PathValue("gameName"), r.PathValue("tagLine")

	limit := client.DefaultBatchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxDetails {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be between 0 and 100"})
			return
		}
		limit = n
	}

	puuid, ok := s.riot.ResolveIdentity(ctx, gameName, tagLine)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "player not found"})
		return
	}

	league := s.riot.LeagueStanding(ctx, puuid)

	var ids []string
	if solo, ok := client.SoloQueueEntry(league); ok {
		ids = s.riot.AllMatchIDs(ctx, puuid, solo.Wins, solo.Losses)
	} else {
		ids = s.riot.RecentMatchIDs(ctx, puuid, client.DefaultBatchLimit)
	}

	resp := playerResponse{
		GameName: gameName,
		TagLine:  tagLine,
		PUUID:    puuid,
		League:   nonNil(league),
		MatchIDs: nonNil(ids),
		Matches:  nonNil(s.riot.MatchDetailsBatch(ctx, ids, limit)),
	}

	zerolog.Ctx(ctx).Debug().
		Str("puuid", puuid).
		Int("match_ids", len(resp.MatchIDs)).
		Int("matches", len(resp.Matches)).
		Msg("player assembled")

	writeJSON(w, http.StatusOK, resp)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requestID tags each request with an X-Request-ID and a request-scoped
// logger.
func requestID(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.New().String()
			}
			w.Header().Set("X-Request-ID", id)

			reqLogger := logger.With().Str("request_id", id).Logger()
			ctx := context.WithValue(r.Context(), RequestIDKey, id)
			ctx = reqLogger.WithContext(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))

			reqLogger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}
