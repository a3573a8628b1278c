package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/riot-match-client/internal/config"
	"github.com/Sternrassler/riot-match-client/internal/testutil"
	"github.com/Sternrassler/riot-match-client/pkg/cache"
	"github.com/Sternrassler/riot-match-client/pkg/client"
	"github.com/Sternrassler/riot-match-client/pkg/ratelimit"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx/fxtest"
)

func setupServer(t *testing.T, store *cache.Store) (*httptest.Server, *testutil.MockRiot) {
	t.Helper()

	mock := testutil.NewMockRiot()
	t.Cleanup(mock.Close)

	logger := zerolog.Nop()
	cfg := client.DefaultConfig(store, "RGAPI-test")
	cfg.RegionalBaseURL = mock.URL()
	cfg.PlatformBaseURL = mock.URL()
	cfg.Gate = ratelimit.GateConfig{Capacity: 10, Spacing: time.Millisecond}
	cfg.Logger = &logger

	riot, err := client.New(cfg)
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}

	srv := httptest.NewServer(NewServer(riot, riot.Cache(), logger).Handler([]string{"http://localhost:3000"}))
	t.Cleanup(srv.Close)
	return srv, mock
}

func miniStore(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return cache.NewStore(rdb, zerolog.Nop()), mr
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := setupServer(t, nil)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	srv, _ := setupServer(t, nil)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestReadyEndpoint(t *testing.T) {
	store, mr := miniStore(t)

	tests := []struct {
		name  string
		store *cache.Store
		prep  func()
		want  string
	}{
		{"disabled", nil, func() {}, "disabled"},
		{"connected", store, func() {}, "connected"},
		{"unreachable", store, mr.Close, "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := setupServer(t, tt.store)
			tt.prep()

			resp, err := http.Get(srv.URL + "/ready")
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Errorf("status = %d, ready must not depend on the cache", resp.StatusCode)
			}
			var body readyResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Cache != tt.want || body.Mode != "concurrent" {
				t.Errorf("ready = %+v, want cache=%s", body, tt.want)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := setupServer(t, nil)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "riot_cache_disabled") {
		t.Error("metrics missing riot_cache_disabled")
	}
}

func TestPlayerEndpoint(t *testing.T) {
	store, _ := miniStore(t)
	srv, mock := setupServer(t, store)

	mock.SetJSON("/riot/account/v1/accounts/by-riot-id/Hide on bush/KR1", client.Account{PUUID: "p1"})
	mock.SetResponse("/lol/league/v4/entries/by-puuid/p1", testutil.NewHealthyResponse(
		`[{"queueType":"RANKED_SOLO_5x5","wins":3,"losses":2,"puuid":"p1"}]`))
	ids := []string{"KR_5", "KR_4", "KR_3", "KR_2", "KR_1"}
	mock.SetMatchIDs("p1", ids)
	for _, id := range ids {
		mock.SetResponse("/lol/match/v5/matches/"+id, testutil.NewHealthyResponse(
			`{"metadata":{"matchId":"`+id+`"},"info":{"queueId":420,"participants":[],"teams":[]}}`))
	}

	resp, err := http.Get(srv.URL + "/v1/players/Hide%20on%20bush/KR1?limit=3")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.PUUID != "p1" || len(body.MatchIDs) != 5 || len(body.Matches) != 3 {
		t.Fatalf("body = %+v", body)
	}
	for i, m := range body.Matches {
		if m.MatchID != ids[i] {
			t.Errorf("match %d = %s, want %s", i, m.MatchID, ids[i])
		}
	}
	if n := mock.PathCount("/lol/match/v5/matches/KR_2"); n != 0 {
		t.Errorf("match past limit requested %d times", n)
	}
}

func TestPlayerEndpoint_Errors(t *testing.T) {
	srv, _ := setupServer(t, nil)

	tests := []struct {
		path   string
		status int
	}{
		{"/v1/players/nobody/KR1", http.StatusNotFound},
		{"/v1/players/a/b?limit=abc", http.StatusBadRequest},
		{"/v1/players/a/b?limit=1000", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	srv, _ := setupServer(t, nil)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestNewRiotClient_SyncMode(t *testing.T) {
	store := cache.NewStore(nil, zerolog.Nop())
	cfg := &config.Config{
		APIKey:          "RGAPI-test",
		RegionalBaseURL: client.DefaultRegionalBaseURL,
		PlatformBaseURL: client.DefaultPlatformBaseURL,
		ClientMode:      config.ModeSync,
	}

	lc := fxtest.NewLifecycle(t)
	riot, err := newRiotClient(lc, cfg, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("newRiotClient() error = %v", err)
	}
	if riot.Mode() != "sequential" {
		t.Errorf("Mode() = %q, want sequential", riot.Mode())
	}
	lc.RequireStart().RequireStop()
}
