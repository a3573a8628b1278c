// Package testutil provides testing utilities for the Riot client.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockRiotResponse defines the behavior for a mock Riot endpoint response.
type MockRiotResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockRiot is a configurable mock Riot API server for testing. Unknown
// paths answer 404 like the real API.
type MockRiot struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	requestCount int
	pathCounts   map[string]int
	lastToken    string
	inFlight     int
	peak         int
}

// NewMockRiot creates a new mock Riot server.
func NewMockRiot() *MockRiot {
	mock := &MockRiot{
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		pathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.pathCounts[r.URL.Path]++
		mock.lastToken = r.Header.Get("X-Riot-Token")
		mock.inFlight++
		if mock.inFlight > mock.peak {
			mock.peak = mock.inFlight
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		defer func() {
			mock.mu.Lock()
			mock.inFlight--
			mock.mu.Unlock()
		}()

		if exists {
			handler(w, r)
			return
		}
		writeResponse(w, NewNotFoundResponse())
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockRiot) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockRiot) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockRiot) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.pathCounts = make(map[string]int)
	m.lastToken = ""
	m.peak = m.inFlight
}

// SetHandler sets a custom handler for a specific path.
func (m *MockRiot) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockRiot) SetResponse(path string, resp MockRiotResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		writeResponse(w, resp)
	})
}

// SetJSON serves v as a 200 response on path.
func (m *MockRiot) SetJSON(path string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	m.SetResponse(path, NewHealthyResponse(string(data)))
}

// SetMatchIDs serves ids on the match-v5 by-puuid listing, honoring the
// start and count query parameters.
func (m *MockRiot) SetMatchIDs(puuid string, ids []string) {
	m.SetHandler("/lol/match/v5/matches/by-puuid/"+puuid+"/ids", MatchIDsHandler(ids, nil))
}

// RequestCount returns the number of requests made to the server.
func (m *MockRiot) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// PathCount returns the number of requests made to path.
func (m *MockRiot) PathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// LastToken returns the X-Riot-Token of the latest request.
func (m *MockRiot) LastToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastToken
}

// PeakInFlight returns the highest number of concurrent requests seen.
func (m *MockRiot) PeakInFlight() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.peak
}

// MatchIDsHandler pages through ids by start/count. Pages whose start is
// in failStarts answer 500.
func MatchIDsHandler(ids []string, failStarts map[int]bool) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		count, err := strconv.Atoi(r.URL.Query().Get("count"))
		if err != nil {
			count = 20
		}
		if failStarts[start] {
			writeResponse(w, NewServerErrorResponse())
			return
		}

		page := []string{}
		if start < len(ids) {
			end := min(start+count, len(ids))
			page = ids[start:end]
		}
		data, _ := json.Marshal(page)
		writeResponse(w, NewHealthyResponse(string(data)))
	}
}

func writeResponse(w http.ResponseWriter, resp MockRiotResponse) {
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

func quotaHeaders(count int) map[string]string {
	return map[string]string{
		"X-App-Rate-Limit":          "20:1,100:120",
		"X-App-Rate-Limit-Count":    strconv.Itoa(count) + ":1," + strconv.Itoa(count) + ":120",
		"X-Method-Rate-Limit":       "2000:60",
		"X-Method-Rate-Limit-Count": strconv.Itoa(count) + ":60",
		"Content-Type":              "application/json;charset=utf-8",
	}
}

// NewHealthyResponse creates a standard 200 OK response with Riot headers.
func NewHealthyResponse(data string) MockRiotResponse {
	return MockRiotResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers:    quotaHeaders(1),
	}
}

// NewNotFoundResponse creates a 404 Not Found response.
func NewNotFoundResponse() MockRiotResponse {
	return MockRiotResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"status":{"message":"Data not found","status_code":404}}`,
		Headers:    quotaHeaders(1),
	}
}

// NewForbiddenResponse creates a 403 Forbidden response (bad or expired token).
func NewForbiddenResponse() MockRiotResponse {
	return MockRiotResponse{
		StatusCode: http.StatusForbidden,
		Body:       `{"status":{"message":"Forbidden","status_code":403}}`,
		Headers:    map[string]string{"Content-Type": "application/json;charset=utf-8"},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockRiotResponse {
	headers := quotaHeaders(20)
	headers["Retry-After"] = "2"
	headers["X-Rate-Limit-Type"] = "application"
	return MockRiotResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"status":{"message":"Rate limit exceeded","status_code":429}}`,
		Headers:    headers,
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockRiotResponse {
	return MockRiotResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"status":{"message":"Internal server error","status_code":500}}`,
		Headers:    map[string]string{"Content-Type": "application/json;charset=utf-8"},
	}
}
