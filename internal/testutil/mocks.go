package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"

	json "github.com/goccy/go-json"
	"github.com/mselser95/sportsbook-arb/pkg/types"
)

// MockOddsAPI is a mock HTTP server that simulates the odds feed.
type MockOddsAPI struct {
	*httptest.Server
	APIKey string

	events    []types.Event
	remaining float64
	used      float64
	last      float64
	hits      atomic.Int32
	mu        sync.RWMutex
}

// NewMockOddsAPI creates a new mock odds server. Requests whose apiKey does
// not match apiKey are rejected with 401.
func NewMockOddsAPI(apiKey string, events []types.Event) *MockOddsAPI {
	mock := &MockOddsAPI{
		APIKey:    apiKey,
		events:    events,
		remaining: 500,
		last:      1,
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.hits.Add(1)

		if r.URL.Query().Get("apiKey") != mock.APIKey {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid api key"}`))
			return
		}

		mock.mu.RLock()
		defer mock.mu.RUnlock()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("x-requests-remaining", formatQuota(mock.remaining))
		w.Header().Set("x-requests-used", formatQuota(mock.used))
		w.Header().Set("x-requests-last", formatQuota(mock.last))
		_ = json.NewEncoder(w).Encode(mock.events)
	})

	mock.Server = httptest.NewServer(handler)
	return mock
}

// SetEvents replaces the events served by the mock.
func (m *MockOddsAPI) SetEvents(events []types.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = events
}

// SetQuota sets the quota headers attached to every response.
func (m *MockOddsAPI) SetQuota(remaining, used, last float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remaining = remaining
	m.used = used
	m.last = last
}

// Hits returns how many requests the mock has received.
func (m *MockOddsAPI) Hits() int {
	return int(m.hits.Load())
}

func formatQuota(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
