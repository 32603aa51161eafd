package oddsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mselser95/sportsbook-arb/pkg/cache"
	"github.com/mselser95/sportsbook-arb/pkg/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleOdds = `[
  {
    "id": "evt-1",
    "sport_key": "soccer_epl",
    "sport_title": "EPL",
    "commence_time": "2026-10-18T14:00:00Z",
    "home_team": "Arsenal",
    "away_team": "Chelsea",
    "bookmakers": [
      {
        "key": "bookA",
        "title": "Book A",
        "last_update": "2026-10-17T10:00:00Z",
        "markets": [
          {"key": "h2h", "outcomes": [
            {"name": "Arsenal", "price": 2.10},
            {"name": "Chelsea", "price": 3.40},
            {"name": "Draw", "price": 3.30}
          ]}
        ]
      }
    ]
  },
  {
    "id": "evt-2",
    "sport_key": "soccer_epl",
    "home_team": "Spurs",
    "away_team": "Fulham",
    "bookmakers": []
  }
]`

type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string][]byte)}
}

func (m *mapCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *mapCache) Set(key string, payload []byte, _ time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = payload
	return true
}

func (m *mapCache) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

func (m *mapCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string][]byte)
}

func (m *mapCache) Close() {}

var _ cache.Cache = (*mapCache)(nil)

func newTestClient(baseURL string, c cache.Cache) *Client {
	return NewClient(&Config{
		BaseURL:  baseURL,
		APIKey:   "secret-key",
		Timeout:  5 * time.Second,
		Cache:    c,
		CacheTTL: time.Minute,
		Logger:   zap.NewNop(),
	})
}

var testRequest = OddsRequest{Sport: "soccer_epl", Regions: "uk,eu", Markets: "h2h"}

func TestClient_FetchOdds(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("x-requests-remaining", "480")
		w.Header().Set("x-requests-used", "20")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(sampleOdds))
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)

	events, err := client.FetchOdds(context.Background(), testRequest)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "/v4/sports/soccer_epl/odds", gotPath)
	assert.Equal(t, []string{"secret-key"}, gotQuery["apiKey"])
	assert.Equal(t, []string{"uk,eu"}, gotQuery["regions"])
	assert.Equal(t, []string{"h2h"}, gotQuery["markets"])
	assert.Equal(t, []string{"decimal"}, gotQuery["oddsFormat"])
	assert.Equal(t, []string{"iso"}, gotQuery["dateFormat"])

	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, "Arsenal", events[0].HomeTeam)
	require.Len(t, events[0].Bookmakers, 1)
	assert.Equal(t, "Book A", events[0].Bookmakers[0].Name())
	require.Len(t, events[0].Bookmakers[0].Markets, 1)
	assert.Len(t, events[0].Bookmakers[0].Markets[0].Outcomes, 3)
	assert.Empty(t, events[1].Bookmakers)

	assert.Equal(t, 480.0, testutil.ToFloat64(QuotaRemaining))
	assert.Equal(t, 20.0, testutil.ToFloat64(QuotaUsed))
}

type recordingQuota struct {
	mu        sync.Mutex
	remaining []float64
	costs     []float64
}

func (r *recordingQuota) ObserveQuota(remaining, used float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = append(r.remaining, remaining)
}

func (r *recordingQuota) RecordUsage(cost float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.costs = append(r.costs, cost)
}

func TestClient_FetchOdds_NotifiesQuotaObserver(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("x-requests-remaining", "42")
		w.Header().Set("x-requests-used", "458")
		w.Header().Set("x-requests-last", "6")
		_, _ = w.Write([]byte(sampleOdds))
	}))
	defer server.Close()

	quota := &recordingQuota{}
	client := NewClient(&Config{
		BaseURL: server.URL,
		APIKey:  "secret-key",
		Quota:   quota,
		Logger:  zap.NewNop(),
	})

	_, err := client.FetchOdds(context.Background(), testRequest)
	require.NoError(t, err)

	assert.Equal(t, []float64{42}, quota.remaining)
	assert.Equal(t, []float64{6}, quota.costs)
}

func TestClient_FetchOdds_MissingAPIKey(t *testing.T) {
	client := NewClient(&Config{BaseURL: "http://127.0.0.1:0", Logger: zap.NewNop()})

	_, err := client.FetchOdds(context.Background(), testRequest)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestClient_FetchOdds_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid key"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)

	_, err := client.FetchOdds(context.Background(), testRequest)
	require.Error(t, err)

	var fetchErr *types.UpstreamFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusUnauthorized, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.Body, "invalid key")
	assert.NotContains(t, fetchErr.Error(), "secret-key")
}

func TestClient_FetchOdds_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(url, nil)

	_, err := client.FetchOdds(context.Background(), testRequest)
	require.Error(t, err)

	var fetchErr *types.UpstreamFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
	assert.NotContains(t, fetchErr.Error(), "secret-key")
}

func TestClient_FetchOdds_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer server.Close()

	c := newMapCache()
	client := newTestClient(server.URL, c)

	_, err := client.FetchOdds(context.Background(), testRequest)
	require.Error(t, err)

	var parseErr *types.UpstreamParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Empty(t, c.items, "malformed responses must not be cached")
}

func TestClient_FetchOdds_ServesFromCache(t *testing.T) {
	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(sampleOdds))
	}))
	defer server.Close()

	c := newMapCache()
	client := newTestClient(server.URL, c)

	first, err := client.FetchOdds(context.Background(), testRequest)
	require.NoError(t, err)

	second, err := client.FetchOdds(context.Background(), testRequest)
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, first, second)

	for key := range c.items {
		assert.NotContains(t, key, "secret-key")
	}

	// A different sport is a different cache entry.
	_, err = client.FetchOdds(context.Background(), OddsRequest{Sport: "basketball_nba", Regions: "us", Markets: "h2h"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_FetchOdds_RistrettoCache(t *testing.T) {
	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(sampleOdds))
	}))
	defer server.Close()

	rc, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 1000,
		MaxBytes:    1 << 20,
		BufferItems: 64,
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)
	defer rc.Close()

	client := newTestClient(server.URL, rc)

	_, err = client.FetchOdds(context.Background(), testRequest)
	require.NoError(t, err)
	rc.Wait()

	_, err = client.FetchOdds(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestDecodeEvents_DropsBadElements(t *testing.T) {
	payload := `[
		{"id": "good", "sport_key": "tennis", "bookmakers": []},
		{"id": 42, "bookmakers": "nope"},
		"just a string",
		{"id": "also-good"}
	]`

	before := testutil.ToFloat64(EventsDroppedTotal)

	events, err := DecodeEvents([]byte(payload), "test", zap.NewNop())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "good", events[0].ID)
	assert.Equal(t, "also-good", events[1].ID)
	assert.Equal(t, before+2, testutil.ToFloat64(EventsDroppedTotal))
}

func TestDecodeEvents_KeepsMalformedBookmaker(t *testing.T) {
	payload := `[{"id": "evt", "bookmakers": [
		{"key": "bad", "title": "Bad", "markets": "oops"},
		{"key": "good", "title": "Good", "markets": []}
	]}]`

	events, err := DecodeEvents([]byte(payload), "test", zap.NewNop())
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Len(t, events[0].Bookmakers, 2)
	assert.Error(t, events[0].Bookmakers[0].DecodeErr)
	assert.NoError(t, events[0].Bookmakers[1].DecodeErr)
}

func TestDecodeEvents_NotJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"garbage", "not json"},
		{"object", `{"id": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvents([]byte(tt.payload), "test", zap.NewNop())
			var parseErr *types.UpstreamParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, "test", parseErr.Source)
		})
	}
}

func TestLoadEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "odds.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleOdds), 0o600))

	events, err := LoadEvents(path, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, events, 2)

	_, err = LoadEvents(filepath.Join(dir, "missing.json"), zap.NewNop())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "read events file"))
}
