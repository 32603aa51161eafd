package oddsapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mselser95/sportsbook-arb/pkg/cache"
	"github.com/mselser95/sportsbook-arb/pkg/types"
	"go.uber.org/zap"
)

// ErrMissingAPIKey is returned when a request is attempted without an API key.
var ErrMissingAPIKey = errors.New("odds API key is not configured")

// QuotaObserver is notified of the quota headers on every API response.
type QuotaObserver interface {
	ObserveQuota(remaining, used float64)
	RecordUsage(cost float64)
}

// Client is an HTTP client for the odds API (v4).
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      cache.Cache
	cacheTTL   time.Duration
	quota      QuotaObserver
	logger     *zap.Logger
}

// Config holds client configuration.
type Config struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	Cache    cache.Cache // Optional response cache
	CacheTTL time.Duration
	Quota    QuotaObserver // Optional
	Logger   *zap.Logger
}

// OddsRequest selects which odds to fetch.
// Regions and Markets are comma separated lists.
type OddsRequest struct {
	Sport   string
	Regions string
	Markets string
}

// NewClient creates a new odds API client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		quota:    cfg.Quota,
		logger:   cfg.Logger,
	}
}

// FetchOdds fetches decimal odds for every event of the requested sport.
// Responses are served from the cache while fresh.
func (c *Client) FetchOdds(ctx context.Context, req OddsRequest) ([]types.Event, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Add("regions", req.Regions)
	params.Add("markets", req.Markets)
	params.Add("oddsFormat", "decimal")
	params.Add("dateFormat", "iso")

	endpoint := fmt.Sprintf("%s/v4/sports/%s/odds", c.baseURL, url.PathEscape(req.Sport))

	// Logged and cached without the API key.
	redactedURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	if c.cache != nil {
		if body, found := c.cache.Get(redactedURL); found {
			c.logger.Debug("odds-served-from-cache", zap.String("url", redactedURL))
			return DecodeEvents(body, redactedURL, c.logger)
		}
	}

	params.Add("apiKey", c.apiKey)
	requestURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "sportsbook-arb/1.0")

	c.logger.Debug("fetching-odds",
		zap.String("url", redactedURL),
		zap.String("sport", req.Sport))

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	RequestDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		RequestsTotal.WithLabelValues("error").Inc()
		return nil, &types.UpstreamFetchError{URL: redactedURL, Err: err}
	}
	defer resp.Body.Close()

	RequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	c.recordQuota(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &types.UpstreamFetchError{
			URL:        redactedURL,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.UpstreamFetchError{URL: redactedURL, StatusCode: resp.StatusCode, Err: err}
	}

	events, err := DecodeEvents(body, redactedURL, c.logger)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(redactedURL, body, c.cacheTTL)
	}

	c.logger.Debug("fetched-odds",
		zap.String("sport", req.Sport),
		zap.Int("events", len(events)),
		zap.Duration("duration", time.Since(start)))

	return events, nil
}

// recordQuota exports the API usage headers and forwards them to the observer.
func (c *Client) recordQuota(header http.Header) {
	remaining, remainingErr := strconv.ParseFloat(header.Get("x-requests-remaining"), 64)
	if remainingErr == nil {
		QuotaRemaining.Set(remaining)
	}

	used, usedErr := strconv.ParseFloat(header.Get("x-requests-used"), 64)
	if usedErr == nil {
		QuotaUsed.Set(used)
	}

	if c.quota == nil {
		return
	}

	if last, err := strconv.ParseFloat(header.Get("x-requests-last"), 64); err == nil {
		c.quota.RecordUsage(last)
	}

	if remainingErr == nil && usedErr == nil {
		c.quota.ObserveQuota(remaining, used)
	}
}
