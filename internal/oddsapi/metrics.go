package oddsapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks odds API requests by HTTP status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportsbook_arb_odds_api_requests_total",
			Help: "Total number of odds API requests by status code",
		},
		[]string{"status"},
	)

	// RequestDurationSeconds tracks odds API latency.
	RequestDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sportsbook_arb_odds_api_request_duration_seconds",
		Help:    "Duration of odds API requests",
		Buckets: prometheus.DefBuckets,
	})

	// QuotaRemaining tracks the x-requests-remaining header.
	QuotaRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sportsbook_arb_odds_api_quota_remaining",
		Help: "Requests remaining in the odds API quota",
	})

	// QuotaUsed tracks the x-requests-used header.
	QuotaUsed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sportsbook_arb_odds_api_quota_used",
		Help: "Requests used from the odds API quota",
	})

	// EventsDroppedTotal tracks events that could not be decoded.
	EventsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_arb_odds_api_events_dropped_total",
		Help: "Total number of events dropped because they could not be decoded",
	})
)
