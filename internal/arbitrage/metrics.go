package arbitrage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsProcessedTotal tracks events run through the pipeline.
	EventsProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_arb_events_processed_total",
		Help: "Total number of events evaluated for arbitrage",
	})

	// OpportunitiesDetectedTotal tracks arbitrage opportunities detected.
	OpportunitiesDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_arb_opportunities_detected_total",
		Help: "Total number of arbitrage opportunities detected",
	})

	// EventsRejectedTotal tracks excluded events by reason.
	EventsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportsbook_arb_events_rejected_total",
			Help: "Total number of events excluded from the result set",
		},
		[]string{"reason"},
	)

	// BookmakersSkippedTotal tracks malformed bookmaker entries.
	BookmakersSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_arb_bookmakers_skipped_total",
		Help: "Total number of bookmaker entries skipped as malformed",
	})

	// ConversionFailuresTotal tracks prices that could not be shown in the display format.
	ConversionFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_arb_price_conversion_failures_total",
		Help: "Total number of events whose prices could not be converted to the display format",
	})

	// OpportunityProfitBPS tracks profit margins in basis points.
	OpportunityProfitBPS = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sportsbook_arb_opportunity_profit_bps",
		Help:    "Arbitrage opportunity profit margin in basis points",
		Buckets: []float64{10, 25, 50, 100, 200, 500, 1000, 2000, 5000},
	})

	// OpportunityOutcomeCount tracks how many legs each opportunity has.
	OpportunityOutcomeCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sportsbook_arb_opportunity_outcomes",
		Help:    "Number of outcomes per arbitrage opportunity",
		Buckets: []float64{2, 3, 4, 6, 10, 20},
	})

	// PipelineDurationSeconds tracks how long a batch takes.
	PipelineDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sportsbook_arb_pipeline_duration_seconds",
		Help:    "Duration of one arbitrage pipeline run",
		Buckets: prometheus.DefBuckets,
	})
)
