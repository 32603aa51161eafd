package circuitbreaker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuotaBreakerEnabled indicates whether the breaker allows scanning.
	QuotaBreakerEnabled = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sportsbook_arb_quota_breaker_enabled",
		Help: "Whether the quota breaker allows scanning (1=enabled, 0=disabled)",
	})

	// QuotaBreakerRemaining tracks the last observed remaining quota.
	QuotaBreakerRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sportsbook_arb_quota_breaker_remaining",
		Help: "Last observed remaining odds API requests",
	})

	// QuotaBreakerDisableThreshold tracks the current threshold for disabling scans.
	QuotaBreakerDisableThreshold = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sportsbook_arb_quota_breaker_disable_threshold",
		Help: "Remaining-request threshold below which scanning stops (dynamically calculated)",
	})

	// QuotaBreakerEnableThreshold tracks the current threshold for re-enabling scans.
	QuotaBreakerEnableThreshold = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sportsbook_arb_quota_breaker_enable_threshold",
		Help: "Remaining-request threshold at which scanning resumes (with hysteresis)",
	})

	// QuotaBreakerAvgRequestCost tracks the rolling average request cost.
	QuotaBreakerAvgRequestCost = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sportsbook_arb_quota_breaker_avg_request_cost",
		Help: "Rolling average quota cost of recent odds API requests",
	})

	// QuotaBreakerStateChanges tracks the number of times the breaker changed state.
	QuotaBreakerStateChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_arb_quota_breaker_state_changes_total",
		Help: "Total number of times the quota breaker changed state",
	})

	// QuotaBreakerProbesTotal tracks probe requests let through while open.
	QuotaBreakerProbesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_arb_quota_breaker_probes_total",
		Help: "Total number of probe scans allowed while the breaker was open",
	})
)
