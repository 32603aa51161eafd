package scanner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScansTotal tracks completed pipeline runs.
	ScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_arb_scans_total",
		Help: "Total number of completed scans",
	})

	// ScanErrorsTotal tracks failed scans by stage.
	ScanErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportsbook_arb_scan_errors_total",
			Help: "Total number of failed scans by stage",
		},
		[]string{"stage"},
	)

	// ScansSuppressedTotal tracks scans skipped by the quota gate.
	ScansSuppressedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_arb_scans_suppressed_total",
		Help: "Total number of scans skipped because the odds API quota is low",
	})

	// ScanDurationSeconds tracks end-to-end scan time.
	ScanDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sportsbook_arb_scan_duration_seconds",
		Help:    "Duration of a full scan (fetch, pipeline and storage)",
		Buckets: prometheus.DefBuckets,
	})

	// LastScanTimestamp is the unix time of the latest pipeline run.
	LastScanTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sportsbook_arb_last_scan_timestamp_seconds",
		Help: "Unix timestamp of the latest completed scan",
	})

	// OpportunitiesInLastScan is the opportunity count of the latest scan.
	OpportunitiesInLastScan = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sportsbook_arb_opportunities_last_scan",
		Help: "Number of arbitrage opportunities found by the latest scan",
	})
)
