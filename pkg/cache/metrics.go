package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_arb_odds_cache_hits_total",
		Help: "Total number of odds response cache hits",
	})

	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_arb_odds_cache_misses_total",
		Help: "Total number of odds response cache misses",
	})

	CacheSetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_arb_odds_cache_sets_total",
		Help: "Total number of odds responses cached",
	})

	CacheDeletesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_arb_odds_cache_deletes_total",
		Help: "Total number of odds response cache deletes",
	})

	CacheBytesStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_arb_odds_cache_bytes_stored_total",
		Help: "Total payload bytes written to the odds response cache",
	})
)
