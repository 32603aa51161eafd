package circuitbreaker

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// recentScanWindow is the number of request costs kept for the rolling average.
const recentScanWindow = 20

// QuotaBreaker watches the odds API request quota and stops scanning before it
// runs out. Thresholds follow the recent cost per request, and hysteresis keeps
// the breaker from flapping around the threshold.
//
// While open, one probe request is let through every ProbeInterval so the
// breaker notices when the quota is replenished.
type QuotaBreaker struct {
	enabled atomic.Bool // Atomic for lock-free reads

	// Configuration
	scanMultiplier  float64 // Multiplier for avg request cost
	minRemaining    float64 // Absolute minimum remaining requests
	hysteresisRatio float64 // Re-enable at ratio * disable threshold
	probeInterval   time.Duration
	logger          *zap.Logger
	now             func() time.Time

	// Protected by mutex
	mu               sync.RWMutex
	lastRemaining    float64
	lastUsed         float64
	lastCheck        time.Time
	lastProbe        time.Time
	recentCosts      []float64
	disableThreshold float64
	enableThreshold  float64
}

// Config holds circuit breaker configuration.
type Config struct {
	ScanMultiplier  float64
	MinRemaining    float64
	HysteresisRatio float64
	ProbeInterval   time.Duration
	Logger          *zap.Logger
}

// Status holds current circuit breaker status for debugging.
type Status struct {
	Enabled          bool      `json:"enabled"`
	LastRemaining    float64   `json:"last_remaining"`
	LastUsed         float64   `json:"last_used"`
	LastCheck        time.Time `json:"last_check"`
	DisableThreshold float64   `json:"disable_threshold"`
	EnableThreshold  float64   `json:"enable_threshold"`
	AvgRequestCost   float64   `json:"avg_request_cost"`
	RecentCostCount  int       `json:"recent_cost_count"`
}

// New creates a new quota breaker with the given configuration.
func New(cfg *Config) (breaker *QuotaBreaker, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.ScanMultiplier <= 0 {
		return nil, fmt.Errorf("scan multiplier must be positive")
	}
	if cfg.MinRemaining <= 0 {
		return nil, fmt.Errorf("min remaining must be positive")
	}
	if cfg.HysteresisRatio < 1.0 {
		return nil, fmt.Errorf("hysteresis ratio must be >= 1.0")
	}
	if cfg.ProbeInterval <= 0 {
		return nil, fmt.Errorf("probe interval must be positive")
	}

	breaker = &QuotaBreaker{
		scanMultiplier:   cfg.ScanMultiplier,
		minRemaining:     cfg.MinRemaining,
		hysteresisRatio:  cfg.HysteresisRatio,
		probeInterval:    cfg.ProbeInterval,
		logger:           cfg.Logger,
		now:              time.Now,
		recentCosts:      make([]float64, 0, recentScanWindow),
		disableThreshold: cfg.MinRemaining,
		enableThreshold:  cfg.MinRemaining * cfg.HysteresisRatio,
	}

	// Start enabled by default
	breaker.enabled.Store(true)

	QuotaBreakerEnabled.Set(1)
	QuotaBreakerDisableThreshold.Set(breaker.disableThreshold)
	QuotaBreakerEnableThreshold.Set(breaker.enableThreshold)
	QuotaBreakerAvgRequestCost.Set(0)

	return breaker, nil
}

// IsEnabled returns true if requests may be made freely.
func (b *QuotaBreaker) IsEnabled() (enabled bool) {
	return b.enabled.Load()
}

// Allow reports whether a scan may call the API now. While the breaker is open
// it allows a single probe per probe interval.
func (b *QuotaBreaker) Allow() bool {
	if b.enabled.Load() {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if now.Sub(b.lastProbe) < b.probeInterval {
		return false
	}

	b.lastProbe = now
	QuotaBreakerProbesTotal.Inc()
	b.logger.Info("quota-breaker-probe",
		zap.Float64("last_remaining", b.lastRemaining),
		zap.Float64("enable_threshold", b.enableThreshold))

	return true
}

// RecordUsage adds the cost of one request to the rolling window and
// recalculates thresholds.
func (b *QuotaBreaker) RecordUsage(cost float64) {
	if cost <= 0 {
		// Cached or free requests do not move the thresholds.
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.recentCosts = append(b.recentCosts, cost)
	if len(b.recentCosts) > recentScanWindow {
		b.recentCosts = b.recentCosts[1:]
	}

	avgCost := b.avgCostLocked()

	b.disableThreshold = math.Max(avgCost*b.scanMultiplier, b.minRemaining)
	b.enableThreshold = b.disableThreshold * b.hysteresisRatio

	QuotaBreakerAvgRequestCost.Set(avgCost)
	QuotaBreakerDisableThreshold.Set(b.disableThreshold)
	QuotaBreakerEnableThreshold.Set(b.enableThreshold)

	b.logger.Debug("quota-thresholds-updated",
		zap.Float64("avg_request_cost", avgCost),
		zap.Int("cost_count", len(b.recentCosts)),
		zap.Float64("disable_threshold", b.disableThreshold),
		zap.Float64("enable_threshold", b.enableThreshold))
}

// ObserveQuota records the quota reported by the API and updates the enabled
// state based on thresholds.
func (b *QuotaBreaker) ObserveQuota(remaining, used float64) {
	b.mu.Lock()
	b.lastRemaining = remaining
	b.lastUsed = used
	b.lastCheck = b.now()
	disableThreshold := b.disableThreshold
	enableThreshold := b.enableThreshold
	b.mu.Unlock()

	QuotaBreakerRemaining.Set(remaining)

	currentlyEnabled := b.enabled.Load()

	// State transition logic with hysteresis
	shouldDisable := currentlyEnabled && remaining < disableThreshold
	shouldEnable := !currentlyEnabled && remaining >= enableThreshold

	switch {
	case shouldDisable:
		b.mu.Lock()
		b.lastProbe = b.now()
		b.mu.Unlock()

		b.enabled.Store(false)
		QuotaBreakerEnabled.Set(0)
		QuotaBreakerStateChanges.Inc()

		b.logger.Warn("quota-breaker-disabled",
			zap.Float64("remaining", remaining),
			zap.Float64("used", used),
			zap.Float64("disable_threshold", disableThreshold),
			zap.Float64("enable_threshold", enableThreshold))
	case shouldEnable:
		b.enabled.Store(true)
		QuotaBreakerEnabled.Set(1)
		QuotaBreakerStateChanges.Inc()

		b.logger.Info("quota-breaker-enabled",
			zap.Float64("remaining", remaining),
			zap.Float64("disable_threshold", disableThreshold),
			zap.Float64("enable_threshold", enableThreshold))
	default:
		b.logger.Debug("quota-checked",
			zap.Float64("remaining", remaining),
			zap.Bool("enabled", currentlyEnabled),
			zap.Float64("disable_threshold", disableThreshold),
			zap.Float64("enable_threshold", enableThreshold))
	}
}

// GetStatus returns current breaker status for debugging and HTTP endpoints.
func (b *QuotaBreaker) GetStatus() (status Status) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return Status{
		Enabled:          b.enabled.Load(),
		LastRemaining:    b.lastRemaining,
		LastUsed:         b.lastUsed,
		LastCheck:        b.lastCheck,
		DisableThreshold: b.disableThreshold,
		EnableThreshold:  b.enableThreshold,
		AvgRequestCost:   b.avgCostLocked(),
		RecentCostCount:  len(b.recentCosts),
	}
}

func (b *QuotaBreaker) avgCostLocked() float64 {
	if len(b.recentCosts) == 0 {
		return 0
	}

	sum := 0.0
	for _, cost := range b.recentCosts {
		sum += cost
	}

	return sum / float64(len(b.recentCosts))
}
