// Package scanner periodically fetches odds and runs them through the
// arbitrage pipeline.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mselser95/sportsbook-arb/internal/arbitrage"
	"github.com/mselser95/sportsbook-arb/internal/oddsapi"
	"github.com/mselser95/sportsbook-arb/pkg/types"
	"go.uber.org/zap"
)

// Fetcher retrieves the events to scan.
type Fetcher interface {
	FetchOdds(ctx context.Context, req oddsapi.OddsRequest) ([]types.Event, error)
}

// Gate decides whether a scan may call the odds API.
type Gate interface {
	Allow() bool
}

// Service scans for arbitrage opportunities on a fixed interval.
type Service struct {
	fetcher  Fetcher
	gate     Gate
	pipeline *arbitrage.Pipeline
	storage  arbitrage.Storage
	request  oddsapi.OddsRequest
	interval time.Duration
	logger   *zap.Logger

	latest   atomic.Pointer[arbitrage.ResultSet]
	lastErr  atomic.Pointer[scanError]
	scanning atomic.Bool
}

type scanError struct {
	err error
	at  time.Time
}

// Config holds scanner configuration.
type Config struct {
	Fetcher  Fetcher
	Gate     Gate // Optional
	Pipeline *arbitrage.Pipeline
	Storage  arbitrage.Storage // Optional
	Request  oddsapi.OddsRequest
	Interval time.Duration
	Logger   *zap.Logger
}

// New creates a new scanner service.
func New(cfg *Config) *Service {
	return &Service{
		fetcher:  cfg.Fetcher,
		gate:     cfg.Gate,
		pipeline: cfg.Pipeline,
		storage:  cfg.Storage,
		request:  cfg.Request,
		interval: cfg.Interval,
		logger:   cfg.Logger,
	}
}

var (
	// ErrScanInProgress is returned when a scan is requested while one is running.
	ErrScanInProgress = errors.New("scan already in progress")

	// ErrScanSuppressed is returned when the gate refuses the scan.
	ErrScanSuppressed = errors.New("scan suppressed: odds API quota is low")
)

// Run scans immediately and then on every tick until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("scanner-starting",
		zap.Duration("interval", s.interval),
		zap.String("sport", s.request.Sport),
		zap.String("regions", s.request.Regions),
		zap.String("markets", s.request.Markets))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	_, err := s.ScanOnce(ctx)
	if err != nil {
		s.logScanError("initial-scan-failed", err)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scanner-stopping")
			return ctx.Err()
		case <-ticker.C:
			_, err := s.ScanOnce(ctx)
			if err != nil {
				s.logScanError("scan-failed", err)
			}
		}
	}
}

// ScanOnce fetches odds, runs the pipeline and stores the result set.
// The set is returned even when storing it fails.
func (s *Service) ScanOnce(ctx context.Context) (*arbitrage.ResultSet, error) {
	if !s.scanning.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}
	defer s.scanning.Store(false)

	if s.gate != nil && !s.gate.Allow() {
		ScansSuppressedTotal.Inc()
		return nil, ErrScanSuppressed
	}

	start := time.Now()
	defer func() {
		ScanDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	events, err := s.fetcher.FetchOdds(ctx, s.request)
	if err != nil {
		ScanErrorsTotal.WithLabelValues("fetch").Inc()
		s.recordError(err)
		return nil, fmt.Errorf("fetch odds: %w", err)
	}

	set := s.Process(events)

	if s.storage != nil {
		err = s.storage.StoreResults(ctx, set)
		if err != nil {
			ScanErrorsTotal.WithLabelValues("store").Inc()
			s.recordError(err)
			return set, fmt.Errorf("store results: %w", err)
		}
	}

	s.lastErr.Store(nil)

	s.logger.Info("scan-complete",
		zap.String("scan-id", set.ScanID),
		zap.Int("events", set.EventsProcessed),
		zap.Int("opportunities", set.Count),
		zap.Duration("duration", time.Since(start)))

	return set, nil
}

// Process runs already fetched events through the pipeline and publishes the
// result set as the latest.
func (s *Service) Process(events []types.Event) *arbitrage.ResultSet {
	set := s.pipeline.Run(events)

	s.latest.Store(set)
	ScansTotal.Inc()
	LastScanTimestamp.Set(float64(set.GeneratedAt.Unix()))
	OpportunitiesInLastScan.Set(float64(set.Count))

	return set
}

// Latest returns the most recent result set, or nil before the first scan.
func (s *Service) Latest() *arbitrage.ResultSet {
	return s.latest.Load()
}

// Status summarizes the scanner state.
type Status struct {
	Scanning      bool      `json:"scanning"`
	LastScanID    string    `json:"last_scan_id,omitempty"`
	LastScanAt    time.Time `json:"last_scan_at,omitempty"`
	Opportunities int       `json:"opportunities"`
	LastError     string    `json:"last_error,omitempty"`
	LastErrorAt   time.Time `json:"last_error_at,omitempty"`
}

// Status returns the current scanner state. The last error is cleared by the
// next successful scan.
func (s *Service) Status() Status {
	status := Status{Scanning: s.scanning.Load()}

	if set := s.latest.Load(); set != nil {
		status.LastScanID = set.ScanID
		status.LastScanAt = set.GeneratedAt
		status.Opportunities = set.Count
	}

	if e := s.lastErr.Load(); e != nil {
		status.LastError = e.err.Error()
		status.LastErrorAt = e.at
	}

	return status
}

func (s *Service) logScanError(msg string, err error) {
	switch {
	case errors.Is(err, ErrScanSuppressed):
		s.logger.Debug("scan-suppressed")
		return
	case errors.Is(err, ErrScanInProgress):
		s.logger.Debug("scan-skipped-in-progress")
		return
	}

	s.logger.Error(msg, zap.Error(err))
}

func (s *Service) recordError(err error) {
	s.lastErr.Store(&scanError{err: err, at: time.Now()})
}
