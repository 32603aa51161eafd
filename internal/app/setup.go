package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mselser95/sportsbook-arb/internal/arbitrage"
	"github.com/mselser95/sportsbook-arb/internal/circuitbreaker"
	"github.com/mselser95/sportsbook-arb/internal/oddsapi"
	"github.com/mselser95/sportsbook-arb/internal/scanner"
	"github.com/mselser95/sportsbook-arb/internal/storage"
	"github.com/mselser95/sportsbook-arb/pkg/cache"
	"github.com/mselser95/sportsbook-arb/pkg/config"
	"github.com/mselser95/sportsbook-arb/pkg/healthprobe"
	"github.com/mselser95/sportsbook-arb/pkg/httpserver"
	"go.uber.org/zap"
)

// staleScanFactor is how many scan intervals may pass without a completed
// scan before the service reports not ready.
const staleScanFactor = 3

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.OddsAPIKey == "" {
		return nil, fmt.Errorf("setup odds client: %w", oddsapi.ErrMissingAPIKey)
	}

	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := setupHealthChecker()

	oddsCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	breaker, err := setupQuotaBreaker(cfg, logger)
	if err != nil {
		cancel()
		oddsCache.Close()
		return nil, fmt.Errorf("setup quota breaker: %w", err)
	}

	oddsClient := setupOddsClient(cfg, logger, oddsCache, breaker)

	pipeline, err := SetupPipeline(cfg, logger)
	if err != nil {
		cancel()
		oddsCache.Close()
		return nil, fmt.Errorf("setup pipeline: %w", err)
	}

	arbStorage, err := SetupStorage(cfg, logger)
	if err != nil {
		cancel()
		oddsCache.Close()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	scannerService := setupScanner(cfg, logger, oddsClient, breaker, pipeline, arbStorage)
	healthChecker.AddCheck("scanner", scanFreshnessCheck(scannerService, cfg.ScanInterval))
	if breaker != nil {
		healthChecker.AddCheck("odds-quota", quotaCheck(breaker))
	}

	httpServer := setupHTTPServer(cfg, logger, healthChecker, scannerService)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		oddsCache:     oddsCache,
		oddsClient:    oddsClient,
		quotaBreaker:  breaker,
		pipeline:      pipeline,
		scanner:       scannerService,
		storage:       arbStorage,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupHealthChecker() *healthprobe.HealthChecker {
	return healthprobe.New()
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	scannerService *scanner.Service,
) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Results:       scannerService,
		CORSOrigins:   cfg.HTTPCORSOrigins,
	})
}

func setupCache(logger *zap.Logger) (*cache.RistrettoCache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 1000,     // 10x expected distinct requests
		MaxBytes:    64 << 20, // Response bodies are a few MB at most
		BufferItems: 64,
		Logger:      logger,
	})
}

// setupQuotaBreaker returns nil when the breaker is disabled.
func setupQuotaBreaker(cfg *config.Config, logger *zap.Logger) (*circuitbreaker.QuotaBreaker, error) {
	if !cfg.QuotaBreakerEnabled {
		logger.Info("quota-breaker-disabled-by-config")
		return nil, nil
	}

	return circuitbreaker.New(&circuitbreaker.Config{
		ScanMultiplier:  cfg.QuotaScanMultiplier,
		MinRemaining:    cfg.QuotaMinRemaining,
		HysteresisRatio: cfg.QuotaHysteresisRatio,
		ProbeInterval:   cfg.QuotaProbeInterval,
		Logger:          logger,
	})
}

func setupOddsClient(
	cfg *config.Config,
	logger *zap.Logger,
	oddsCache cache.Cache,
	breaker *circuitbreaker.QuotaBreaker,
) *oddsapi.Client {
	clientCfg := &oddsapi.Config{
		BaseURL:  cfg.OddsAPIURL,
		APIKey:   cfg.OddsAPIKey,
		Timeout:  cfg.OddsRequestTimeout,
		Cache:    oddsCache,
		CacheTTL: cfg.OddsCacheTTL,
		Logger:   logger,
	}
	if breaker != nil {
		clientCfg.Quota = breaker
	}

	return oddsapi.NewClient(clientCfg)
}

// SetupPipeline builds the arbitrage pipeline from configuration.
func SetupPipeline(cfg *config.Config, logger *zap.Logger) (*arbitrage.Pipeline, error) {
	return arbitrage.NewPipeline(arbitrage.Config{
		ReferenceStake: cfg.ArbReferenceStake,
		PriceFormat:    cfg.PriceFormat(),
		MarketKey:      cfg.ArbMarketKey,
		Workers:        cfg.ArbWorkers,
		Logger:         logger,
	})
}

// SetupStorage builds the configured result storage.
func SetupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	switch cfg.StorageMode {
	case "postgres":
		pgStorage, err := storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return pgStorage, nil
	case "csv":
		return storage.NewCSVStorage(cfg.CSVOutputPath, logger), nil
	default:
		return storage.NewConsoleStorage(logger), nil
	}
}

func setupScanner(
	cfg *config.Config,
	logger *zap.Logger,
	oddsClient *oddsapi.Client,
	breaker *circuitbreaker.QuotaBreaker,
	pipeline *arbitrage.Pipeline,
	arbStorage storage.Storage,
) *scanner.Service {
	scannerCfg := &scanner.Config{
		Fetcher:  oddsClient,
		Pipeline: pipeline,
		Storage:  arbStorage,
		Request: oddsapi.OddsRequest{
			Sport:   cfg.OddsSport,
			Regions: cfg.OddsRegions,
			Markets: cfg.OddsMarkets,
		},
		Interval: cfg.ScanInterval,
		Logger:   logger,
	}
	if breaker != nil {
		scannerCfg.Gate = breaker
	}

	return scanner.New(scannerCfg)
}

// scanFreshnessCheck fails until the first scan completes and whenever the
// latest scan is older than staleScanFactor intervals.
func scanFreshnessCheck(s *scanner.Service, interval time.Duration) func() error {
	return func() error {
		status := s.Status()
		if status.LastScanAt.IsZero() {
			if status.LastError != "" {
				return errors.New(status.LastError)
			}
			return errors.New("no scan has completed yet")
		}

		age := time.Since(status.LastScanAt)
		if age > staleScanFactor*interval {
			return fmt.Errorf("last scan completed %s ago", age.Round(time.Second))
		}

		return nil
	}
}

func quotaCheck(breaker *circuitbreaker.QuotaBreaker) func() error {
	return func() error {
		if breaker.IsEnabled() {
			return nil
		}

		status := breaker.GetStatus()
		return fmt.Errorf("odds API quota low: %.0f requests remaining", status.LastRemaining)
	}
}
