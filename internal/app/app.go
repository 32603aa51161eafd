package app

import (
	"context"
	"sync"

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

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	oddsCache     cache.Cache
	oddsClient    *oddsapi.Client
	quotaBreaker  *circuitbreaker.QuotaBreaker // nil when disabled
	pipeline      *arbitrage.Pipeline
	scanner       *scanner.Service
	storage       storage.Storage
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	shutdownOnce  sync.Once
}

// Scanner returns the scanner service.
func (a *App) Scanner() *scanner.Service {
	return a.scanner
}
