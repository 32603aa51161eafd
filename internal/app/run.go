package app

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Run starts the application and blocks until shutdown.
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.String("sport", a.cfg.OddsSport),
		zap.String("regions", a.cfg.OddsRegions),
		zap.String("market-key", a.cfg.ArbMarketKey),
		zap.Float64("reference-stake", a.cfg.ArbReferenceStake),
		zap.String("storage-mode", a.cfg.StorageMode),
		zap.String("log-level", a.cfg.LogLevel))

	a.startComponents()

	a.healthChecker.SetReady(true)

	a.logger.Info("application-ready",
		zap.String("http-addr", ":"+a.cfg.HTTPPort),
		zap.Duration("scan-interval", a.cfg.ScanInterval))

	return a.waitForShutdown()
}

func (a *App) startComponents() {
	a.wg.Add(1)
	go a.runHTTPServer()

	// Give HTTP server a moment to start
	time.Sleep(100 * time.Millisecond)

	a.wg.Add(1)
	go a.runScanner()
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

func (a *App) runScanner() {
	defer a.wg.Done()
	err := a.scanner.Run(a.ctx)
	if err != nil && !errors.Is(err, a.ctx.Err()) {
		a.logger.Error("scanner-error", zap.Error(err))
	}
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
