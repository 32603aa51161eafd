package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Shutdown gracefully shuts down the application. Calls after the first are no-ops.
func (a *App) Shutdown() error {
	a.shutdownOnce.Do(a.shutdown)
	return nil
}

func (a *App) shutdown() {
	a.logger.Info("application-shutting-down")

	a.healthChecker.SetReady(false)

	// Cancel context to signal all components
	a.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	err := a.shutdownHTTPServer(shutdownCtx)
	if err != nil {
		a.logger.Error("http-server-shutdown-error", zap.Error(err))
	}

	// The scanner may be mid-store; wait before closing storage.
	a.wg.Wait()

	err = a.shutdownStorage()
	if err != nil {
		a.logger.Error("storage-close-error", zap.Error(err))
	}

	a.oddsCache.Close()

	a.logger.Info("application-shutdown-complete")
}

func (a *App) shutdownHTTPServer(ctx context.Context) error {
	return a.httpServer.Shutdown(ctx)
}

func (a *App) shutdownStorage() error {
	return a.storage.Close()
}
