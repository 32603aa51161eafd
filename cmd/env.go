package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/mselser95/sportsbook-arb/pkg/config"
	"go.uber.org/zap"
)

// loadConfig reads .env (if present) and the environment.
func loadConfig() (*config.Config, error) {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return logger, nil
}
