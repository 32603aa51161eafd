package cmd

import (
	"fmt"

	"github.com/mselser95/sportsbook-arb/internal/app"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the arbitrage scanner service",
	Long: `Starts the long-running scanner, which will:
1. Fetch odds from the odds API every SCAN_INTERVAL
2. Pick the best price per outcome across bookmakers
3. Detect events whose best prices imply a guaranteed profit
4. Store the opportunities (console, csv or postgres)

The latest results are served at /api/opportunities, with metrics at /metrics.`,
	RunE: runService,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
}

func runService(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
