package cmd

import (
	"context"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/mselser95/sportsbook-arb/internal/app"
	"github.com/mselser95/sportsbook-arb/internal/arbitrage"
	"github.com/mselser95/sportsbook-arb/internal/oddsapi"
	"github.com/mselser95/sportsbook-arb/internal/scanner"
	"github.com/mselser95/sportsbook-arb/internal/storage"
	"github.com/mselser95/sportsbook-arb/pkg/config"
	"github.com/mselser95/sportsbook-arb/pkg/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single arbitrage scan and print the results",
	Long: `Fetches odds once, runs the arbitrage pipeline and prints every
opportunity as a table.

Use --input to scan a saved odds API response instead of calling the API.
Use --output to write the table as CSV, or --json for the full result set.`,
	RunE: runScan,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(scanCmd)
	addScanFlags(scanCmd)
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "Read events from a saved odds API JSON response")
	cmd.Flags().StringP("format", "f", "", "Price display format: decimal or moneyline (default ARB_PRICE_FORMAT)")
	cmd.Flags().Float64("stake", 0, "Total reference stake (default ARB_REFERENCE_STAKE)")
	cmd.Flags().StringP("market", "m", "", "Market key to compare, e.g. h2h (default ARB_MARKET_KEY)")
	cmd.Flags().StringP("sport", "s", "", "Sport key to fetch (default ODDS_SPORT)")
	cmd.Flags().StringP("output", "o", "", "Write results to this CSV file instead of the console")
	cmd.Flags().Bool("json", false, "Print the full result set as JSON")
}

// fileFetcher serves events from a saved API response.
type fileFetcher struct {
	path   string
	logger *zap.Logger
}

func (f *fileFetcher) FetchOdds(ctx context.Context, req oddsapi.OddsRequest) ([]types.Event, error) {
	return oddsapi.LoadEvents(f.path, f.logger)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	err = applyScanFlags(cmd, cfg)
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

	input, _ := cmd.Flags().GetString("input")
	asJSON, _ := cmd.Flags().GetBool("json")

	fetcher, err := newFetcher(cfg, input, logger)
	if err != nil {
		return err
	}

	pipeline, err := app.SetupPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("setup pipeline: %w", err)
	}

	var resultStorage storage.Storage
	if !asJSON {
		resultStorage, err = newScanStorage(cmd.OutOrStdout(), cfg, logger)
		if err != nil {
			return fmt.Errorf("setup storage: %w", err)
		}
		defer resultStorage.Close()
	}

	svc := scanner.New(&scanner.Config{
		Fetcher:  fetcher,
		Pipeline: pipeline,
		Storage:  resultStorage,
		Request: oddsapi.OddsRequest{
			Sport:   cfg.OddsSport,
			Regions: cfg.OddsRegions,
			Markets: cfg.OddsMarkets,
		},
		Interval: cfg.ScanInterval,
		Logger:   logger,
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.OddsRequestTimeout)
	defer cancel()

	set, err := svc.ScanOnce(ctx)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if asJSON {
		return writeResultSetJSON(cmd.OutOrStdout(), set)
	}

	if cfg.StorageMode == "csv" {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d opportunities to %s\n", set.Count, cfg.CSVOutputPath)
	}

	return nil
}

// applyScanFlags overrides configuration with any flags the user set.
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("format") {
		cfg.ArbPriceFormat, _ = flags.GetString("format")
	}

	if flags.Changed("stake") {
		stake, _ := flags.GetFloat64("stake")
		if stake <= 0 {
			return fmt.Errorf("--stake must be positive, got %v", stake)
		}
		cfg.ArbReferenceStake = stake
	}

	if flags.Changed("market") {
		cfg.ArbMarketKey, _ = flags.GetString("market")
	}

	if flags.Changed("sport") {
		cfg.OddsSport, _ = flags.GetString("sport")
	}

	if flags.Changed("output") {
		cfg.CSVOutputPath, _ = flags.GetString("output")
		cfg.StorageMode = "csv"
	}

	return nil
}

// newScanStorage builds the configured storage, printing console tables to out.
func newScanStorage(out io.Writer, cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "console" || cfg.StorageMode == "" {
		return storage.NewConsoleStorageWithWriter(out, logger), nil
	}

	return app.SetupStorage(cfg, logger)
}

// newFetcher returns a file fetcher when input is set, an API client otherwise.
func newFetcher(cfg *config.Config, input string, logger *zap.Logger) (scanner.Fetcher, error) {
	if input != "" {
		return &fileFetcher{path: input, logger: logger}, nil
	}

	if cfg.OddsAPIKey == "" {
		return nil, fmt.Errorf("%w: set ODDS_API_KEY or ODDS_API_KEY_FILE, or use --input", oddsapi.ErrMissingAPIKey)
	}

	return oddsapi.NewClient(&oddsapi.Config{
		BaseURL: cfg.OddsAPIURL,
		APIKey:  cfg.OddsAPIKey,
		Timeout: cfg.OddsRequestTimeout,
		Logger:  logger,
	}), nil
}

func writeResultSetJSON(w io.Writer, set *arbitrage.ResultSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(set)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	return nil
}
