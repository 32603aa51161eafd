package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mselser95/sportsbook-arb/internal/arbitrage"
	"github.com/mselser95/sportsbook-arb/internal/report"
	"go.uber.org/zap"
)

const divider = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// ConsoleStorage implements Storage by printing a table to a writer.
type ConsoleStorage struct {
	out    io.Writer
	logger *zap.Logger
}

// NewConsoleStorage creates a console storage writing to stdout.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	return NewConsoleStorageWithWriter(os.Stdout, logger)
}

// NewConsoleStorageWithWriter creates a console storage writing to out.
func NewConsoleStorageWithWriter(out io.Writer, logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		out:    out,
		logger: logger,
	}
}

// StoreResults prints the result set as an aligned table.
func (c *ConsoleStorage) StoreResults(ctx context.Context, set *arbitrage.ResultSet) error {
	fmt.Fprintln(c.out, divider)
	fmt.Fprintf(c.out, "🎯 %d ARBITRAGE OPPORTUNITIES (%d events scanned, stake $%.2f, %s odds)\n",
		set.Count, set.EventsProcessed, set.ReferenceStake, set.PriceFormat)
	fmt.Fprintln(c.out, divider)

	if len(set.Results) == 0 {
		fmt.Fprintln(c.out, "No arbitrage opportunities found.")
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	for _, row := range report.Table(set) {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	err := tw.Flush()
	if err != nil {
		return fmt.Errorf("flush table: %w", err)
	}

	fmt.Fprintln(c.out, divider)

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
