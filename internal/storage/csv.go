package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mselser95/sportsbook-arb/internal/arbitrage"
	"github.com/mselser95/sportsbook-arb/internal/report"
	"go.uber.org/zap"
)

// CSVStorage implements Storage by rewriting a CSV spreadsheet on every scan.
type CSVStorage struct {
	path   string
	logger *zap.Logger
}

// NewCSVStorage creates a CSV storage writing to path.
func NewCSVStorage(path string, logger *zap.Logger) *CSVStorage {
	logger.Info("csv-storage-initialized", zap.String("path", path))
	return &CSVStorage{
		path:   path,
		logger: logger,
	}
}

// StoreResults replaces the file with the header and one row per result.
// The file is written to a temporary path and renamed so readers never see
// a partial spreadsheet.
func (s *CSVStorage) StoreResults(ctx context.Context, set *arbitrage.ResultSet) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".bets-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	err = w.WriteAll(report.Table(set))
	if err != nil {
		tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	err = os.Rename(tmp.Name(), s.path)
	if err != nil {
		return fmt.Errorf("rename csv: %w", err)
	}

	s.logger.Debug("results-written-to-csv",
		zap.String("path", s.path),
		zap.Int("rows", len(set.Results)))

	return nil
}

// Close is a no-op for CSV storage.
func (s *CSVStorage) Close() error {
	s.logger.Info("closing-csv-storage")
	return nil
}
