package storage

import (
	"context"
	"database/sql"
	"fmt"

	json "github.com/goccy/go-json"
	_ "github.com/lib/pq"
	"github.com/mselser95/sportsbook-arb/internal/arbitrage"
	"go.uber.org/zap"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

const createTableQuery = `
	CREATE TABLE IF NOT EXISTS arbitrage_results (
		id                  UUID PRIMARY KEY,
		scan_id             UUID NOT NULL,
		event_id            TEXT NOT NULL,
		sport_key           TEXT NOT NULL,
		home_team           TEXT,
		away_team           TEXT,
		commence_time       TIMESTAMPTZ,
		implied_probability DOUBLE PRECISION NOT NULL,
		profit_margin       DOUBLE PRECISION NOT NULL,
		profit_bps          INTEGER NOT NULL,
		reference_stake     DOUBLE PRECISION NOT NULL,
		expected_profit     DOUBLE PRECISION NOT NULL,
		price_format        TEXT NOT NULL,
		outcomes            JSONB NOT NULL,
		detected_at         TIMESTAMPTZ NOT NULL
	)
`

const insertResultQuery = `
	INSERT INTO arbitrage_results (
		id, scan_id, event_id, sport_key, home_team, away_team, commence_time,
		implied_probability, profit_margin, profit_bps, reference_stake,
		expected_profit, price_format, outcomes, detected_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
	)
`

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	storage := &PostgresStorage{
		db:     db,
		logger: cfg.Logger,
	}

	err = storage.EnsureSchema(context.Background())
	if err != nil {
		db.Close()
		return nil, err
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return storage, nil
}

// EnsureSchema creates the results table if it does not exist.
func (p *PostgresStorage) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, createTableQuery)
	if err != nil {
		return fmt.Errorf("create arbitrage_results table: %w", err)
	}

	return nil
}

// StoreResults inserts one row per result in a single transaction.
// Outcome legs are stored as a JSONB array.
func (p *PostgresStorage) StoreResults(ctx context.Context, set *arbitrage.ResultSet) error {
	if len(set.Results) == 0 {
		return nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for _, r := range set.Results {
		outcomes, err := json.Marshal(r.Outcomes)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("marshal outcomes for %s: %w", r.EventID, err)
		}

		_, err = tx.ExecContext(ctx, insertResultQuery,
			r.ID,
			set.ScanID,
			r.EventID,
			r.SportKey,
			r.HomeTeam,
			r.AwayTeam,
			r.CommenceTime,
			r.ImpliedProbability,
			r.ProfitMargin,
			r.ProfitBPS,
			r.ReferenceStake,
			r.ExpectedProfit,
			string(r.PriceFormat),
			string(outcomes),
			r.DetectedAt,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert result %s: %w", r.EventID, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	p.logger.Debug("results-stored",
		zap.String("scan-id", set.ScanID),
		zap.Int("count", len(set.Results)))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
