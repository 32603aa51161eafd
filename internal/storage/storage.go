package storage

import (
	"context"

	"github.com/mselser95/sportsbook-arb/internal/arbitrage"
)

// Storage is the interface for persisting arbitrage result sets.
type Storage interface {
	// StoreResults stores every result of one scan.
	StoreResults(ctx context.Context, set *arbitrage.ResultSet) error

	// Close closes the storage connection.
	Close() error
}
