package arbitrage

import (
	"context"
	"sync"
)

// MockStorage is an in-memory storage implementation for testing.
// This mock lives in the arbitrage package to avoid import cycles.
type MockStorage struct {
	Sets   []*ResultSet
	Err    error // Returned by StoreResults when set
	Closed bool
	mu     sync.Mutex
}

// NewMockStorage creates a new mock storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		Sets: make([]*ResultSet, 0),
	}
}

// StoreResults stores a result set in memory.
func (m *MockStorage) StoreResults(ctx context.Context, set *ResultSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.Sets = append(m.Sets, set)
	return nil
}

// Close marks the storage closed.
func (m *MockStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// GetSets returns all stored result sets.
func (m *MockStorage) GetSets() []*ResultSet {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*ResultSet, len(m.Sets))
	copy(result, m.Sets)
	return result
}
