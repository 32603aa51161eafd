package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
	"go.uber.org/zap"
)

// RistrettoCache is a cache implementation using Ristretto.
type RistrettoCache struct {
	cache  *ristretto.Cache
	logger *zap.Logger
}

// RistrettoConfig holds configuration for Ristretto cache.
type RistrettoConfig struct {
	NumCounters int64 // Number of keys to track frequency (10x max items)
	MaxBytes    int64 // Maximum total payload size held
	BufferItems int64 // Number of keys per Get buffer
	Logger      *zap.Logger
}

// NewRistrettoCache creates a new Ristretto-backed cache.
func NewRistrettoCache(cfg *RistrettoConfig) (*RistrettoCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxBytes,
		BufferItems: cfg.BufferItems,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}

	return &RistrettoCache{
		cache:  cache,
		logger: cfg.Logger,
	}, nil
}

// Get retrieves a payload from the cache.
func (r *RistrettoCache) Get(key string) ([]byte, bool) {
	value, found := r.cache.Get(key)
	if !found {
		CacheMissesTotal.Inc()
		r.logger.Debug("cache-miss", zap.String("key", key))
		return nil, false
	}

	payload, ok := value.([]byte)
	if !ok {
		CacheMissesTotal.Inc()
		r.cache.Del(key)
		return nil, false
	}

	CacheHitsTotal.Inc()
	r.logger.Debug("cache-hit", zap.String("key", key), zap.Int("bytes", len(payload)))
	return payload, true
}

// Set stores a payload with a TTL. A non-positive TTL stores nothing.
func (r *RistrettoCache) Set(key string, payload []byte, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}

	success := r.cache.SetWithTTL(key, payload, int64(len(payload)), ttl)
	if success {
		CacheSetsTotal.Inc()
		CacheBytesStored.Add(float64(len(payload)))
		r.logger.Debug("cache-set",
			zap.String("key", key),
			zap.Int("bytes", len(payload)),
			zap.Duration("ttl", ttl))
	}
	return success
}

// Delete removes a payload from the cache.
func (r *RistrettoCache) Delete(key string) {
	r.cache.Del(key)
	CacheDeletesTotal.Inc()
	r.logger.Debug("cache-delete", zap.String("key", key))
}

// Clear removes all payloads from the cache.
func (r *RistrettoCache) Clear() {
	r.cache.Clear()
	r.logger.Info("cache-cleared")
}

// Close closes the cache and releases resources.
func (r *RistrettoCache) Close() {
	r.cache.Close()
	r.logger.Info("cache-closed")
}

// Metrics returns Ristretto's internal metrics.
func (r *RistrettoCache) Metrics() *ristretto.Metrics {
	return r.cache.Metrics
}

// Wait blocks until all pending writes have been applied.
func (r *RistrettoCache) Wait() {
	r.cache.Wait()
}
