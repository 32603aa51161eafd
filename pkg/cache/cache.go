package cache

import "time"

// Cache stores raw odds API response bodies keyed by request.
type Cache interface {
	// Get retrieves a payload from the cache.
	// Returns (payload, true) if found, (nil, false) if not found.
	Get(key string) ([]byte, bool)

	// Set stores a payload with a TTL. Cost is the payload size in bytes.
	Set(key string, payload []byte, ttl time.Duration) bool

	// Delete removes a payload from the cache.
	Delete(key string)

	// Clear removes all payloads from the cache.
	Clear()

	// Close closes the cache and releases resources.
	Close()
}
