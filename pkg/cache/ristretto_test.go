package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) *RistrettoCache {
	t.Helper()
	cache, err := NewRistrettoCache(&RistrettoConfig{
		NumCounters: 1000,
		MaxBytes:    1 << 20,
		BufferItems: 64,
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	return cache
}

func TestRistrettoCache(t *testing.T) {
	cache := newTestCache(t)

	t.Run("set-and-get", func(t *testing.T) {
		payload := []byte(`[{"id":"evt-1"}]`)

		ok := cache.Set("odds:upcoming", payload, time.Hour)
		require.True(t, ok)

		// Wait for Ristretto to process pending writes
		cache.Wait()

		got, found := cache.Get("odds:upcoming")
		require.True(t, found)
		assert.Equal(t, payload, got)
	})

	t.Run("get-missing-key", func(t *testing.T) {
		_, found := cache.Get("nonexistent")
		assert.False(t, found)
	})

	t.Run("zero-ttl-not-stored", func(t *testing.T) {
		ok := cache.Set("no-ttl", []byte("x"), 0)
		assert.False(t, ok)

		cache.Wait()
		_, found := cache.Get("no-ttl")
		assert.False(t, found)
	})

	t.Run("delete", func(t *testing.T) {
		cache.Set("delete-test", []byte("payload"), time.Hour)
		cache.Wait()

		_, found := cache.Get("delete-test")
		require.True(t, found)

		cache.Delete("delete-test")

		_, found = cache.Get("delete-test")
		assert.False(t, found)
	})

	t.Run("ttl-expiration", func(t *testing.T) {
		cache.Set("ttl-test", []byte("payload"), 200*time.Millisecond)
		cache.Wait()

		_, found := cache.Get("ttl-test")
		require.True(t, found)

		time.Sleep(1500 * time.Millisecond)

		_, found = cache.Get("ttl-test")
		assert.False(t, found)
	})

	t.Run("clear", func(t *testing.T) {
		cache.Set("clear-key1", []byte("value1"), time.Hour)
		cache.Set("clear-key2", []byte("value2"), time.Hour)
		cache.Wait()

		_, found1 := cache.Get("clear-key1")
		_, found2 := cache.Get("clear-key2")
		if !found1 || !found2 {
			t.Skip("Ristretto probabilistic admission - some keys not admitted")
		}

		cache.Clear()

		_, found1 = cache.Get("clear-key1")
		_, found2 = cache.Get("clear-key2")
		assert.False(t, found1 || found2)
	})
}
