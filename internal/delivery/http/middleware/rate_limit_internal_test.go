package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupExpired(t *testing.T) {
	cfg := RateLimitConfig{Limit: 5, Window: time.Minute, KeyPrefix: "rl:gc:"}
	now := time.Now()

	t.Run("Should keep entries whose window is still open", func(t *testing.T) {
		key := cfg.KeyPrefix + "active"

		count, _ := checkRateLimitInMemory(key, cfg, now)
		require.Equal(t, 1, count)

		cleanupExpired(now)

		count, _ = checkRateLimitInMemory(key, cfg, now)
		assert.Equal(t, 2, count)
	})

	t.Run("Should drop entries whose window expired", func(t *testing.T) {
		key := cfg.KeyPrefix + "expired"

		checkRateLimitInMemory(key, cfg, now)
		checkRateLimitInMemory(key, cfg, now)

		cleanupExpired(now.Add(2 * time.Minute))

		count, _ := checkRateLimitInMemory(key, cfg, now)
		assert.Equal(t, 1, count)
	})

	t.Run("Should not count against an entry evicted mid-flight", func(t *testing.T) {
		key := cfg.KeyPrefix + "race"

		checkRateLimitInMemory(key, cfg, now)
		// A concurrent request has loaded this pointer but not locked yet
		staleI, ok := rateLimitStore.Load(key)
		require.True(t, ok)
		stale := staleI.(*rateLimitEntry)

		cleanupExpired(now.Add(2 * time.Minute))

		// The late arrival must land on a fresh map entry, not the orphan
		count, _ := checkRateLimitInMemory(key, cfg, now)
		assert.Equal(t, 1, count)

		stale.mu.Lock()
		assert.True(t, stale.evicted)
		stale.mu.Unlock()

		currentI, ok := rateLimitStore.Load(key)
		require.True(t, ok)
		assert.NotSame(t, stale, currentI.(*rateLimitEntry))
	})
}
