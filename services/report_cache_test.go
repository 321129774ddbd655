package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCache(ttl time.Duration) (*ReportCache, *MemoryStore, *time.Time) {
	store := NewMemoryStore()
	cache := NewReportCache(store, ttl)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	return cache, store, &now
}

func TestCachePutGetWithinTTL(t *testing.T) {
	cache, _, _ := testCache(time.Hour)

	cache.Put("r1", json.RawMessage(`{"hello":"world"}`))
	payload, err := cache.Get("r1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"hello":"world"}`, string(payload))
}

func TestCacheMissOnUnknownKey(t *testing.T) {
	cache, _, _ := testCache(time.Hour)

	_, err := cache.Get("never-put")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheExpiryIsLazyEviction(t *testing.T) {
	cache, store, now := testCache(time.Hour)

	cache.Put("r1", json.RawMessage(`{"x":1}`))

	// One millisecond past the 3,600,000 ms TTL.
	*now = now.Add(time.Hour + time.Millisecond)

	_, err := cache.Get("r1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// The expired entry was purged by the read itself.
	_, stillThere := store.Get("report:r1")
	assert.False(t, stillThere)
}

func TestCacheEntryStampsExpiry(t *testing.T) {
	cache, store, now := testCache(time.Hour)

	cache.Put("r1", json.RawMessage(`{}`))

	raw, ok := store.Get("report:r1")
	require.True(t, ok)
	var entry cacheEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	assert.Equal(t, now.UnixMilli(), entry.CachedAtMs)
	assert.Equal(t, now.UnixMilli()+3_600_000, entry.ExpiresAtMs)
}

func TestCacheInvalidateSingle(t *testing.T) {
	cache, _, _ := testCache(time.Hour)

	cache.Put("r1", json.RawMessage(`{"a":1}`))
	cache.Put("r2", json.RawMessage(`{"b":2}`))

	cache.Invalidate("r1")

	_, err := cache.Get("r1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = cache.Get("r2")
	assert.NoError(t, err)
}

func TestCacheInvalidateAllLeavesForeignKeys(t *testing.T) {
	cache, store, _ := testCache(time.Hour)

	cache.Put("r1", json.RawMessage(`{"a":1}`))
	cache.Put("r2", json.RawMessage(`{"b":2}`))
	store.Set("session:abc", "unrelated")

	cache.InvalidateAll()

	_, err := cache.Get("r1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = cache.Get("r2")
	assert.ErrorIs(t, err, ErrCacheMiss)

	v, ok := store.Get("session:abc")
	require.True(t, ok, "keys outside the cache namespace must survive")
	assert.Equal(t, "unrelated", v)
}

func TestCacheOverwriteRestampsTTL(t *testing.T) {
	cache, _, now := testCache(time.Hour)

	cache.Put("r1", json.RawMessage(`{"v":1}`))
	*now = now.Add(50 * time.Minute)
	cache.Put("r1", json.RawMessage(`{"v":2}`))

	// 70 minutes after the first put, 20 after the second: still live.
	*now = now.Add(20 * time.Minute)
	payload, err := cache.Get("r1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(payload))
}
