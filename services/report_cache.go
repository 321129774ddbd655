package services

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// DefaultReportTTL is how long a computed report stays valid.
const DefaultReportTTL = time.Hour

// KVStore is the storage the report cache sits on. The production store can
// be anything with get/set/delete semantics; tests use MemoryStore.
type KVStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
	Keys() []string
}

// MemoryStore is an in-process KVStore.
type MemoryStore struct {
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) { m.data[key] = value }
func (m *MemoryStore) Delete(key string)     { delete(m.data, key) }

func (m *MemoryStore) Keys() []string {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}

// cacheEntry is one composite record: payload and expiry live together so a
// reader never sees one without the other.
type cacheEntry struct {
	Payload     json.RawMessage `json:"payload"`
	CachedAtMs  int64           `json:"cached_at_ms"`
	ExpiresAtMs int64           `json:"expires_at_ms"`
}

// ReportCache is a TTL cache for computed report payloads. Eviction is lazy:
// an expired entry is removed by the read that discovers it; there is no
// background sweep. The mutex covers get/put/invalidate because Gin handlers
// run concurrently.
type ReportCache struct {
	mu     sync.Mutex
	store  KVStore
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

func NewReportCache(store KVStore, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &ReportCache{
		store:  store,
		ttl:    ttl,
		prefix: "report:",
		now:    time.Now,
	}
}

func (c *ReportCache) key(reportID string) string {
	return c.prefix + reportID
}

// Put stores a payload stamped with cachedAt = now and expiresAt = now + TTL.
func (c *ReportCache) Put(reportID string, payload json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixMilli()
	entry := cacheEntry{
		Payload:     payload,
		CachedAtMs:  now,
		ExpiresAtMs: now + c.ttl.Milliseconds(),
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return // payload came from json.Marshal upstream, should not happen
	}
	c.store.Set(c.key(reportID), string(b))
}

// Get returns the cached payload or ErrCacheMiss. A past-expiry entry counts
// as a miss and is purged on the spot.
func (c *ReportCache) Get(reportID string) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.store.Get(c.key(reportID))
	if !ok {
		return nil, ErrCacheMiss
	}
	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		c.store.Delete(c.key(reportID))
		return nil, ErrCacheMiss
	}
	if c.now().UnixMilli() > entry.ExpiresAtMs {
		c.store.Delete(c.key(reportID))
		return nil, ErrCacheMiss
	}
	return entry.Payload, nil
}

// Invalidate removes one entry.
func (c *ReportCache) Invalidate(reportID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Delete(c.key(reportID))
}

// InvalidateAll removes every entry under this cache's key namespace and
// nothing else; foreign keys sharing the store are left alone.
func (c *ReportCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.store.Keys() {
		if strings.HasPrefix(k, c.prefix) {
			c.store.Delete(k)
		}
	}
}
