package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultTTL applies when Set is called without a TTL.
const DefaultTTL = 30 * time.Minute

// MemoryCache keeps document payloads in memory, bounded by total size.
// When full it evicts expired entries first and then the least recently
// used ones. Expired entries are also dropped by Sweep, which the server
// runs on its cleanup schedule.
type MemoryCache struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	lru      *list.List // front is most recently used
	maxBytes int64
	size     int64
	stats    CacheStats
	now      func() time.Time
}

type entry struct {
	key    string
	value  []byte
	expiry time.Time
}

func (e *entry) size() int64 {
	return int64(len(e.key) + len(e.value))
}

// NewMemoryCache creates a cache holding at most maxSizeMB megabytes
// (0 means unbounded).
func NewMemoryCache(maxSizeMB int64) *MemoryCache {
	return &MemoryCache{
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
		maxBytes: maxSizeMB << 20,
		now:      time.Now,
	}
}

// Get returns the value stored under key and marks it recently used.
func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	el, ok := mc.entries[key]
	if !ok {
		mc.stats.Misses++
		return nil, false
	}
	e := el.Value.(*entry)
	if !mc.now().Before(e.expiry) {
		mc.remove(el)
		mc.stats.Evictions++
		mc.stats.Misses++
		return nil, false
	}

	mc.lru.MoveToFront(el)
	mc.stats.Hits++
	return e.value, true
}

// Set stores value under key for ttl (DefaultTTL when ttl <= 0). A value
// larger than the whole cache is not stored.
func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	e := &entry{key: key, value: value, expiry: mc.now().Add(ttl)}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if el, ok := mc.entries[key]; ok {
		mc.remove(el)
	}
	if mc.maxBytes > 0 && e.size() > mc.maxBytes {
		return nil
	}
	mc.makeRoom(e.size())

	mc.entries[key] = mc.lru.PushFront(e)
	mc.size += e.size()
	mc.stats.Sets++
	return nil
}

// Delete removes the value stored under key.
func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if el, ok := mc.entries[key]; ok {
		mc.remove(el)
		mc.stats.Deletes++
	}
	return nil
}

// DeletePrefix removes every value whose key starts with prefix.
func (mc *MemoryCache) DeletePrefix(ctx context.Context, prefix string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for key, el := range mc.entries {
		if strings.HasPrefix(key, prefix) {
			mc.remove(el)
			mc.stats.Deletes++
		}
	}
	return nil
}

// Clear removes all values.
func (mc *MemoryCache) Clear(ctx context.Context) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.entries = make(map[string]*list.Element)
	mc.lru.Init()
	mc.size = 0
	return nil
}

// Has reports whether a live value is stored under key. It does not count
// as a use.
func (mc *MemoryCache) Has(ctx context.Context, key string) bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	el, ok := mc.entries[key]
	return ok && mc.now().Before(el.Value.(*entry).expiry)
}

// Stats returns a snapshot of the cache counters.
func (mc *MemoryCache) Stats() CacheStats {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	stats := mc.stats
	stats.Size = mc.size
	stats.MaxSize = mc.maxBytes
	return stats
}

// Sweep drops the entries that expired at or before now and returns how
// many were dropped. Its signature matches cleanup.Task.
func (mc *MemoryCache) Sweep(now time.Time) int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.sweep(now)
}

func (mc *MemoryCache) sweep(now time.Time) int {
	removed := 0
	for _, el := range mc.entries {
		if !now.Before(el.Value.(*entry).expiry) {
			mc.remove(el)
			removed++
		}
	}
	mc.stats.Evictions += int64(removed)
	return removed
}

// makeRoom evicts until need more bytes fit. Callers hold mu.
func (mc *MemoryCache) makeRoom(need int64) {
	if mc.maxBytes <= 0 || mc.size+need <= mc.maxBytes {
		return
	}
	mc.sweep(mc.now())
	for mc.size+need > mc.maxBytes {
		oldest := mc.lru.Back()
		if oldest == nil {
			return
		}
		mc.remove(oldest)
		mc.stats.Evictions++
	}
}

func (mc *MemoryCache) remove(el *list.Element) {
	e := mc.lru.Remove(el).(*entry)
	delete(mc.entries, e.key)
	mc.size -= e.size()
}
