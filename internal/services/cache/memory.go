package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTTL applies when Set is called with a non-positive ttl
const DefaultTTL = time.Minute

// MemoryCache implements Cache in process memory
type MemoryCache struct {
	mu       sync.RWMutex
	items    map[string]*entry
	maxBytes int64
	size     int64
	stats    Stats
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type entry struct {
	value  []byte
	expiry time.Time
	size   int64
}

// NewMemoryCache creates an in-memory cache bounded to maxSizeMB megabytes.
// A non-positive size disables the bound.
func NewMemoryCache(maxSizeMB int64, sweepInterval time.Duration) *MemoryCache {
	mc := &MemoryCache{
		items:    make(map[string]*entry),
		maxBytes: maxSizeMB * 1024 * 1024,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	if sweepInterval > 0 {
		mc.wg.Add(1)
		go mc.sweep(sweepInterval)
	}

	return mc
}

// Get retrieves a value from the cache
func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	mc.mu.RLock()
	item, ok := mc.items[key]
	mc.mu.RUnlock()

	if !ok || mc.now().After(item.expiry) {
		if ok {
			_ = mc.Delete(ctx, key)
		}
		atomic.AddInt64(&mc.stats.Misses, 1)
		return nil, false
	}

	atomic.AddInt64(&mc.stats.Hits, 1)
	return item.value, true
}

// Set stores a value in the cache with a TTL
func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	item := &entry{
		value:  append([]byte(nil), value...),
		expiry: mc.now().Add(ttl),
		size:   int64(len(key) + len(value)),
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if old, ok := mc.items[key]; ok {
		mc.size -= old.size
		delete(mc.items, key)
	}
	mc.evictFor(item.size)
	mc.items[key] = item
	mc.size += item.size

	atomic.AddInt64(&mc.stats.Sets, 1)
	return nil
}

// Delete removes a value from the cache
func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	if item, ok := mc.items[key]; ok {
		delete(mc.items, key)
		mc.size -= item.size
	}
	mc.mu.Unlock()
	return nil
}

// Stats returns cache statistics
func (mc *MemoryCache) Stats() Stats {
	mc.mu.RLock()
	size := mc.size
	mc.mu.RUnlock()

	return Stats{
		Hits:      atomic.LoadInt64(&mc.stats.Hits),
		Misses:    atomic.LoadInt64(&mc.stats.Misses),
		Sets:      atomic.LoadInt64(&mc.stats.Sets),
		Evictions: atomic.LoadInt64(&mc.stats.Evictions),
		Size:      size,
	}
}

// Close stops the sweeper goroutine. It is safe to call more than once.
func (mc *MemoryCache) Close() {
	mc.stopOnce.Do(func() {
		close(mc.stopCh)
	})
	mc.wg.Wait()
}

func (mc *MemoryCache) sweep(interval time.Duration) {
	defer mc.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.mu.Lock()
			mc.removeExpired()
			mc.mu.Unlock()
		case <-mc.stopCh:
			return
		}
	}
}

// removeExpired drops expired items. Callers hold mc.mu.
func (mc *MemoryCache) removeExpired() {
	now := mc.now()
	for key, item := range mc.items {
		if now.After(item.expiry) {
			delete(mc.items, key)
			mc.size -= item.size
			atomic.AddInt64(&mc.stats.Evictions, 1)
		}
	}
}

// evictFor makes room for needed bytes, expired items first. Callers hold mc.mu.
func (mc *MemoryCache) evictFor(needed int64) {
	if mc.maxBytes <= 0 || mc.size+needed <= mc.maxBytes {
		return
	}

	mc.removeExpired()

	for key, item := range mc.items {
		if mc.size+needed <= mc.maxBytes {
			return
		}
		delete(mc.items, key)
		mc.size -= item.size
		atomic.AddInt64(&mc.stats.Evictions, 1)
	}
}
