// Package memory provides the in-memory plan cache
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mealforge/v1/internal/ports/outbound"
)

// CacheItem represents a cached item
type CacheItem struct {
	Value     []byte
	ExpiresAt time.Time
}

// CacheRepository implements outbound.CacheRepository in process memory.
// Used when no Redis is configured and in tests.
type CacheRepository struct {
	data  map[string]CacheItem
	mutex sync.RWMutex

	stop     chan struct{}
	stopOnce sync.Once
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// NewCacheRepository creates a new in-memory cache repository
func NewCacheRepository() *CacheRepository {
	repo := &CacheRepository{
		data: make(map[string]CacheItem),
		stop: make(chan struct{}),
	}

	// Start cleanup goroutine
	go repo.cleanup()

	return repo
}

// Close stops the expiry janitor. Safe to call more than once.
func (r *CacheRepository) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Get retrieves a value from cache; the second return reports a hit.
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	r.mutex.RLock()
	item, exists := r.data[key]
	r.mutex.RUnlock()

	if !exists || time.Now().After(item.ExpiresAt) {
		return nil, false, nil
	}
	return item.Value, true, nil
}

// Set stores a value in cache with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	expiresAt := time.Now().Add(ttl)
	if ttl == 0 {
		expiresAt = time.Now().Add(24 * time.Hour)
	}

	r.data[key] = CacheItem{
		Value:     value,
		ExpiresAt: expiresAt,
	}

	return nil
}

// Flush drops all cached entries
func (r *CacheRepository) Flush(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.data = make(map[string]CacheItem)
	return nil
}

// cleanup periodically removes expired items until Close is called
func (r *CacheRepository) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.mutex.Lock()
			now := time.Now()
			for key, item := range r.data {
				if now.After(item.ExpiresAt) {
					delete(r.data, key)
				}
			}
			r.mutex.Unlock()
		}
	}
}
