package timeback

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/timeback/internal/constants"
)

// Cache errors.
var (
	ErrCacheKeyNotFound      = errors.New("key not found")
	ErrCacheEntryExpired     = errors.New("entry expired")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
	ErrCacheValueTooLarge    = errors.New("cache value too large")
)

// CacheEntry is a cached response body.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
}

// Expired reports whether the entry is past its expiry.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// Cache stores GET response bodies keyed by request.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheKey builds the key of a request: method, path and the encoded query.
func CacheKey(method, path, rawQuery string) string {
	key := strings.ToUpper(method) + ":" + path
	if rawQuery != "" {
		key += "?" + rawQuery
	}

	return key
}

// CacheNamespace derives a short opaque prefix from the identity a client authenticates as.
func CacheNamespace(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))

	return hex.EncodeToString(sum[:8])
}

// MemoryCache is a bounded in-process cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*memoryItem
	maxSize int
	seq     uint64
	now     func() time.Time
}

type memoryItem struct {
	entry *CacheEntry
	added uint64
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = constants.DefaultCacheSize
	}

	return &MemoryCache{
		entries: make(map[string]*memoryItem),
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns a live entry.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	item, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if item.entry.Expired(c.now()) {
		_ = c.Delete(ctx, key)

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return item.entry, nil
}

// Set stores entry, evicting expired entries first and then the oldest one when full.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	if len(entry.Data) > constants.MaxCacheValueSize {
		return fmt.Errorf("%w: %d bytes", ErrCacheValueTooLarge, len(entry.Data))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.cleanupLocked()

		if len(c.entries) >= c.maxSize {
			c.evictOldestLocked()
		}
	}

	c.seq++
	c.entries[key] = &memoryItem{entry: entry, added: c.seq}

	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	return nil
}

// Clear removes everything.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]*memoryItem)
	c.mu.Unlock()

	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Cleanup drops expired entries.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	c.cleanupLocked()
	c.mu.Unlock()
}

func (c *MemoryCache) cleanupLocked() {
	now := c.now()
	for key, item := range c.entries {
		if item.entry.Expired(now) {
			delete(c.entries, key)
		}
	}
}

func (c *MemoryCache) evictOldestLocked() {
	var (
		oldestKey string
		oldest    uint64
	)

	for key, item := range c.entries {
		if oldestKey == "" || item.added < oldest {
			oldestKey, oldest = key, item.added
		}
	}

	delete(c.entries, oldestKey)
}

// NoOpCache is a cache that does nothing (no caching).
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always returns an error (nothing cached).
func (c *NoOpCache) Get(context.Context, string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

func (c *NoOpCache) Set(context.Context, string, *CacheEntry) error { return nil }
func (c *NoOpCache) Delete(context.Context, string) error            { return nil }
func (c *NoOpCache) Clear(context.Context) error                     { return nil }
func (c *NoOpCache) Has(context.Context, string) bool                { return false }

// CacheChain layers caches; reads go front to back and backfill the faster layers.
type CacheChain struct {
	caches []Cache
}

// NewCacheChain creates a new cache chain.
func NewCacheChain(caches ...Cache) *CacheChain {
	return &CacheChain{caches: caches}
}

// Get returns the first hit.
func (c *CacheChain) Get(ctx context.Context, key string) (*CacheEntry, error) {
	for i, cache := range c.caches {
		entry, err := cache.Get(ctx, key)
		if err != nil {
			continue
		}

		for j := range i {
			_ = c.caches[j].Set(ctx, key, entry)
		}

		return entry, nil
	}

	return nil, ErrKeyNotFoundInAnyCache
}

// Set writes to every layer and returns the first failure.
func (c *CacheChain) Set(ctx context.Context, key string, entry *CacheEntry) error {
	var firstErr error

	for _, cache := range c.caches {
		err := cache.Set(ctx, key, entry)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Delete removes key from every layer.
func (c *CacheChain) Delete(ctx context.Context, key string) error {
	var firstErr error

	for _, cache := range c.caches {
		err := cache.Delete(ctx, key)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Clear empties every layer.
func (c *CacheChain) Clear(ctx context.Context) error {
	var firstErr error

	for _, cache := range c.caches {
		err := cache.Clear(ctx)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Has reports whether any layer holds key.
func (c *CacheChain) Has(ctx context.Context, key string) bool {
	for _, cache := range c.caches {
		if cache.Has(ctx, key) {
			return true
		}
	}

	return false
}

// CachingPolicy decides which responses are cached.
type CachingPolicy struct {
	CacheErrors  bool
	IncludePaths []string
	ExcludePaths []string
}

// DefaultCachingPolicy caches successful reads of every path.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{}
}

// ShouldCache reports whether a response may be stored. Only GET responses are ever cached.
func (p *CachingPolicy) ShouldCache(method, path string, statusCode int) bool {
	if method != http.MethodGet {
		return false
	}

	if statusCode >= http.StatusBadRequest && !p.CacheErrors {
		return false
	}

	for _, excluded := range p.ExcludePaths {
		if strings.HasPrefix(path, excluded) {
			return false
		}
	}

	if len(p.IncludePaths) == 0 {
		return true
	}

	for _, included := range p.IncludePaths {
		if strings.HasPrefix(path, included) {
			return true
		}
	}

	return false
}

// CacheType represents the type of cache backend.
type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeNATS   CacheType = "nats"
	CacheTypeNone   CacheType = "none"
)

// CacheConfig configures a cache backend.
type CacheConfig struct {
	Type    CacheType
	MaxSize int
	NATS    *NATSKVConfig
}

// NewCacheFromConfig creates a cache backend from configuration. A nil config gives a memory cache.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = &CacheConfig{Type: CacheTypeMemory, MaxSize: constants.DefaultCacheSize}
	}

	switch config.Type {
	case CacheTypeMemory, "":
		return NewMemoryCache(config.MaxSize), nil
	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVCache(config.NATS)
	case CacheTypeNone:
		return NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}
