// Package cache keeps rendered public GET responses in a ristretto cache and
// drops them when a change event names their view.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/cuongbtq/job-board/internal/config"
	"github.com/cuongbtq/job-board/internal/events"
)

const (
	defaultTTL            = time.Minute
	defaultMaxCost        = 32 << 20
	defaultMaxKeysPerView = 1024
)

// Entry is one cached response
type Entry struct {
	Status      int
	ContentType string
	Body        []byte
}

// ViewCache maps request keys to responses and remembers which view each
// key belongs to, with the time the key expires
type ViewCache struct {
	cache          *ristretto.Cache
	ttl            time.Duration
	maxKeysPerView int
	logger         *slog.Logger
	now            func() time.Time

	mu          sync.Mutex
	keys        map[string]map[string]time.Time
	generations map[string]uint64
}

func New(cfg config.CacheConfig, logger *slog.Logger) (*ViewCache, error) {
	maxCost := cfg.MaxCost
	if maxCost <= 0 {
		maxCost = defaultMaxCost
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	maxKeys := cfg.MaxKeysPerView
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeysPerView
	}

	rc, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create view cache: %w", err)
	}

	return &ViewCache{
		cache:          rc,
		ttl:            ttl,
		maxKeysPerView: maxKeys,
		logger:         logger,
		now:            time.Now,
		keys:           make(map[string]map[string]time.Time),
		generations:    make(map[string]uint64),
	}, nil
}

func (v *ViewCache) Get(key string) (*Entry, bool) {
	value, ok := v.cache.Get(key)
	if !ok {
		return nil, false
	}
	entry, ok := value.(*Entry)
	return entry, ok
}

// Generation returns a token that changes every time view is invalidated
func (v *ViewCache) Generation(view string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.generations[view]
}

// Set stores entry under key unless view was invalidated after generation
// was read or the view already indexes maxKeysPerView unexpired keys. Stores
// are applied asynchronously.
func (v *ViewCache) Set(view string, generation uint64, key string, entry *Entry) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.generations[view] != generation {
		return false
	}
	now := v.now()
	keys := v.keys[view]
	if _, indexed := keys[key]; !indexed && len(keys) >= v.maxKeysPerView {
		for k, expiresAt := range keys {
			if !now.Before(expiresAt) {
				delete(keys, k)
			}
		}
		if len(keys) >= v.maxKeysPerView {
			return false
		}
	}
	if !v.cache.SetWithTTL(key, entry, int64(len(entry.Body))+1, v.ttl) {
		return false
	}
	if keys == nil {
		keys = make(map[string]time.Time)
		v.keys[view] = keys
	}
	keys[key] = now.Add(v.ttl)
	return true
}

// indexedKeys reports how many keys view currently tracks
func (v *ViewCache) indexedKeys(view string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.keys[view])
}

// Invalidate drops every cached key of the given views
func (v *ViewCache) Invalidate(views ...string) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	dropped := 0
	for _, view := range views {
		v.generations[view]++
		for key := range v.keys[view] {
			v.cache.Del(key)
			dropped++
		}
		delete(v.keys, view)
	}
	return dropped
}

// Publish implements events.Publisher
func (v *ViewCache) Publish(ctx context.Context, event events.Event) error {
	dropped := v.Invalidate(event.Views...)
	v.logger.Debug("View cache invalidated",
		slog.String("event_type", event.Type),
		slog.Any("views", event.Views),
		slog.Int("keys", dropped),
	)
	return nil
}

// Wait blocks until pending stores are applied
func (v *ViewCache) Wait() {
	v.cache.Wait()
}

func (v *ViewCache) Close() {
	v.cache.Close()
}
