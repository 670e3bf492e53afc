// Package cache keeps recently fetched worklog snapshots per date range so
// repeated requests within the TTL skip the network.
package cache

import (
	"context"
	"errors"
	gosync "sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/worklog-dashboard/internal/model"
	"github.com/nhle/worklog-dashboard/internal/store"
)

// DefaultTTL is how long a fetched range stays fresh.
const DefaultTTL = 5 * time.Minute

// Cache is a TTL cache of snapshots keyed by range key. It consults memory
// first and, when configured, a snapshot store second. It is safe for
// concurrent use.
type Cache struct {
	ttl   time.Duration
	now   func() time.Time
	store store.Store
	log   zerolog.Logger

	mu      gosync.Mutex
	entries map[string]model.Snapshot
}

// Option customizes a Cache.
type Option func(*Cache)

// WithStore persists snapshots and reads fresh ones back on a memory miss.
func WithStore(s store.Store) Option {
	return func(c *Cache) { c.store = s }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger for store failures.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// New creates a cache. A ttl of zero or less uses DefaultTTL.
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		ttl:     ttl,
		now:     time.Now,
		log:     zerolog.Nop(),
		entries: make(map[string]model.Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the snapshot for key if it was fetched less than TTL ago.
// Expired memory entries are removed.
func (c *Cache) Get(ctx context.Context, key string) (*model.Snapshot, bool) {
	c.mu.Lock()
	snap, ok := c.entries[key]
	if ok && !c.fresh(snap) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if ok {
		return &snap, true
	}
	if c.store == nil {
		return nil, false
	}

	stored, err := c.store.GetLatestSnapshot(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.log.Warn().Err(err).Str("range", key).Msg("reading cached snapshot")
		}
		return nil, false
	}
	if !c.fresh(*stored) {
		return nil, false
	}

	c.mu.Lock()
	c.entries[key] = *stored
	c.mu.Unlock()
	return stored, true
}

// Put caches snap under its range key. A store failure is logged and
// does not prevent the in-memory entry.
func (c *Cache) Put(ctx context.Context, snap model.Snapshot) {
	c.mu.Lock()
	c.entries[snap.RangeKey] = snap
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.SaveSnapshot(ctx, snap); err != nil {
		c.log.Warn().Err(err).Str("range", snap.RangeKey).Msg("persisting snapshot")
	}
}

// Invalidate drops key from memory.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Prune removes expired entries from memory and the store.
func (c *Cache) Prune(ctx context.Context) error {
	c.mu.Lock()
	for key, snap := range c.entries {
		if !c.fresh(snap) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	n, err := c.store.PruneSnapshots(ctx, c.now().Add(-c.ttl))
	if err != nil {
		return err
	}
	if n > 0 {
		c.log.Debug().Int64("removed", n).Msg("pruned expired snapshots")
	}
	return nil
}

// Len returns the number of entries held in memory.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) fresh(snap model.Snapshot) bool {
	return c.now().Sub(snap.FetchedAt) <= c.ttl
}
