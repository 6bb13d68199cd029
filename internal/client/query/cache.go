// Package query caches authenticated remote reads by resource name.
//
// A result stays fresh for the stale time; after that the next read
// refetches. Concurrent reads of one key share a single fetch. Terminal
// failures (unauthorized, rate limited) are remembered and returned without
// calling the backend again until the key is invalidated or the cache reset.
package query

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultStaleTime is the freshness window of a cached result.
const DefaultStaleTime = 5 * time.Minute

// FetchFunc loads the value of one key.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	value     any
	err       error
	fetchedAt time.Time
}

type Cache struct {
	mu        sync.Mutex
	entries   map[string]entry
	gen       uint64
	keyGen    map[string]uint64
	staleTime time.Duration
	terminal  func(error) bool
	now       func() time.Time
	group     singleflight.Group
}

type Option func(*Cache)

// WithTerminal sets the predicate for errors that are cached and never
// retried automatically.
func WithTerminal(fn func(error) bool) Option {
	return func(c *Cache) { c.terminal = fn }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(staleTime time.Duration, opts ...Option) *Cache {
	if staleTime <= 0 {
		staleTime = DefaultStaleTime
	}
	c := &Cache{
		entries:   make(map[string]entry),
		keyGen:    make(map[string]uint64),
		staleTime: staleTime,
		terminal:  func(error) bool { return false },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the cached value of key, calling fetch when there is none or
// it went stale. Non-terminal errors are not cached.
func (c *Cache) Fetch(ctx context.Context, key string, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	gen, kgen := c.gen, c.keyGen[key]
	c.mu.Unlock()

	if ok && (e.err != nil || c.now().Sub(e.fetchedAt) < c.staleTime) {
		return e.value, e.err
	}

	flight := key + "#" + strconv.FormatUint(gen, 10) + "." + strconv.FormatUint(kgen, 10)
	v, err, _ := c.group.Do(flight, func() (any, error) {
		v, err := fetch(ctx)
		if err != nil && !c.terminal(err) {
			return nil, err
		}

		c.mu.Lock()
		if c.gen == gen && c.keyGen[key] == kgen {
			c.entries[key] = entry{value: v, err: err, fetchedAt: c.now()}
		}
		c.mu.Unlock()
		return v, err
	})
	return v, err
}

// Invalidate drops keys so the next Fetch reloads them. Fetches of those
// keys in flight at the time of the call are neither joined nor stored.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.keyGen[k]++
	}
}

// Reset drops every entry. Fetches in flight at the time of the call do not
// populate the cache.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.gen++
}
