// Package cache holds serialized API responses until they expire or a write
// flushes everything.
package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Prefix is prepended to every key.
const Prefix = "cache:"

// ResponseCache stores JSON bodies keyed by endpoint and parameters.
type ResponseCache struct {
	store      *gocache.Cache
	group      singleflight.Group
	generation atomic.Uint64
}

// New creates a cache with the given default TTL and janitor interval.
func New(ttl, cleanup time.Duration) *ResponseCache {
	return &ResponseCache{store: gocache.New(ttl, cleanup)}
}

// Key builds a cache key from an endpoint name and optional parameter.
func Key(name string, param ...string) string {
	key := Prefix + name
	for _, p := range param {
		key += ":" + p
	}
	return key
}

// Get returns the cached body under key.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	body, ok := v.([]byte)
	return body, ok
}

// Remember returns the cached body under key or calls load, encodes the
// result and caches it. Concurrent misses for one key share a single load.
// The shared load runs with ctx detached from cancellation, and each caller
// stops waiting once its own ctx is done. A result loaded across a Flush is
// returned but not stored.
func (c *ResponseCache) Remember(ctx context.Context, key string, load func(context.Context) (any, error)) ([]byte, error) {
	if body, ok := c.Get(key); ok {
		return body, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if body, ok := c.Get(key); ok {
			return body, nil
		}
		gen := c.generation.Load()
		value, err := load(shared)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if c.generation.Load() == gen {
			c.store.SetDefault(key, body)
		}
		return body, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Flush drops every entry.
func (c *ResponseCache) Flush() {
	c.generation.Add(1)
	c.store.Flush()
}

// Len returns the number of live entries.
func (c *ResponseCache) Len() int {
	return c.store.ItemCount()
}
