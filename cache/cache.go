// Package cache holds the single in-process cache for serialized feed and
// profile responses, and is the one place that knows which cache keys a
// given mutation has to evict.
package cache

import (
	"fmt"
	"sync"
)

// FeedKey is the cache key of the global tweet feed.
const FeedKey = "feed"

// UserKey returns the cache key of a user's profile projection.
func UserKey(id int) string {
	return fmt.Sprintf("user:%d", id)
}

// Cache is an in-memory cache mapping keys to serialized response bodies.
//
// Every key carries a generation counter that is bumped on eviction. A read
// that misses captures the generation before it rebuilds, and the rebuilt
// value is only stored if the generation is still current. A writer that
// evicts while a rebuild is in flight therefore wins: the stale rebuild is
// returned to its own caller but never cached, so the next read sees the
// mutation.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gens    map[string]uint64
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string][]byte),
		gens:    make(map[string]uint64),
	}
}

// Get returns the cached value for key, if present.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok
}

// GetOrBuild returns the cached value for key. On a miss it runs build,
// stores the result under the generation guard, and returns it. The build
// runs without the lock held, so slow rebuilds don't block reads of other keys.
func (c *Cache) GetOrBuild(key string, build func() ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	if data, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return data, nil
	}
	gen := c.gens[key]
	c.mu.Unlock()

	data, err := build()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gens[key] == gen {
		c.entries[key] = data
	}
	c.mu.Unlock()
	return data, nil
}

// Invalidate evicts the given keys and bumps their generations.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
		c.gens[key]++
	}
	c.mu.Unlock()
}

// TweetsChanged must be called after any mutation that alters feed-visible
// tweet data: tweet create/delete, like/unlike, media upload.
func (c *Cache) TweetsChanged() {
	c.Invalidate(FeedKey)
}

// FollowChanged must be called after a follow edge between the two users
// is created or deleted. Both profiles list the edge, so both are evicted.
func (c *Cache) FollowChanged(followerID, followedID int) {
	c.Invalidate(UserKey(followerID), UserKey(followedID))
}
