package homesite

import (
	"context"
	"sync"
	"time"
)

// listingCache holds the anonymous homepage listing (hidden=false) for a
// short TTL. Authenticated listings always go to the store, so the cache
// never affects visibility decisions; it is invalidated on every mutation,
// view-count increments included, because counts show up in listings.
type listingCache struct {
	mu      sync.RWMutex
	posts   []BlogPost
	fetched time.Time
	ttl     time.Duration
	store   ContentStore
}

func newListingCache(s ContentStore, ttl time.Duration) *listingCache {
	return &listingCache{store: s, ttl: ttl}
}

func (c *listingCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *listingCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// List returns the non-hidden posts in insertion order. Only successful
// loads are cached; store errors pass through to the caller untouched.
func (c *listingCache) List(ctx context.Context) ([]BlogPost, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.List(ctx, ListFilter{Hidden: BoolPtr(false)})
	if err != nil {
		return nil, err
	}
	c.posts = posts
	c.fetched = time.Now()
	return posts, nil
}
