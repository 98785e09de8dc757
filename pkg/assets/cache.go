package assets

import (
	"context"
	"errors"
	"sync"
)

// Cache memoizes fetch results keyed on the logical asset path.
// Only definitive outcomes are cached: successful reads and ErrNotFound.
// Context errors and transient failures are retried on the next call.
type Cache struct {
	next Fetcher

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	ready chan struct{}
	data  []byte
	err   error
}

// NewCache wraps next with a memoization layer.
func NewCache(next Fetcher) *Cache {
	return &Cache{
		next:    next,
		entries: make(map[string]*cacheEntry),
	}
}

// Fetch implements Fetcher. Concurrent fetches of the same path share one
// underlying call. A caller waiting on a call that was cancelled by its own
// caller fetches again under its own context.
func (c *Cache) Fetch(ctx context.Context, path string) ([]byte, error) {
	for {
		c.mu.Lock()
		entry, ok := c.entries[path]
		if !ok {
			entry = &cacheEntry{ready: make(chan struct{})}
			c.entries[path] = entry
			c.mu.Unlock()
			return c.load(ctx, path, entry)
		}
		c.mu.Unlock()

		select {
		case <-entry.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		if !isContextErr(entry.err) {
			return entry.data, entry.err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

// load runs the underlying fetch for entry and publishes the outcome.
// Anything but a read or ErrNotFound is dropped from the cache.
func (c *Cache) load(ctx context.Context, path string, entry *cacheEntry) ([]byte, error) {
	entry.data, entry.err = c.next.Fetch(ctx, path)
	if entry.err != nil && !errors.Is(entry.err, ErrNotFound) {
		c.mu.Lock()
		delete(c.entries, path)
		c.mu.Unlock()
	}
	close(entry.ready)
	return entry.data, entry.err
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset drops all cached entries.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}
