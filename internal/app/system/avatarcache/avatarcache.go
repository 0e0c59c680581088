// internal/app/system/avatarcache/avatarcache.go

// Package avatarcache holds resolved avatar URLs keyed by email.
// Avatars change rarely and are requested on every page render, so a
// process-wide read-mostly map avoids refetching from the directory
// service. One instance is constructed in bootstrap and injected.
package avatarcache

import "sync"

// Cache is a concurrency-safe email -> avatar URL map. Entries never
// expire; Invalidate removes a stale entry after a photo upload.
type Cache struct {
	mu   sync.RWMutex
	urls map[string]string
}

func New() *Cache {
	return &Cache{urls: make(map[string]string)}
}

// Get returns the cached URL for email, if present.
func (c *Cache) Get(email string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	url, ok := c.urls[email]
	return url, ok
}

// Set stores the URL for email, replacing any previous value.
func (c *Cache) Set(email, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.urls[email] = url
}

// Invalidate removes the entry for email.
func (c *Cache) Invalidate(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.urls, email)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.urls)
}
