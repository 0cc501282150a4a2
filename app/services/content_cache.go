package services

import (
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
)

// ContentCache is a TTL cache for localized page content and FAQ lookups.
// Expired entries are evicted on read, and all expired entries are swept
// once the entry count passes the soft limit.
type ContentCache struct {
	items     *cache.Cache
	softLimit int
	hits      atomic.Int64
	misses    atomic.Int64
}

// ContentCacheStats is a point-in-time view of the cache
type ContentCacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// NewContentCache creates a cache whose entries expire after ttl
func NewContentCache(ttl time.Duration, softLimit int) *ContentCache {
	return &ContentCache{
		// no janitor goroutine; sweeping happens on Set
		items:     cache.New(ttl, 0),
		softLimit: softLimit,
	}
}

// Get returns the cached value, or false when absent or expired
func (c *ContentCache) Get(key string) (any, bool) {
	if v, ok := c.items.Get(key); ok {
		c.hits.Add(1)
		return v, true
	}
	c.items.Delete(key)
	c.misses.Add(1)
	return nil, false
}

// Set stores value under key with the default TTL
func (c *ContentCache) Set(key string, value any) {
	c.items.SetDefault(key, value)
	if c.softLimit > 0 && c.items.ItemCount() > c.softLimit {
		c.items.DeleteExpired()
	}
}

// Flush drops every entry
func (c *ContentCache) Flush() {
	c.items.Flush()
}

func (c *ContentCache) Stats() ContentCacheStats {
	return ContentCacheStats{
		Entries: c.items.ItemCount(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

// PageCacheKey builds the key for a (page, locale) lookup, optionally narrowed to one content key
func PageCacheKey(page, locale string, key *string) string {
	k := ""
	if key != nil {
		k = *key
	}
	return "page:" + joinKeyParts(strings.ToLower(page), strings.ToLower(locale), k)
}

// FAQCacheKey builds the key for a FAQ lookup
func FAQCacheKey(locale string, category, search *string, limit int) string {
	cat, q := "", ""
	if category != nil {
		cat = strings.ToLower(*category)
	}
	if search != nil {
		q = strings.ToLower(strings.TrimSpace(*search))
	}
	return "faq:" + joinKeyParts(strings.ToLower(locale), cat, q, strconv.Itoa(limit))
}

// joinKeyParts escapes each part so a separator inside user input cannot shift the fields
func joinKeyParts(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.QueryEscape(p)
	}
	return strings.Join(escaped, ":")
}
