package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/amirphl/jetcharter/utils"
	"github.com/stretchr/testify/assert"
)

func TestContentCacheGetSet(t *testing.T) {
	c := NewContentCache(time.Hour, 100)

	_, ok := c.Get("page:home:en:")
	assert.False(t, ok)

	c.Set("page:home:en:", []string{"hero"})
	v, ok := c.Get("page:home:en:")
	assert.True(t, ok)
	assert.Equal(t, []string{"hero"}, v)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestContentCacheExpiry(t *testing.T) {
	c := NewContentCache(40*time.Millisecond, 100)
	c.Set("faq:en:::10", "stale")

	time.Sleep(80 * time.Millisecond)

	v, ok := c.Get("faq:en:::10")
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, 0, c.Stats().Entries, "expired entry is evicted on read")
}

func TestContentCacheSoftLimitSweep(t *testing.T) {
	c := NewContentCache(40*time.Millisecond, 3)
	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("old-%d", i), i)
	}

	time.Sleep(80 * time.Millisecond)

	// the fourth entry pushes the count over the soft limit and sweeps the expired ones
	c.Set("fresh", "value")
	assert.Equal(t, 1, c.Stats().Entries)

	v, ok := c.Get("fresh")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "page:home:en:", PageCacheKey("Home", "EN", nil))
	assert.Equal(t, "page:home:es:hero_title", PageCacheKey("home", "es", utils.ToPtr("hero_title")))
	assert.Equal(t, "faq:fr:::20", FAQCacheKey("fr", nil, nil, 20))
	assert.Equal(t, "faq:en:pricing:deposit:5", FAQCacheKey("en", utils.ToPtr("Pricing"), utils.ToPtr(" Deposit "), 5))
}

func TestCacheKeys_SeparatorInInputDoesNotCollide(t *testing.T) {
	assert.NotEqual(t,
		PageCacheKey("home", "en", utils.ToPtr("a:")),
		PageCacheKey("home", "en:a", nil))
	assert.NotEqual(t,
		PageCacheKey("home:en", "x", nil),
		PageCacheKey("home", "en:x", nil))
	assert.NotEqual(t,
		FAQCacheKey("en", utils.ToPtr("a:b"), nil, 0),
		FAQCacheKey("en", utils.ToPtr("a"), utils.ToPtr("b"), 0))
	assert.Equal(t, "page:home:en:a%3A", PageCacheKey("home", "en", utils.ToPtr("a:")))
}
