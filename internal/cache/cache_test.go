package cache_test

import (
	"testing"
	"time"

	"github.com/arkodev/learnhub/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	c := cache.New(time.Minute)

	_, ok := c.Get("categories")
	require.False(t, ok)

	c.Set("categories", []string{"Programming"})

	v, ok := c.Get("categories")
	require.True(t, ok)
	assert.Equal(t, []string{"Programming"}, v)

	c.Delete("categories")

	_, ok = c.Get("categories")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := cache.New(10 * time.Millisecond)

	c.Set("k", "v")

	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(25 * time.Millisecond)

	_, ok = c.Get("k")
	assert.False(t, ok, "entry must expire after its ttl")
}

func TestCacheClear(t *testing.T) {
	c := cache.New(time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	assert.False(t, okA)
	assert.False(t, okB)
}
