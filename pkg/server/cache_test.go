package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetAdd(t *testing.T) {
	c, err := NewCache(2)
	require.NoError(t, err)

	_, ok := c.Get("cat")
	assert.False(t, ok)

	c.Add("cat", "dog")
	out, ok := c.Get("cat")
	assert.True(t, ok)
	assert.Equal(t, "dog", out)

	c.Add("cow", "cat")
	c.Add("dog", "cow") // evicts the least recently used entry
	_, ok = c.Get("cat")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
	assert.Equal(t, uint64(1), stats.Evictions)
}

func TestCache_SyncPurgesOnNewGeneration(t *testing.T) {
	c, err := NewCache(8)
	require.NoError(t, err)

	c.Sync(1)
	c.Add("cat", "dog")
	c.Sync(1)
	_, ok := c.Get("cat")
	assert.True(t, ok)

	c.Sync(2)
	_, ok = c.Get("cat")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Size)
}

func TestCache_Disabled(t *testing.T) {
	c, err := NewCache(0)
	require.NoError(t, err)
	assert.Nil(t, c)

	c.Sync(1)
	c.Add("cat", "dog")
	_, ok := c.Get("cat")
	assert.False(t, ok)
	assert.Equal(t, CacheStats{}, c.Stats())
}
