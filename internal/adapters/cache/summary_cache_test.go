package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummaryCache_SetAndGet(t *testing.T) {
	c, err := NewSummaryCache(1 << 20)
	require.NoError(t, err)
	defer c.Close()

	png := []byte{0x89, 'P', 'N', 'G'}
	c.Set(png)
	c.cache.Wait()

	got, ok := c.Get()
	require.True(t, ok)
	require.Equal(t, png, got)
}

func TestSummaryCache_GetMissWhenEmpty(t *testing.T) {
	c, err := NewSummaryCache(1 << 20)
	require.NoError(t, err)
	defer c.Close()

	got, ok := c.Get()
	require.False(t, ok)
	require.Nil(t, got)
}

func TestSummaryCache_InvalidateEvicts(t *testing.T) {
	c, err := NewSummaryCache(1 << 20)
	require.NoError(t, err)
	defer c.Close()

	c.Set([]byte("stale image"))
	c.cache.Wait()

	c.Invalidate()

	_, ok := c.Get()
	require.False(t, ok)
}
