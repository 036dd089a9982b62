package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_RoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(16, time.Hour)
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetJSON(ctx, "batches:list:a", map[string]int{"total": 3}, time.Minute))

	var got map[string]int
	require.NoError(t, c.GetJSON(ctx, "batches:list:a", &got))
	assert.Equal(t, 3, got["total"])

	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, c.GetJSON(ctx, "batches:list:a", &got), ErrMiss)
}

func TestMemoryCache_ExpiredKeysDoNotAccumulate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(4096, time.Hour)
	c.now = func() time.Time { return now }

	for i := range 1000 {
		require.NoError(t, c.SetJSON(ctx, fmt.Sprintf("batches:list:%d", i), i, time.Second))
	}
	now = now.Add(time.Minute)
	require.NoError(t, c.SetJSON(ctx, "batches:list:fresh", 1, time.Minute))

	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_BoundedBySize(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2, 0)
	require.NoError(t, c.SetJSON(ctx, "a", 1, 0))
	require.NoError(t, c.SetJSON(ctx, "b", 2, 0))
	require.NoError(t, c.SetJSON(ctx, "c", 3, 0))

	assert.Equal(t, 2, c.Len())
	var v int
	assert.ErrorIs(t, c.GetJSON(ctx, "a", &v), ErrMiss)
	require.NoError(t, c.GetJSON(ctx, "c", &v))
	assert.Equal(t, 3, v)
}

func TestMemoryCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0, time.Hour)
	require.NoError(t, c.SetJSON(ctx, "batches:list:a", 1, 0))
	require.NoError(t, c.SetJSON(ctx, "batches:list:b", 2, 0))
	require.NoError(t, c.SetJSON(ctx, "compliance:list:a", 3, 0))

	require.NoError(t, c.DeletePattern(ctx, "batches:*"))
	assert.Equal(t, 1, c.Len())

	var v int
	assert.NoError(t, c.GetJSON(ctx, "compliance:list:a", &v))
	assert.ErrorIs(t, c.GetJSON(ctx, "batches:list:a", &v), ErrMiss)

	assert.Error(t, c.DeletePattern(ctx, "["))
}
