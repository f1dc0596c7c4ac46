package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	cache := NewCacheRepository()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "plan:abc", []byte(`{"status":"ok"}`), time.Minute))

	value, hit, err := cache.Get(ctx, "plan:abc")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte(`{"status":"ok"}`), value)

	_, hit, err = cache.Get(ctx, "plan:missing")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCacheRepository()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "plan:short", []byte("x"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, hit, err := cache.Get(ctx, "plan:short")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheFlush(t *testing.T) {
	cache := NewCacheRepository()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "plan:a", []byte("a"), time.Minute))
	require.NoError(t, cache.Set(ctx, "plan:b", []byte("b"), time.Minute))
	require.NoError(t, cache.Flush(ctx))

	_, hit, err := cache.Get(ctx, "plan:a")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheCloseIsIdempotent(t *testing.T) {
	cache := NewCacheRepository()
	cache.Close()
	cache.Close()

	// The repository still serves after the janitor stops
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "plan:a", []byte("a"), time.Minute))
	_, hit, err := cache.Get(ctx, "plan:a")
	require.NoError(t, err)
	assert.True(t, hit)
}
