package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

func newTestCache(t *testing.T) (*NameCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache, err := NewNameCache(logger.Nop(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestNameCacheRoundTrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetMany(ctx, map[string]string{"a": "Ada Lovelace", "b": "Grace Hopper"}, time.Minute))

	got, err := cache.GetMany(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "Ada Lovelace", "b": "Grace Hopper"}, got)

	mr.FastForward(2 * time.Minute)
	got, err = cache.GetMany(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNameCacheEmptyInput(t *testing.T) {
	cache, _ := newTestCache(t)
	got, err := cache.GetMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, cache.SetMany(context.Background(), nil, time.Minute))
}

func TestNewNameCacheRequiresAddr(t *testing.T) {
	_, err := NewNameCache(logger.Nop(), Config{})
	assert.Error(t, err)
}
