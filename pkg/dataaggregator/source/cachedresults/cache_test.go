package cachedresults

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedValue struct {
	Name  string
	Count int
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	c := &Cache{}
	c.SetupWithClient(client, time.Minute)
	return c, server
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, found := Get[cachedValue](ctx, c, "cachedresults/test/1")
	assert.False(t, found)

	require.NoError(t, Set(ctx, c, "cachedresults/test/1", cachedValue{Name: "plan", Count: 3}))

	value, found := Get[cachedValue](ctx, c, "cachedresults/test/1")
	require.True(t, found)
	assert.Equal(t, cachedValue{Name: "plan", Count: 3}, value)
}

func TestCacheExpiry(t *testing.T) {
	c, server := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, Set(ctx, c, "cachedresults/test/2", cachedValue{Name: "short"}))
	assert.True(t, server.Exists("cachedresults/test/2"))

	server.FastForward(2 * time.Minute)

	_, found := Get[cachedValue](ctx, c, "cachedresults/test/2")
	assert.False(t, found)
}

func TestCacheCorruptValue(t *testing.T) {
	c, server := newTestCache(t)

	require.NoError(t, server.Set("cachedresults/test/3", "{not json"))

	_, found := Get[cachedValue](context.Background(), c, "cachedresults/test/3")
	assert.False(t, found)
}

func TestDisabledCache(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	assert.False(t, c.Enabled())
	assert.NoError(t, Set(ctx, c, "key", cachedValue{}))

	_, found := Get[cachedValue](ctx, &Cache{}, "key")
	assert.False(t, found)
}
