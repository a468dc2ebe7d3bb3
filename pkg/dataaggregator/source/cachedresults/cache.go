package cachedresults

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/redis_client"
)

type Cache struct {
	Cache *cache.Cache[string]
}

// Setup uses the shared redis client. It leaves the cache disabled when Redis was never
// connected.
func (c *Cache) Setup(expiration time.Duration) {
	if !redis_client.IsConnected() {
		log.Info().Msg("Redis not connected, result cache disabled")
		return
	}

	c.SetupWithClient(redis_client.Client, expiration)
}

func (c *Cache) SetupWithClient(client *redis.Client, expiration time.Duration) {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	c.Cache = cache.New[string](redisStore)
}

func (c *Cache) Enabled() bool {
	return c != nil && c.Cache != nil
}

// Get decodes the JSON stored under key into T. The bool is false on any miss.
func Get[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var value T
	if !c.Enabled() {
		return value, false
	}

	cachedObject, err := c.Cache.Get(ctx, key)
	if err != nil {
		return value, false
	}

	if err := json.Unmarshal([]byte(cachedObject), &value); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to decode cached result")
		return value, false
	}

	return value, true
}

func Set(ctx context.Context, c *Cache, key string, value any) error {
	if !c.Enabled() {
		return nil
	}

	valueJson, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.Cache.Set(ctx, key, string(valueJson))
}
