package cache

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"taskboard-api/pkg/task"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	taskKeyPrefix = "taskboard:task:"
	defaultTTL    = 30 * time.Second
)

// Cache is an optional Redis read cache for single-task lookups.
// A nil *Cache is valid and disables caching entirely, so callers never
// branch on configuration.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewCache connects to Redis using REDIS_HOST/REDIS_PORT and optional
// REDIS_USERNAME/REDIS_PASSWORD. Returns nil (caching disabled) when
// the ping fails rather than refusing to start.
func NewCache(host string, port string) *Cache {
	clientOpts := &redis.Options{
		Addr: host + ":" + port,
	}
	if username, usernameSet := os.LookupEnv("REDIS_USERNAME"); usernameSet {
		clientOpts.Username = username
	}
	if password, passwordSet := os.LookupEnv("REDIS_PASSWORD"); passwordSet {
		clientOpts.Password = password
	}
	redisClient := redis.NewClient(clientOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to ping Redis, task cache disabled")
		redisClient.Close()
		return nil
	}

	log.Info().Msg("Successfully connected to Redis, task cache enabled")
	return &Cache{redis: redisClient, ttl: defaultTTL}
}

// GetTask returns the cached task for id and whether it was a hit.
func (c *Cache) GetTask(ctx context.Context, id string) (*task.Task, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, taskKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Str("taskId", id).Msg("Failed to read task from Redis")
		return nil, false
	}

	var cached task.Task
	if err := json.Unmarshal(data, &cached); err != nil {
		log.Error().Err(err).Str("taskId", id).Msg("Corrupt cached task, dropping")
		c.InvalidateTask(ctx, id)
		return nil, false
	}
	return &cached, true
}

// SetTask stores a task under its id. Failures are logged and ignored;
// the cache is never load-bearing.
func (c *Cache) SetTask(ctx context.Context, t *task.Task) {
	if c == nil || t == nil {
		return
	}
	data, err := json.Marshal(t)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal task for caching")
		return
	}
	if err := c.redis.Set(ctx, taskKeyPrefix+t.ID.Hex(), data, c.ttl).Err(); err != nil {
		log.Error().Err(err).Str("taskId", t.ID.Hex()).Msg("Failed to write task to Redis")
	}
}

// InvalidateTask drops the cached entry for id after a mutation.
func (c *Cache) InvalidateTask(ctx context.Context, id string) {
	if c == nil {
		return
	}
	if err := c.redis.Del(ctx, taskKeyPrefix+id).Err(); err != nil {
		log.Error().Err(err).Str("taskId", id).Msg("Failed to invalidate cached task")
	}
}

func (c *Cache) Shutdown() {
	if c == nil {
		return
	}
	c.redis.Close()
	log.Info().Msg("Successfully closed Redis connection")
}
