package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const DefaultTodoCacheTTL = 10 * time.Minute

// TodoCache is a read-through cache for a user's todos. Every key embeds the
// owner's current version number; invalidation bumps the version so all
// older entries become unreachable at once and age out through their TTL.
type TodoCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTodoCache(client *redis.Client, ttl time.Duration) *TodoCache {
	if ttl <= 0 {
		ttl = DefaultTodoCacheTTL
	}
	return &TodoCache{client: client, ttl: ttl}
}

func (c *TodoCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Version returns the user's current cache version, 0 if never invalidated.
func (c *TodoCache) Version(ctx context.Context, userID int) (int64, error) {
	if !c.Enabled() {
		return 0, ErrDisabled
	}
	v, err := c.client.Get(ctx, UserVersionKey(userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

// InvalidateUser orphans every cached entry for userID.
func (c *TodoCache) InvalidateUser(ctx context.Context, userID int) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Incr(ctx, UserVersionKey(userID)).Err()
}

// Get returns the cached bytes for key, or nil on a miss.
func (c *TodoCache) Get(ctx context.Context, key string) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores data as JSON under key with the cache TTL.
func (c *TodoCache) Set(ctx context.Context, key string, data interface{}) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, c.ttl).Err()
}

func UserVersionKey(userID int) string {
	return fmt.Sprintf("todos:user:%d:v", userID)
}

// TodoKey builds the key for a single todo.
func TodoKey(userID int, version int64, todoID int) string {
	return fmt.Sprintf("todos:user:%d:v%d:todo:%d", userID, version, todoID)
}

// TodoListKey builds the key for a list result; filter is "all", "true" or "false".
func TodoListKey(userID int, version int64, filter string) string {
	return fmt.Sprintf("todos:user:%d:v%d:list:%s", userID, version, filter)
}
