package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aymenmusic/todo-list-2025/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// ErrDisabled is returned by cache operations when Redis is not configured.
var ErrDisabled = errors.New("cache disabled")

// SetupRedis connects to Redis. It returns a nil client when no host is
// configured, which turns caching and token revocation off.
func SetupRedis(redisCfg *config.RedisConfig) (*redis.Client, error) {
	if !redisCfg.Enabled() {
		logrus.Warn("REDIS_HOST not set, cache and token revocation disabled")
		return nil, nil
	}

	addr := fmt.Sprintf("%s:%s", redisCfg.Host, redisCfg.Port)

	db, err := strconv.Atoi(redisCfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis DB number %q: %w", redisCfg.RedisDB, err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: redisCfg.RedisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to Redis at %s: %w", addr, err)
	}

	logrus.WithField("addr", addr).Info("Redis connection established successfully")
	return rdb, nil
}
