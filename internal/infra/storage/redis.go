package storage

import (
	"go-heartbeat/configs"
	"go-heartbeat/pkg/redis"
)

// NewRedisClient builds the shared Redis client from the process configuration.
func NewRedisClient(config configs.RedisConfig) (*redis.Client, error) {
	return redis.NewClient(redis.DefaultConfig().
		WithHost(config.Host).
		WithPort(config.Port).
		WithPassword(config.Password).
		WithDatabase(config.Database))
}
