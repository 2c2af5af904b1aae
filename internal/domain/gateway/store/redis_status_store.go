package store

import (
	"context"
	"time"

	"go-heartbeat/internal/domain/model"
	"go-heartbeat/pkg/redis"
)

const scanBatchSize = 100

type RedisStatusStore struct {
	client *redis.Client
}

var _ StatusStore = (*RedisStatusStore)(nil)

func NewRedisStatusStore(client *redis.Client) *RedisStatusStore {
	return &RedisStatusStore{client: client}
}

func (s *RedisStatusStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0)
}

func (s *RedisStatusStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.client.Get(ctx, key)
}

func (s *RedisStatusStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	return s.client.ScanAll(ctx, pattern, scanBatchSize)
}

func (s *RedisStatusStore) Health() model.ComponentHealthStatus {
	check := s.client.HealthCheck(2 * time.Second)

	status := model.StatusDown
	if check.Status == redis.StatusUp {
		status = model.StatusUp
	}
	return model.ComponentHealthStatus{
		Status:  status,
		Details: check.Details,
	}
}
