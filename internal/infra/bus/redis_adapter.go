package bus

import (
	"context"
	"sync/atomic"

	"go-heartbeat/internal/domain/gateway/queue"
	"go-heartbeat/pkg/redis"
)

// RedisSenderAdapter publishes on the Redis channel named by the routing key.
type RedisSenderAdapter struct {
	publisher *redis.Publisher
}

var _ queue.Sender = (*RedisSenderAdapter)(nil)

func NewRedisSenderAdapter(client *redis.Client) *RedisSenderAdapter {
	return &RedisSenderAdapter{publisher: redis.NewPublisher(client)}
}

func (adapter *RedisSenderAdapter) SendMessage(ctx context.Context, routingKey string, body []byte) error {
	return adapter.publisher.Publish(ctx, routingKey, body)
}

// RedisListenerAdapter subscribes to one Redis channel.
type RedisListenerAdapter struct {
	client     *redis.Client
	channel    string
	subscriber atomic.Pointer[redis.Subscriber]
}

var _ queue.Listener = (*RedisListenerAdapter)(nil)

func NewRedisListenerAdapter(client *redis.Client, channel string) *RedisListenerAdapter {
	return &RedisListenerAdapter{client: client, channel: channel}
}

func (adapter *RedisListenerAdapter) Listen(ctx context.Context, handler queue.MessageHandler) error {
	subscriber, err := redis.NewSubscriber(adapter.client, adapter.channel,
		redis.HandlerFunc(func(ctx context.Context, channel string, message string) error {
			return handler(ctx, []byte(message))
		}))
	if err != nil {
		return err
	}
	adapter.subscriber.Store(subscriber)
	return subscriber.Start(ctx)
}

func (adapter *RedisListenerAdapter) IsRunning() bool {
	subscriber := adapter.subscriber.Load()
	return subscriber != nil && subscriber.IsRunning()
}

func (adapter *RedisListenerAdapter) Stats() (int64, int64) {
	subscriber := adapter.subscriber.Load()
	if subscriber == nil {
		return 0, 0
	}
	return subscriber.Stats()
}
