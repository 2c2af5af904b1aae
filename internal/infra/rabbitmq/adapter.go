package rabbitmq

import (
	"context"

	"go-heartbeat/internal/domain/gateway/queue"
	"go-heartbeat/pkg/rabbitmq"
)

// SenderAdapter publishes domain messages on the configured exchange.
type SenderAdapter struct {
	publisher *rabbitmq.Publisher
}

var _ queue.Sender = (*SenderAdapter)(nil)

func NewSenderAdapter(channel rabbitmq.Channel, exchange, appID string) *SenderAdapter {
	return &SenderAdapter{publisher: rabbitmq.NewPublisher(channel, exchange, appID)}
}

func (adapter *SenderAdapter) SendMessage(ctx context.Context, routingKey string, body []byte) error {
	return adapter.publisher.Publish(ctx, routingKey, body)
}

// ListenerAdapter exposes a queue consumer as a domain listener.
type ListenerAdapter struct {
	consumer *rabbitmq.Consumer
}

var _ queue.Listener = (*ListenerAdapter)(nil)

func NewListenerAdapter(channel rabbitmq.Channel, queueName, consumerTag string) (*ListenerAdapter, error) {
	consumer, err := rabbitmq.NewConsumer(channel, queueName, consumerTag)
	if err != nil {
		return nil, err
	}
	return &ListenerAdapter{consumer: consumer}, nil
}

func (adapter *ListenerAdapter) Listen(ctx context.Context, handler queue.MessageHandler) error {
	return adapter.consumer.Start(ctx, rabbitmq.HandlerFunc(handler))
}

func (adapter *ListenerAdapter) IsRunning() bool {
	return adapter.consumer.IsRunning()
}

func (adapter *ListenerAdapter) Stats() (int64, int64) {
	return adapter.consumer.Stats()
}
