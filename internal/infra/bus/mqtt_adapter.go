package bus

import (
	"context"

	"go-heartbeat/internal/domain/gateway/queue"
	"go-heartbeat/pkg/mqtt"
)

// MQTTSenderAdapter publishes on the topic named by the routing key.
type MQTTSenderAdapter struct {
	publisher *mqtt.Publisher
}

var _ queue.Sender = (*MQTTSenderAdapter)(nil)

func NewMQTTSenderAdapter(client mqtt.MQTTClient, qos byte) *MQTTSenderAdapter {
	return &MQTTSenderAdapter{publisher: mqtt.NewPublisher(client, qos)}
}

func (adapter *MQTTSenderAdapter) SendMessage(ctx context.Context, routingKey string, body []byte) error {
	return adapter.publisher.Publish(ctx, routingKey, body)
}

// MQTTListenerAdapter subscribes to one topic.
type MQTTListenerAdapter struct {
	subscriber *mqtt.Subscriber
}

var _ queue.Listener = (*MQTTListenerAdapter)(nil)

func NewMQTTListenerAdapter(client mqtt.MQTTClient, topic string, qos byte) (*MQTTListenerAdapter, error) {
	subscriber, err := mqtt.NewSubscriber(client, topic, qos)
	if err != nil {
		return nil, err
	}
	return &MQTTListenerAdapter{subscriber: subscriber}, nil
}

func (adapter *MQTTListenerAdapter) Listen(ctx context.Context, handler queue.MessageHandler) error {
	return adapter.subscriber.Start(ctx, mqtt.HandlerFunc(handler))
}

func (adapter *MQTTListenerAdapter) IsRunning() bool {
	return adapter.subscriber.IsRunning()
}

func (adapter *MQTTListenerAdapter) Stats() (int64, int64) {
	return adapter.subscriber.Stats()
}
