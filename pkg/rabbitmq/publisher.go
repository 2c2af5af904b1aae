package rabbitmq

import (
	"context"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends JSON messages to one exchange.
type Publisher struct {
	channel  Channel
	exchange string
	appID    string
}

func NewPublisher(channel Channel, exchange, appID string) *Publisher {
	return &Publisher{
		channel:  channel,
		exchange: exchange,
		appID:    appID,
	}
}

// Publish sends body as a persistent message with the given routing key.
func (p *Publisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		AppId:        p.appID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
