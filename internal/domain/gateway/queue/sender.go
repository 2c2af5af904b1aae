package queue

import "context"

// Sender hands a serialized message to the bus. The routing key is the
// driver's address for the message: AMQP routing key, SQS queue name, Redis
// channel or MQTT topic.
type Sender interface {
	SendMessage(ctx context.Context, routingKey string, body []byte) error
}
