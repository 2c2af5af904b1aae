package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	amqp "github.com/rabbitmq/amqp091-go"

	"go-heartbeat/pkg/log"
)

// ErrDeliveriesClosed is returned by Start when the broker closes the
// delivery channel.
var ErrDeliveriesClosed = errors.New("delivery channel closed")

// HandlerFunc processes the body of one delivery.
type HandlerFunc func(ctx context.Context, body []byte) error

// Consumer reads one queue with manual acknowledgements and a prefetch of
// one, so deliveries are handled strictly one at a time.
type Consumer struct {
	channel           Channel
	queue             string
	tag               string
	isRunning         int32
	messagesProcessed int64
	messagesFailed    int64
}

func NewConsumer(channel Channel, queue, tag string) (*Consumer, error) {
	if queue == "" {
		return nil, fmt.Errorf("queue cannot be empty")
	}
	return &Consumer{
		channel: channel,
		queue:   queue,
		tag:     tag,
	}, nil
}

// Start consumes until ctx is canceled. A delivery is acked when handler
// succeeds and rejected without requeue when it fails.
func (c *Consumer) Start(ctx context.Context, handler HandlerFunc) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := c.channel.Consume(c.queue, c.tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume queue %s: %w", c.queue, err)
	}

	atomic.StoreInt32(&c.isRunning, 1)
	defer atomic.StoreInt32(&c.isRunning, 0)

	for {
		select {
		case <-ctx.Done():
			if c.tag != "" {
				_ = c.channel.Cancel(c.tag, false)
			}
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrDeliveriesClosed
			}
			c.handle(ctx, delivery, handler)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, delivery amqp.Delivery, handler HandlerFunc) {
	if err := handler(ctx, delivery.Body); err != nil {
		atomic.AddInt64(&c.messagesFailed, 1)
		log.Errorf("error processing message %s from queue %s: %v", delivery.MessageId, c.queue, err)
		if err := delivery.Reject(false); err != nil {
			log.Errorf("failed to reject message %s: %v", delivery.MessageId, err)
		}
		return
	}

	atomic.AddInt64(&c.messagesProcessed, 1)
	if err := delivery.Ack(false); err != nil {
		log.Errorf("failed to ack message %s: %v", delivery.MessageId, err)
	}
}

// IsRunning reports whether Start is consuming.
func (c *Consumer) IsRunning() bool {
	return atomic.LoadInt32(&c.isRunning) == 1
}

// Stats returns the processed and failed message counters.
func (c *Consumer) Stats() (processed int64, failed int64) {
	return atomic.LoadInt64(&c.messagesProcessed), atomic.LoadInt64(&c.messagesFailed)
}
