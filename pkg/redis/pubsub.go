package redis

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"go-heartbeat/pkg/log"
)

// MessageHandler defines an interface that processes Redis pub/sub messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, channel string, message string) error
}

// HandlerFunc defines a function that handles Redis pub/sub messages
type HandlerFunc func(ctx context.Context, channel string, message string) error

var _ MessageHandler = HandlerFunc(nil)

// HandleMessage implements the MessageHandler interface for HandlerFunc
func (f HandlerFunc) HandleMessage(ctx context.Context, channel string, message string) error {
	return f(ctx, channel, message)
}

// Publisher handles Redis publishing operations
type Publisher struct {
	client *Client
}

// NewPublisher creates a new publisher
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish publishes a raw payload to a channel
func (p *Publisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.client.Publish(ctx, channel, payload)
}

// Subscriber receives messages from Redis pub/sub channels and hands them,
// one at a time, to its handler.
type Subscriber struct {
	client            *Client
	channel           string
	handler           MessageHandler
	reconnectDelay    time.Duration
	isRunning         int32
	messagesProcessed int64
	messagesFailed    int64
}

// NewSubscriber creates a subscriber for a single channel.
func NewSubscriber(client *Client, channel string, handler MessageHandler) (*Subscriber, error) {
	if channel == "" {
		return nil, fmt.Errorf("channel cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}
	return &Subscriber{
		client:         client,
		channel:        channel,
		handler:        handler,
		reconnectDelay: time.Second,
	}, nil
}

// Start listens until ctx is canceled. Handler errors are logged and do not
// stop the subscriber.
func (s *Subscriber) Start(ctx context.Context) error {
	atomic.StoreInt32(&s.isRunning, 1)
	defer atomic.StoreInt32(&s.isRunning, 0)

	for {
		sub := s.client.Subscribe(ctx, s.channel)
		if _, err := sub.Receive(ctx); err != nil {
			_ = sub.Close()
			if ctx.Err() != nil {
				return nil
			}
			log.Errorf("failed to subscribe to channel %s: %v", s.channel, err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(s.reconnectDelay):
				continue
			}
		}

		s.listen(ctx, sub.Channel())
		_ = sub.Close()

		if ctx.Err() != nil {
			return nil
		}
		log.Errorf("channel %s closed, resubscribing", s.channel)
	}
}

func (s *Subscriber) listen(ctx context.Context, messages <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			s.handleMessage(ctx, msg)
		}
	}
}

func (s *Subscriber) handleMessage(ctx context.Context, msg *redis.Message) {
	if msg == nil {
		return
	}

	if err := s.handler.HandleMessage(ctx, msg.Channel, msg.Payload); err != nil {
		atomic.AddInt64(&s.messagesFailed, 1)
		log.Errorf("error processing message from channel %s: %v", msg.Channel, err)
		return
	}
	atomic.AddInt64(&s.messagesProcessed, 1)
}

// IsRunning reports whether Start is listening.
func (s *Subscriber) IsRunning() bool {
	return atomic.LoadInt32(&s.isRunning) == 1
}

// Stats returns the processed and failed message counters.
func (s *Subscriber) Stats() (processed int64, failed int64) {
	return atomic.LoadInt64(&s.messagesProcessed), atomic.LoadInt64(&s.messagesFailed)
}
