package mqtt

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"go-heartbeat/pkg/log"
)

const tokenTimeout = 10 * time.Second

// MQTTClient defines the subset of the paho client used here.
type MQTTClient interface {
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Unsubscribe(topics ...string) mqtt.Token
	Disconnect(quiesce uint)
}

// Options configures a broker connection.
type Options struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// NewClient creates a paho client with ordered delivery and auto reconnect.
// The client is not connected yet.
func NewClient(options Options) MQTTClient {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(options.Broker)
	opts.SetClientID(options.ClientID)
	opts.SetUsername(options.Username)
	opts.SetPassword(options.Password)
	opts.SetAutoReconnect(true)
	opts.SetOrderMatters(true)
	return mqtt.NewClient(opts)
}

// Connect connects client and waits for the broker acknowledgement.
func Connect(client MQTTClient) error {
	return wait(client.Connect())
}

func wait(token mqtt.Token) error {
	if !token.WaitTimeout(tokenTimeout) {
		return fmt.Errorf("timed out after %s", tokenTimeout)
	}
	return token.Error()
}

// Publisher sends payloads to topics.
type Publisher struct {
	client MQTTClient
	qos    byte
}

func NewPublisher(client MQTTClient, qos byte) *Publisher {
	return &Publisher{client: client, qos: qos}
}

// Publish sends payload to topic and waits for the delivery token.
func (p *Publisher) Publish(ctx context.Context, topic string, payload []byte) error {
	token := p.client.Publish(topic, p.qos, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandlerFunc processes one message payload.
type HandlerFunc func(ctx context.Context, payload []byte) error

// Subscriber handles the messages of one topic. The client delivers messages
// of a subscription in order, one callback at a time.
type Subscriber struct {
	client            MQTTClient
	topic             string
	qos               byte
	isRunning         int32
	messagesProcessed int64
	messagesFailed    int64
}

func NewSubscriber(client MQTTClient, topic string, qos byte) (*Subscriber, error) {
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	return &Subscriber{client: client, topic: topic, qos: qos}, nil
}

// Start subscribes and blocks until ctx is canceled. Handler errors are
// logged.
func (s *Subscriber) Start(ctx context.Context, handler HandlerFunc) error {
	err := wait(s.client.Subscribe(s.topic, s.qos, func(_ mqtt.Client, message mqtt.Message) {
		if err := handler(ctx, message.Payload()); err != nil {
			atomic.AddInt64(&s.messagesFailed, 1)
			log.Errorf("error processing message from topic %s: %v", message.Topic(), err)
			return
		}
		atomic.AddInt64(&s.messagesProcessed, 1)
	}))
	if err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", s.topic, err)
	}

	atomic.StoreInt32(&s.isRunning, 1)
	defer atomic.StoreInt32(&s.isRunning, 0)

	<-ctx.Done()
	if err := wait(s.client.Unsubscribe(s.topic)); err != nil {
		log.Warnf("failed to unsubscribe from topic %s: %v", s.topic, err)
	}
	return nil
}

// IsRunning reports whether the subscription is active.
func (s *Subscriber) IsRunning() bool {
	return atomic.LoadInt32(&s.isRunning) == 1
}

// Stats returns the processed and failed message counters.
func (s *Subscriber) Stats() (processed int64, failed int64) {
	return atomic.LoadInt64(&s.messagesProcessed), atomic.LoadInt64(&s.messagesFailed)
}
