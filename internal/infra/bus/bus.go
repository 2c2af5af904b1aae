package bus

import (
	"context"
	"errors"
	"fmt"

	"go-heartbeat/configs"
	"go-heartbeat/internal/domain/gateway/queue"
	"go-heartbeat/internal/infra/aws"
	"go-heartbeat/internal/infra/rabbitmq"
	"go-heartbeat/internal/infra/storage"
	"go-heartbeat/pkg/log"
	"go-heartbeat/pkg/mqtt"
	pkgrabbitmq "go-heartbeat/pkg/rabbitmq"
)

// Bus is the message bus selected by BUS_DRIVER. Sender is set for the
// publisher, Listener for the subscriber.
type Bus struct {
	Sender   queue.Sender
	Listener queue.Listener
	closers  []func() error
}

// Close releases every connection opened for the bus, last opened first.
func (b *Bus) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) onClose(closer func() error) {
	b.closers = append(b.closers, closer)
}

// NewPublisherBus connects the sending side of the configured bus.
func NewPublisherBus(ctx context.Context, config *configs.EnvConfig) (*Bus, error) {
	return open(ctx, config, configs.ModePublisher)
}

// NewSubscriberBus connects the listening side of the configured bus.
func NewSubscriberBus(ctx context.Context, config *configs.EnvConfig) (*Bus, error) {
	return open(ctx, config, configs.ModeSubscriber)
}

func open(ctx context.Context, config *configs.EnvConfig, mode string) (*Bus, error) {
	b := &Bus{}
	var err error

	switch config.BusDriver {
	case configs.BusAMQP:
		err = b.openAMQP(config, mode)
	case configs.BusSQS:
		err = b.openSQS(ctx, config, mode)
	case configs.BusRedis:
		err = b.openRedis(config, mode)
	case configs.BusMQTT:
		err = b.openMQTT(config, mode)
	default:
		err = fmt.Errorf("unknown bus driver %q", config.BusDriver)
	}

	if err != nil {
		_ = b.Close()
		return nil, err
	}
	log.Infof("Connected to %s bus as %s", config.BusDriver, mode)
	return b, nil
}

func (b *Bus) openAMQP(config *configs.EnvConfig, mode string) error {
	rmq := config.RabbitMQ
	conn, err := rabbitmq.Dial(rmq)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ at %s:%d: %w", rmq.Host, rmq.Port, err)
	}
	b.onClose(conn.Close)

	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	b.onClose(channel.Close)

	if err := pkgrabbitmq.DeclareQueue(channel, rmq.Queue, rmq.Exchange, rmq.EffectiveRoutingKey()); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", rmq.Queue, err)
	}

	if mode == configs.ModePublisher {
		b.Sender = rabbitmq.NewSenderAdapter(channel, rmq.Exchange, config.ApplicationName)
		return nil
	}

	listener, err := rabbitmq.NewListenerAdapter(channel, rmq.Queue, config.ApplicationName)
	if err != nil {
		return err
	}
	b.Listener = listener
	return nil
}

func (b *Bus) openSQS(ctx context.Context, config *configs.EnvConfig, mode string) error {
	awsConfig, err := aws.LoadConfig(ctx, config.SQS)
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	client := aws.NewSqsClient(awsConfig, config.SQS.Endpoint)

	if mode == configs.ModePublisher {
		b.Sender = aws.NewSQSSenderAdapter(client)
		return nil
	}

	listener, err := aws.NewSQSListenerAdapter(ctx, client, config.RabbitMQ.EffectiveRoutingKey())
	if err != nil {
		return err
	}
	b.Listener = listener
	return nil
}

func (b *Bus) openRedis(config *configs.EnvConfig, mode string) error {
	client, err := storage.NewRedisClient(config.Redis)
	if err != nil {
		return err
	}
	b.onClose(client.Close)

	if mode == configs.ModePublisher {
		b.Sender = NewRedisSenderAdapter(client)
		return nil
	}
	b.Listener = NewRedisListenerAdapter(client, config.RabbitMQ.EffectiveRoutingKey())
	return nil
}

func (b *Bus) openMQTT(config *configs.EnvConfig, mode string) error {
	client := mqtt.NewClient(mqtt.Options{
		Broker:   config.MQTT.Broker,
		ClientID: config.MQTT.ClientID + "-" + mode,
		Username: config.MQTT.Username,
		Password: config.MQTT.Password,
	})
	if err := mqtt.Connect(client); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker %s: %w", config.MQTT.Broker, err)
	}
	b.onClose(func() error {
		client.Disconnect(250)
		return nil
	})

	if mode == configs.ModePublisher {
		b.Sender = NewMQTTSenderAdapter(client, config.MQTT.QoS)
		return nil
	}

	listener, err := NewMQTTListenerAdapter(client, config.RabbitMQ.EffectiveRoutingKey(), config.MQTT.QoS)
	if err != nil {
		return err
	}
	b.Listener = listener
	return nil
}
