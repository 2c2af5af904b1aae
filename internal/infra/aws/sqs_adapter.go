package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"go-heartbeat/internal/domain/gateway/queue"
	"go-heartbeat/pkg/sqs"
)

// SQSSenderAdapter adapts the pkg/sqs.Sender to implement domain queue.Sender interface
type SQSSenderAdapter struct {
	sqsSender *sqs.Sender
}

var _ queue.Sender = (*SQSSenderAdapter)(nil)

// NewSQSSenderAdapter creates a new SQS sender adapter that implements domain interface
func NewSQSSenderAdapter(sqsClient sqs.SQSClient) *SQSSenderAdapter {
	return &SQSSenderAdapter{
		sqsSender: sqs.NewSender(sqsClient),
	}
}

// SendMessage uses the routing key as the queue name
func (adapter *SQSSenderAdapter) SendMessage(ctx context.Context, routingKey string, body []byte) error {
	return adapter.sqsSender.SendMessage(ctx, routingKey, body)
}

// SQSListenerAdapter exposes a pkg/sqs.Worker as a domain queue.Listener
type SQSListenerAdapter struct {
	worker *sqs.Worker
}

var _ queue.Listener = (*SQSListenerAdapter)(nil)

func NewSQSListenerAdapter(ctx context.Context, sqsClient sqs.SQSClient, queueName string) (*SQSListenerAdapter, error) {
	worker, err := sqs.NewWorker(ctx, sqsClient, queueName, &sqs.WorkerConfig{LogLevel: sqs.ErrorLevel})
	if err != nil {
		return nil, err
	}
	return &SQSListenerAdapter{worker: worker}, nil
}

// Listen leaves failed messages for redelivery, except unprocessable ones,
// which are deleted.
func (adapter *SQSListenerAdapter) Listen(ctx context.Context, handler queue.MessageHandler) error {
	adapter.worker.Start(ctx, sqs.HandlerFunc(func(ctx context.Context, msg types.Message) error {
		if msg.Body == nil {
			return fmt.Errorf("%w: received message %s without body", sqs.ErrDiscard, aws.ToString(msg.MessageId))
		}
		err := handler(ctx, []byte(*msg.Body))
		if errors.Is(err, queue.ErrUnprocessable) {
			return fmt.Errorf("%w: %w", sqs.ErrDiscard, err)
		}
		return err
	}))
	return nil
}

func (adapter *SQSListenerAdapter) IsRunning() bool {
	return adapter.worker.IsRunning()
}

func (adapter *SQSListenerAdapter) Stats() (int64, int64) {
	return adapter.worker.Stats()
}
