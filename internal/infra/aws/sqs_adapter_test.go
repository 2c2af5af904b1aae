package aws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-heartbeat/internal/domain/gateway/queue"
)

type stubSQS struct {
	mu      sync.Mutex
	pending []types.Message
	deleted []string
}

func (s *stubSQS) GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error) {
	return &sqs.GetQueueUrlOutput{QueueUrl: aws.String("http://localhost:4566/000000000000/" + aws.ToString(params.QueueName))}, nil
}

func (s *stubSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	return &sqs.SendMessageOutput{MessageId: aws.String("id")}, nil
}

func (s *stubSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	s.mu.Lock()
	if len(s.pending) > 0 {
		batch := s.pending[:1]
		s.pending = s.pending[1:]
		s.mu.Unlock()
		return &sqs.ReceiveMessageOutput{Messages: batch}, nil
	}
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Millisecond):
		return &sqs.ReceiveMessageOutput{}, nil
	}
}

func (s *stubSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func (s *stubSQS) deletedHandles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

func TestSQSListenerAdapter_AckPolicy(t *testing.T) {
	client := &stubSQS{pending: []types.Message{
		{MessageId: aws.String("1"), ReceiptHandle: aws.String("ok"), Body: aws.String("projected")},
		{MessageId: aws.String("2"), ReceiptHandle: aws.String("garbage"), Body: aws.String("not json")},
		{MessageId: aws.String("3"), ReceiptHandle: aws.String("store-down"), Body: aws.String("redis down")},
		{MessageId: aws.String("4"), ReceiptHandle: aws.String("empty")},
	}}
	listener, err := NewSQSListenerAdapter(context.Background(), client, "heartbeat")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = listener.Listen(ctx, func(ctx context.Context, body []byte) error {
			switch string(body) {
			case "not json":
				return fmt.Errorf("%w: invalid character 'o'", queue.ErrUnprocessable)
			case "redis down":
				return errors.New("connection refused")
			}
			return nil
		})
	}()

	require.Eventually(t, func() bool {
		processed, failed := listener.Stats()
		return processed+failed == 4
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.ElementsMatch(t, []string{"ok", "garbage", "empty"}, client.deletedHandles())
	processed, failed := listener.Stats()
	assert.Equal(t, int64(1), processed)
	assert.Equal(t, int64(3), failed)
}
