package sqs

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"go-heartbeat/pkg/log"
)

// ErrDiscard marks a handler error as permanent. The message is counted as
// failed and deleted instead of being left for redelivery.
var ErrDiscard = errors.New("discard message")

// HandlerFunc defines a function that handles a SQS Message
type HandlerFunc func(ctx context.Context, msg types.Message) error

// HandleMessage implements the Handler interface for HandlerFunc
func (f HandlerFunc) HandleMessage(ctx context.Context, msg types.Message) error {
	return f(ctx, msg)
}

// Handler defines an interface that processes a SQS Message
type Handler interface {
	HandleMessage(ctx context.Context, msg types.Message) error
}

// LogLevel represents the logging level for the Worker
type LogLevel int

const (
	// Silent disables all logs
	Silent LogLevel = iota
	// ErrorLevel logs only errors
	ErrorLevel
	// InfoLevel logs informational and error messages
	InfoLevel
)

// WorkerConfig defines the configuration options for a Worker
type WorkerConfig struct {
	MaxNumberOfMessages int32
	WaitTimeSeconds     int32
	LogLevel            LogLevel
}

// Worker polls a SQS queue and processes the received messages one at a time,
// in receive order.
type Worker struct {
	sqsClient           SQSClient
	queueName           string
	queueURL            string
	maxNumberOfMessages int32
	waitTimeSeconds     int32
	logLevel            LogLevel
	errorDelay          time.Duration
	isRunning           int32
	messagesProcessed   int64
	messagesFailed      int64
}

// NewWorker creates and returns a new Worker.
//
// If the provided WorkerConfig is nil or its fields are zero,
// the following defaults will be used:
//   - MaxNumberOfMessages: 1
//   - WaitTimeSeconds: 20
//   - LogLevel: Silent
//
// Validations:
//   - MaxNumberOfMessages must be between 1 and 10.
//   - WaitTimeSeconds must be between 1 and 20.
func NewWorker(ctx context.Context, sqsClient SQSClient, queueName string, config *WorkerConfig) (*Worker, error) {
	var maxMessages int32 = 1
	var waitTime int32 = 20
	var logLevel = Silent

	if config != nil {
		if config.MaxNumberOfMessages != 0 {
			maxMessages = config.MaxNumberOfMessages
		}
		if config.WaitTimeSeconds != 0 {
			waitTime = config.WaitTimeSeconds
		}
		logLevel = config.LogLevel
	}

	if maxMessages < 1 || maxMessages > 10 {
		return nil, errors.New("maxNumberOfMessages must be between 1 and 10")
	}
	if waitTime < 1 || waitTime > 20 {
		return nil, errors.New("waitTimeSeconds must be between 1 and 20")
	}

	queueURL, err := resolveQueueURL(ctx, sqsClient, queueName)
	if err != nil {
		return nil, fmt.Errorf("unable to get queue URL: %w", err)
	}

	return &Worker{
		sqsClient:           sqsClient,
		queueName:           queueName,
		queueURL:            queueURL,
		maxNumberOfMessages: maxMessages,
		waitTimeSeconds:     waitTime,
		logLevel:            logLevel,
		errorDelay:          time.Second,
	}, nil
}

// Start polls until ctx is canceled. A message is deleted only after its
// handler succeeds; failed messages become visible again after the queue's
// visibility timeout.
func (w *Worker) Start(ctx context.Context, handler Handler) {
	atomic.StoreInt32(&w.isRunning, 1)
	defer atomic.StoreInt32(&w.isRunning, 0)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		output, err := w.sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(w.queueURL),
			MaxNumberOfMessages: w.maxNumberOfMessages,
			WaitTimeSeconds:     w.waitTimeSeconds,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logf(ErrorLevel, "failed to receive messages from %s: %v", w.queueName, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.errorDelay):
			}
			continue
		}

		for _, msg := range output.Messages {
			w.handleMessage(ctx, handler, msg)
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, handler Handler, msg types.Message) {
	if err := handler.HandleMessage(ctx, msg); err != nil {
		atomic.AddInt64(&w.messagesFailed, 1)
		w.logf(ErrorLevel, "error processing message ID %s: %v", safeMessageID(msg), err)
		if !errors.Is(err, ErrDiscard) {
			return
		}
	} else {
		atomic.AddInt64(&w.messagesProcessed, 1)
	}

	_, err := w.sqsClient.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(w.queueURL),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		w.logf(ErrorLevel, "failed to delete message ID %s: %v", safeMessageID(msg), err)
	} else {
		w.logf(InfoLevel, "successfully deleted message ID %s", safeMessageID(msg))
	}
}

// IsRunning reports whether Start is polling.
func (w *Worker) IsRunning() bool {
	return atomic.LoadInt32(&w.isRunning) == 1
}

// Stats returns the processed and failed message counters.
func (w *Worker) Stats() (processed int64, failed int64) {
	return atomic.LoadInt64(&w.messagesProcessed), atomic.LoadInt64(&w.messagesFailed)
}

func (w *Worker) logf(level LogLevel, format string, v ...interface{}) {
	if w.logLevel == Silent {
		log.Debugf(format, v...)
	}
	if level == ErrorLevel && (w.logLevel == ErrorLevel || w.logLevel == InfoLevel) {
		log.Errorf(format, v...)
	}
	if level == InfoLevel && w.logLevel == InfoLevel {
		log.Infof(format, v...)
	}
}

func safeMessageID(msg types.Message) string {
	if msg.MessageId == nil {
		return ""
	}
	return *msg.MessageId
}
