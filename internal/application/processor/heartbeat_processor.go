package processor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"go-heartbeat/internal/domain/entity"
	"go-heartbeat/internal/domain/gateway/queue"
	"go-heartbeat/internal/domain/usecase/projection"
	"go-heartbeat/pkg/log"
	"go-heartbeat/pkg/msg"
)

// ProjectionObserver is notified after every received heartbeat.
type ProjectionObserver interface {
	ObserveProjection(keysWritten int, err error)
}

// HeartbeatProcessor projects heartbeats received from the bus into the
// status store.
type HeartbeatProcessor struct {
	useCase  projection.UseCase
	observer ProjectionObserver
}

func NewHeartbeatProcessor(useCase projection.UseCase, observer ProjectionObserver) *HeartbeatProcessor {
	return &HeartbeatProcessor{
		useCase:  useCase,
		observer: observer,
	}
}

// HandleMessage has the queue.MessageHandler signature. The returned error
// drives the transport's ack policy.
func (p *HeartbeatProcessor) HandleMessage(ctx context.Context, body []byte) error {
	log.Debug(msg.GetMessage("subscriber.received", len(body)))

	written, err := p.useCase.Project(ctx, body)
	if p.observer != nil {
		p.observer.ObserveProjection(written, err)
	}

	if err != nil {
		log.Error(msg.GetMessage("subscriber.failed", err),
			zap.Int("keys_written", written),
			zap.Error(err),
		)
		var projErr *entity.ProjectionError
		if errors.As(err, &projErr) && projErr.Key == "" {
			return fmt.Errorf("%w: %w", queue.ErrUnprocessable, err)
		}
		return err
	}

	log.Info(msg.GetMessage("subscriber.projected", written))
	return nil
}
