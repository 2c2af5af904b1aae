package consumeraudit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-heartbeat/internal/domain/entity"
	"go-heartbeat/internal/domain/gateway/broker"
	"go-heartbeat/pkg/log"
	"go-heartbeat/pkg/msg"
)

type consumerAuditUseCase struct {
	gateway broker.ConsumerGateway
	matcher TagMatcher
	now     func() time.Time
}

func NewConsumerAuditUseCase(gateway broker.ConsumerGateway, matcher TagMatcher, now func() time.Time) UseCase {
	if matcher == nil {
		matcher = NewRegexTagMatcher()
	}
	if now == nil {
		now = time.Now
	}
	return &consumerAuditUseCase{
		gateway: gateway,
		matcher: matcher,
		now:     now,
	}
}

func (uc *consumerAuditUseCase) Collect(ctx context.Context, queues []entity.QueueTarget) entity.ConsumerAudit {
	consumers := make([][]entity.Consumer, len(queues))

	var wg sync.WaitGroup
	for i, queue := range queues {
		wg.Add(1)
		go func(i int, queue entity.QueueTarget) {
			defer wg.Done()
			consumers[i] = uc.lookup(ctx, queue)
		}(i, queue)
	}
	wg.Wait()

	return uc.Audit(queues, consumers)
}

func (uc *consumerAuditUseCase) lookup(ctx context.Context, queue entity.QueueTarget) []entity.Consumer {
	log.Info(msg.GetMessage("audit.queue-check", queue.Queue, queue.VHost),
		zap.String("queue", queue.Queue),
		zap.String("vhost", queue.VHost),
	)

	consumers, err := uc.gateway.ListConsumers(ctx, queue.VHost, queue.Queue)
	if err != nil {
		log.Warn(msg.GetMessage("audit.queue-lookup-failed", queue.Queue, err),
			zap.String("queue", queue.Queue),
			zap.String("vhost", queue.VHost),
			zap.Error(err),
		)
		return nil
	}
	return consumers
}

func (uc *consumerAuditUseCase) Audit(queues []entity.QueueTarget, consumers [][]entity.Consumer) entity.ConsumerAudit {
	audit := entity.ConsumerAudit{
		QueuesStatus:   make([]entity.ComponentStatus, 0, len(queues)),
		ServicesStatus: make([]entity.ComponentStatus, 0),
	}

	for i, queue := range queues {
		var actual []entity.Consumer
		if i < len(consumers) {
			actual = consumers[i]
		}

		queueOk := true
		for _, listener := range queue.Listeners {
			log.Debug(msg.GetMessage("audit.listener-check", listener.Name, listener.Tag, queue.Queue))

			found := uc.isListening(listener, actual)
			queueOk = queueOk && found
			audit.ServicesStatus = append(audit.ServicesStatus,
				entity.NewComponentStatus(listener.Name, entity.StatusOf(found), uc.now()))
		}

		audit.QueuesStatus = append(audit.QueuesStatus,
			entity.NewComponentStatus(queue.Queue, entity.StatusOf(queueOk), uc.now()))
	}

	return audit
}

// isListening reports whether an active consumer carries a tag matching the
// listener pattern.
func (uc *consumerAuditUseCase) isListening(listener entity.Listener, consumers []entity.Consumer) bool {
	for _, consumer := range consumers {
		matched, err := uc.matcher.Match(listener.Tag, consumer.ConsumerTag)
		if err != nil {
			log.Warn(msg.GetMessage("audit.invalid-pattern", listener.Tag, listener.Name, err),
				zap.String("service", listener.Name),
				zap.String("pattern", listener.Tag),
			)
			return false
		}
		if matched && consumer.IsActive() {
			return true
		}
	}
	return false
}
