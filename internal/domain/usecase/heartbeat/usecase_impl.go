package heartbeat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go-heartbeat/internal/domain/entity"
	"go-heartbeat/internal/domain/gateway/queue"
	"go-heartbeat/internal/domain/usecase/consumeraudit"
	"go-heartbeat/internal/domain/usecase/hostprobe"
)

type heartbeatUseCase struct {
	routingKey  string
	hostProbe   hostprobe.UseCase
	consumers   consumeraudit.UseCase
	queueSender queue.Sender
}

func NewHeartbeatUseCase(routingKey string, hostProbe hostprobe.UseCase, consumers consumeraudit.UseCase, queueSender queue.Sender) UseCase {
	return &heartbeatUseCase{
		routingKey:  routingKey,
		hostProbe:   hostProbe,
		consumers:   consumers,
		queueSender: queueSender,
	}
}

func (uc *heartbeatUseCase) RoutingKey() string {
	return uc.routingKey
}

func (uc *heartbeatUseCase) Collect(ctx context.Context, targets entity.Targets, capturedAt time.Time) entity.HeartbeatReport {
	var (
		wg    sync.WaitGroup
		hosts []entity.ComponentStatus
		audit entity.ConsumerAudit
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		hosts = uc.hostProbe.Probe(ctx, targets.Hosts)
	}()
	go func() {
		defer wg.Done()
		audit = uc.consumers.Collect(ctx, targets.Queues)
	}()
	wg.Wait()

	return Build(hosts, audit, capturedAt)
}

func (uc *heartbeatUseCase) Publish(ctx context.Context, report entity.HeartbeatReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return &entity.PublishError{RoutingKey: uc.routingKey, Err: err}
	}

	if err := uc.queueSender.SendMessage(ctx, uc.routingKey, body); err != nil {
		return &entity.PublishError{RoutingKey: uc.routingKey, Err: err}
	}
	return nil
}
