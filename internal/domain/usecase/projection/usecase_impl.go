package projection

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"go-heartbeat/internal/domain/entity"
	"go-heartbeat/internal/domain/gateway/store"
	"go-heartbeat/pkg/log"
	"go-heartbeat/pkg/msg"
)

type projectionUseCase struct {
	store store.StatusStore
}

func NewProjectionUseCase(store store.StatusStore) UseCase {
	return &projectionUseCase{store: store}
}

type write struct {
	key   string
	value string
}

// envelope is the wire form of a heartbeat. RMQConsumers is a pointer so an
// absent section can be told apart from an empty one.
type envelope struct {
	Status       string                   `json:"status"`
	Service      string                   `json:"service"`
	Timestamp    string                   `json:"timestamp"`
	Hosts        []entity.ComponentStatus `json:"hosts"`
	RMQConsumers *entity.ConsumerAudit    `json:"rmq_consumers"`
}

func (uc *projectionUseCase) Project(ctx context.Context, body []byte) (int, error) {
	var report envelope
	if err := json.Unmarshal(body, &report); err != nil {
		return 0, &entity.ProjectionError{Err: fmt.Errorf("invalid heartbeat message: %w", err)}
	}

	writes, err := keysOf(report)
	if err != nil {
		return 0, &entity.ProjectionError{Err: err}
	}

	for i, w := range writes {
		if err := uc.store.Set(ctx, w.key, w.value); err != nil {
			return i, &entity.ProjectionError{Key: w.key, Err: err}
		}
		log.Debug(msg.GetMessage("subscriber.key-set", w.key, w.value), zap.String("key", w.key))
	}

	return len(writes), nil
}

// keysOf validates the envelope and every entry before anything is written,
// so a malformed report writes nothing.
func keysOf(report envelope) ([]write, error) {
	if report.Status != entity.ReportKindHeartbeat || report.Service != entity.ReportRolePublisher {
		return nil, fmt.Errorf("not a heartbeat report: status %q, service %q", report.Status, report.Service)
	}
	if report.RMQConsumers == nil {
		return nil, fmt.Errorf("heartbeat report without rmq_consumers")
	}

	groups := []struct {
		kind     entity.KeyKind
		statuses []entity.ComponentStatus
	}{
		{entity.KeyKindService, report.Hosts},
		{entity.KeyKindService, report.RMQConsumers.ServicesStatus},
		{entity.KeyKindQueue, report.RMQConsumers.QueuesStatus},
	}

	var writes []write
	for _, group := range groups {
		for _, s := range group.statuses {
			if s.Name == "" {
				return nil, fmt.Errorf("%s entry without name", group.kind)
			}
			status, err := entity.ParseStatus(string(s.Status))
			if err != nil {
				return nil, fmt.Errorf("%s entry %q: %w", group.kind, s.Name, err)
			}
			if _, err := entity.ParseTimestamp(s.Timestamp); err != nil {
				return nil, fmt.Errorf("%s entry %q: invalid timestamp %q", group.kind, s.Name, s.Timestamp)
			}
			writes = append(writes, write{
				key:   entity.StatusKey(group.kind, s.Name, status),
				value: s.Timestamp,
			})
		}
	}
	return writes, nil
}
