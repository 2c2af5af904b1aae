package heartbeat

import (
	"context"
	"time"

	"go-heartbeat/internal/domain/entity"
)

type UseCase interface {
	// Collect probes hosts and audits consumers in parallel and assembles one
	// report stamped with capturedAt.
	Collect(ctx context.Context, targets entity.Targets, capturedAt time.Time) entity.HeartbeatReport
	// Publish sends the report once. Transport failures are returned as
	// *entity.PublishError.
	Publish(ctx context.Context, report entity.HeartbeatReport) error
	// RoutingKey is the key reports are published with.
	RoutingKey() string
}
