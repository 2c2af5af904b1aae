package hostprobe

import (
	"context"

	"go-heartbeat/internal/domain/entity"
)

type UseCase interface {
	// Probe checks every target and returns one status per target, in target
	// order. Unreachable hosts are reported as not_ok, never as an error.
	Probe(ctx context.Context, targets []entity.HostTarget) []entity.ComponentStatus
}
