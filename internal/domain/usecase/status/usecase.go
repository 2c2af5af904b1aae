package status

import (
	"context"

	"go-heartbeat/internal/domain/model"
)

type UseCase interface {
	// GetHeartbeat resolves the current status of every service and queue found
	// in the status store.
	GetHeartbeat(ctx context.Context) (model.Heartbeat, error)
}
