package store

import (
	"context"

	"go-heartbeat/internal/domain/model"
)

// StatusStore is the key-value store the heartbeat is projected into. Writes
// are independent: there is no transaction across keys and no TTL.
type StatusStore interface {
	Set(ctx context.Context, key, value string) error
	// Get returns found=false for a missing key.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Keys returns the keys matching a glob pattern such as "service:*".
	Keys(ctx context.Context, pattern string) ([]string, error)
	Health() model.ComponentHealthStatus
}
