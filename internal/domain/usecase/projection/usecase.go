package projection

import "context"

type UseCase interface {
	// Project parses a serialized heartbeat and writes one key per component
	// status. It returns the number of keys written. Failures are returned as
	// *entity.ProjectionError; keys written before a store failure stay written.
	Project(ctx context.Context, body []byte) (int, error)
}
