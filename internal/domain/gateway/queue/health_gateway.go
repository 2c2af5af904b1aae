package queue

import "go-heartbeat/internal/domain/model"

type HealthGateway interface {
	Health() model.ComponentHealthStatus
	RegisterListener(name string, listener Listener)
	UnregisterListener(name string)
}
