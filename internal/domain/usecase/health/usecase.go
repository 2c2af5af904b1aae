package health

import "go-heartbeat/internal/domain/model"

type UseCase interface {
	CheckHealth() model.HealthResponse
}
