package health

import (
	"go-heartbeat/internal/domain/gateway/queue"
	"go-heartbeat/internal/domain/gateway/store"
	"go-heartbeat/internal/domain/model"
)

type healthUseCase struct {
	statusStore  store.StatusStore
	queueGateway queue.HealthGateway
}

func NewHealthUseCase(statusStore store.StatusStore, queueGateway queue.HealthGateway) UseCase {
	return &healthUseCase{
		statusStore:  statusStore,
		queueGateway: queueGateway,
	}
}

func (useCase *healthUseCase) CheckHealth() model.HealthResponse {
	storeHealth := useCase.statusStore.Health()
	busHealth := useCase.queueGateway.Health()

	overallStatus := model.StatusUp
	if storeHealth.Status != model.StatusUp || busHealth.Status == model.StatusDown {
		overallStatus = model.StatusDown
	}

	return model.HealthResponse{
		Status: overallStatus,
		Store:  storeHealth,
		Bus:    busHealth,
	}
}
