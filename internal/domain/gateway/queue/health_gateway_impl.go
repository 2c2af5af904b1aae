package queue

import (
	"strconv"
	"sync"

	"go-heartbeat/internal/domain/model"
)

type QueueHealthGateway struct {
	listeners map[string]Listener
	mutex     sync.RWMutex
}

var _ HealthGateway = (*QueueHealthGateway)(nil)

func NewQueueHealthGateway() *QueueHealthGateway {
	return &QueueHealthGateway{
		listeners: make(map[string]Listener),
	}
}

func (gateway *QueueHealthGateway) RegisterListener(name string, listener Listener) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()
	gateway.listeners[name] = listener
}

func (gateway *QueueHealthGateway) UnregisterListener(name string) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()
	delete(gateway.listeners, name)
}

func (gateway *QueueHealthGateway) Health() model.ComponentHealthStatus {
	gateway.mutex.RLock()
	defer gateway.mutex.RUnlock()

	if len(gateway.listeners) == 0 {
		return model.ComponentHealthStatus{
			Status: model.StatusUnknown,
			Details: map[string]string{
				"message":         "No listeners registered",
				"listeners_count": "0",
			},
		}
	}

	overallStatus := model.StatusUp
	details := make(map[string]string)
	listenersUp := 0

	for name, listener := range gateway.listeners {
		processed, failed := listener.Stats()
		details[name+"_processed"] = strconv.FormatInt(processed, 10)
		details[name+"_failed"] = strconv.FormatInt(failed, 10)

		if listener.IsRunning() {
			listenersUp++
			details[name+"_status"] = string(model.StatusUp)
		} else {
			overallStatus = model.StatusDown
			details[name+"_status"] = string(model.StatusDown)
		}
	}

	details["listeners_total"] = strconv.Itoa(len(gateway.listeners))
	details["listeners_up"] = strconv.Itoa(listenersUp)

	return model.ComponentHealthStatus{
		Status:  overallStatus,
		Details: details,
	}
}
