package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-heartbeat/internal/domain/model"
)

type stubListener struct {
	running bool
}

func (l *stubListener) Listen(ctx context.Context, handler MessageHandler) error { return nil }
func (l *stubListener) IsRunning() bool                                          { return l.running }
func (l *stubListener) Stats() (int64, int64)                                    { return 3, 1 }

func TestQueueHealthGateway_Health(t *testing.T) {
	gateway := NewQueueHealthGateway()
	assert.Equal(t, model.StatusUnknown, gateway.Health().Status)

	listener := &stubListener{running: true}
	gateway.RegisterListener("heartbeat", listener)
	health := gateway.Health()
	assert.Equal(t, model.StatusUp, health.Status)
	assert.Equal(t, "3", health.Details["heartbeat_processed"])
	assert.Equal(t, "1", health.Details["heartbeat_failed"])

	listener.running = false
	assert.Equal(t, model.StatusDown, gateway.Health().Status)

	gateway.UnregisterListener("heartbeat")
	assert.Equal(t, model.StatusUnknown, gateway.Health().Status)
}
