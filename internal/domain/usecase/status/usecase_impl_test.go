package status

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-heartbeat/internal/domain/entity"
	"go-heartbeat/internal/domain/gateway/store"
	"go-heartbeat/internal/domain/model"
	"go-heartbeat/pkg/redis"
)

func newStatusUseCase(t *testing.T, keys map[string]string) UseCase {
	t.Helper()
	server := miniredis.RunT(t)
	for key, value := range keys {
		require.NoError(t, server.Set(key, value))
	}

	port, err := strconv.Atoi(server.Port())
	require.NoError(t, err)
	client, err := redis.NewClient(redis.DefaultConfig().WithHost(server.Host()).WithPort(port))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewStatusUseCase(store.NewRedisStatusStore(client), 10*time.Minute, 3*time.Minute)
}

func ts(minute int) string {
	return entity.FormatTimestamp(time.Date(2024, 5, 3, 12, minute, 0, 0, time.UTC))
}

func find(t *testing.T, views []model.ComponentView, name string) model.ComponentView {
	t.Helper()
	for _, view := range views {
		if view.Name == name {
			return view
		}
	}
	require.Failf(t, "component not found", "%s", name)
	return model.ComponentView{}
}

func TestGetHeartbeat_AllOk(t *testing.T) {
	uc := newStatusUseCase(t, map[string]string{
		"service:svc1:ok": ts(5),
		"queue:orders:ok": ts(5),
	})

	heartbeat, err := uc.GetHeartbeat(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.AllOk, heartbeat.Status)
	assert.Equal(t, "All services and queues are up and running", heartbeat.Description)
	svc := find(t, heartbeat.Services, "svc1")
	assert.Equal(t, entity.StatusOk, svc.Status)
	require.NotNil(t, svc.LastSeenOk)
	assert.Nil(t, svc.LastSeenFailed)
}

func TestGetHeartbeat_OkNewerBeyondThreshold(t *testing.T) {
	uc := newStatusUseCase(t, map[string]string{
		"service:svc1:ok":     ts(20),
		"service:svc1:not_ok": ts(5),
	})

	heartbeat, err := uc.GetHeartbeat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOk, find(t, heartbeat.Services, "svc1").Status)
	assert.Equal(t, model.AllOk, heartbeat.Status)
}

func TestGetHeartbeat_FailedNewerBeyondThreshold(t *testing.T) {
	uc := newStatusUseCase(t, map[string]string{
		"service:svc1:ok":     ts(5),
		"service:svc1:not_ok": ts(9),
		"queue:orders:ok":     ts(9),
	})

	heartbeat, err := uc.GetHeartbeat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusNotOk, find(t, heartbeat.Services, "svc1").Status)
	assert.Equal(t, model.MissingServices, heartbeat.Status)
}

func TestGetHeartbeat_WithinThresholdUsesLastEvaluatedKey(t *testing.T) {
	// "svc1:ok" sorts after "svc1:not_ok" and is evaluated last.
	uc := newStatusUseCase(t, map[string]string{
		"service:svc1:ok":     ts(5),
		"service:svc1:not_ok": ts(6),
	})

	heartbeat, err := uc.GetHeartbeat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOk, find(t, heartbeat.Services, "svc1").Status)
}

func TestGetHeartbeat_OverallStatuses(t *testing.T) {
	tests := []struct {
		name     string
		keys     map[string]string
		expected model.OverallStatus
	}{
		{"empty store", map[string]string{}, model.AllOk},
		{"queue down", map[string]string{"service:a:ok": ts(1), "queue:q:not_ok": ts(1)}, model.MissingQueues},
		{"both down", map[string]string{"service:a:not_ok": ts(1), "queue:q:not_ok": ts(1)}, model.MissingServicesAndQueues},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			heartbeat, err := newStatusUseCase(t, tt.keys).GetHeartbeat(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, heartbeat.Status)
			assert.Equal(t, tt.expected.Description(), heartbeat.Description)
		})
	}
}

func TestGetHeartbeat_IgnoresUnknownStatusAndBadTimestamps(t *testing.T) {
	uc := newStatusUseCase(t, map[string]string{
		"service:svc1:degraded": ts(1),
		"service:svc2:not_ok":   "yesterday",
	})

	heartbeat, err := uc.GetHeartbeat(context.Background())
	require.NoError(t, err)

	require.Len(t, heartbeat.Services, 1)
	svc2 := heartbeat.Services[0]
	assert.Equal(t, "svc2", svc2.Name)
	assert.Equal(t, entity.StatusNotOk, svc2.Status)
	assert.Nil(t, svc2.LastSeenFailed)
}
