package heartbeat

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-heartbeat/internal/domain/entity"
	"go-heartbeat/internal/domain/usecase/consumeraudit"
	"go-heartbeat/internal/domain/usecase/hostprobe"
)

var capturedAt = time.Date(2024, 5, 3, 12, 7, 9, 0, time.UTC)

func fixedNow() time.Time { return capturedAt }

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendMessage(ctx context.Context, routingKey string, body []byte) error {
	return m.Called(ctx, routingKey, body).Error(0)
}

type refusingDialer struct{}

func (refusingDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return nil, errors.New("connect: connection refused")
}

type staticConsumers map[string][]entity.Consumer

func (s staticConsumers) ListConsumers(ctx context.Context, vhost, queue string) ([]entity.Consumer, error) {
	consumers, ok := s[queue]
	if !ok {
		return nil, errors.New("management API returned 404")
	}
	return consumers, nil
}

func newUseCase(consumers staticConsumers, sender *mockSender) UseCase {
	return NewHeartbeatUseCase("service.heartbeat",
		hostprobe.NewHostProbeUseCase(refusingDialer{}, time.Second, fixedNow),
		consumeraudit.NewConsumerAuditUseCase(consumers, nil, fixedNow),
		sender,
	)
}

func TestBuild_EmptyInputsEncodeAsArrays(t *testing.T) {
	report := Build(nil, entity.ConsumerAudit{}, capturedAt)

	body, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"status": "heartbeat",
		"service": "publisher",
		"timestamp": "2024-05-03 12:07:09 UTC",
		"hosts": [],
		"rmq_consumers": {"queues_status": [], "services_status": []}
	}`, string(body))
}

func TestBuild_FieldOrder(t *testing.T) {
	report := Build([]entity.ComponentStatus{entity.NewComponentStatus("db", entity.StatusOk, capturedAt)}, entity.ConsumerAudit{}, capturedAt)

	body, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Equal(t,
		`{"status":"heartbeat","service":"publisher","timestamp":"2024-05-03 12:07:09 UTC",`+
			`"hosts":[{"name":"db","status":"ok","timestamp":"2024-05-03 12:07:09 UTC"}],`+
			`"rmq_consumers":{"queues_status":[],"services_status":[]}}`,
		string(body))
}

func TestCollect_UnreachableHost(t *testing.T) {
	uc := newUseCase(staticConsumers{}, new(mockSender))

	report := uc.Collect(context.Background(), entity.Targets{
		Hosts: []entity.HostTarget{{Host: "10.0.0.5", Port: 5672, Name: "broker1"}},
	}, capturedAt)

	require.Len(t, report.Hosts, 1)
	assert.Equal(t, entity.ComponentStatus{Name: "broker1", Status: entity.StatusNotOk, Timestamp: "2024-05-03 12:07:09 UTC"}, report.Hosts[0])
}

func TestCollect_ConsumerScenarios(t *testing.T) {
	orders := entity.QueueTarget{Queue: "orders", Listeners: []entity.Listener{{Tag: "worker-.*", Name: "order-worker"}}}

	t.Run("matching consumer", func(t *testing.T) {
		uc := newUseCase(staticConsumers{"orders": {{ConsumerTag: "worker-07", ActivityStatus: "up"}}}, new(mockSender))
		report := uc.Collect(context.Background(), entity.Targets{Queues: []entity.QueueTarget{orders}}, capturedAt)

		assert.Equal(t, "order-worker", report.RMQConsumers.ServicesStatus[0].Name)
		assert.Equal(t, entity.StatusOk, report.RMQConsumers.ServicesStatus[0].Status)
		assert.Equal(t, "orders", report.RMQConsumers.QueuesStatus[0].Name)
		assert.Equal(t, entity.StatusOk, report.RMQConsumers.QueuesStatus[0].Status)
	})

	t.Run("lookup failed", func(t *testing.T) {
		uc := newUseCase(staticConsumers{}, new(mockSender))
		report := uc.Collect(context.Background(), entity.Targets{Queues: []entity.QueueTarget{orders}}, capturedAt)

		assert.Equal(t, entity.StatusNotOk, report.RMQConsumers.ServicesStatus[0].Status)
		assert.Equal(t, entity.StatusNotOk, report.RMQConsumers.QueuesStatus[0].Status)
	})
}

func TestCollect_ReportShape(t *testing.T) {
	uc := newUseCase(staticConsumers{"a": {}, "b": {}}, new(mockSender))
	report := uc.Collect(context.Background(), entity.Targets{
		Hosts:  []entity.HostTarget{{Host: "h1", Port: 1}, {Host: "h2", Port: 2}},
		Queues: []entity.QueueTarget{
			{Queue: "a", Listeners: []entity.Listener{{Tag: "x", Name: "x"}, {Tag: "y", Name: "y"}}},
			{Queue: "b"},
		},
	}, capturedAt)

	assert.Len(t, report.Hosts, 2)
	assert.Len(t, report.RMQConsumers.QueuesStatus, 2)
	assert.Len(t, report.RMQConsumers.ServicesStatus, 2)
	assert.Equal(t, "2024-05-03 12:07:09 UTC", report.Timestamp)
}

func TestPublish_SendsJSONWithRoutingKey(t *testing.T) {
	sender := new(mockSender)
	report := Build(nil, entity.ConsumerAudit{}, capturedAt)
	expected, err := json.Marshal(report)
	require.NoError(t, err)

	sender.On("SendMessage", mock.Anything, "service.heartbeat", expected).Return(nil).Once()

	uc := newUseCase(staticConsumers{}, sender)
	require.NoError(t, uc.Publish(context.Background(), report))
	assert.Equal(t, "service.heartbeat", uc.RoutingKey())
	sender.AssertExpectations(t)
}

func TestPublish_TransportFailure(t *testing.T) {
	sender := new(mockSender)
	cause := errors.New("channel closed")
	sender.On("SendMessage", mock.Anything, "service.heartbeat", mock.Anything).Return(cause).Once()

	uc := newUseCase(staticConsumers{}, sender)
	err := uc.Publish(context.Background(), Build(nil, entity.ConsumerAudit{}, capturedAt))

	var publishErr *entity.PublishError
	require.ErrorAs(t, err, &publishErr)
	assert.Equal(t, "service.heartbeat", publishErr.RoutingKey)
	assert.ErrorIs(t, err, cause)
	sender.AssertNumberOfCalls(t, "SendMessage", 1)
}
