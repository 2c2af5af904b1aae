package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-heartbeat/internal/domain/entity"
	"go-heartbeat/internal/domain/model"
)

type stubStatusUseCase struct {
	heartbeat model.Heartbeat
	err       error
}

func (s stubStatusUseCase) GetHeartbeat(ctx context.Context) (model.Heartbeat, error) {
	return s.heartbeat, s.err
}

type stubHealthUseCase struct {
	response model.HealthResponse
}

func (s stubHealthUseCase) CheckHealth() model.HealthResponse {
	return s.response
}

func serve(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHeartbeatController_GetHeartbeat(t *testing.T) {
	tests := []struct {
		name     string
		status   model.OverallStatus
		expected int
	}{
		{"all ok", model.AllOk, http.StatusOK},
		{"missing services", model.MissingServices, http.StatusServiceUnavailable},
		{"missing queues", model.MissingQueues, http.StatusServiceUnavailable},
		{"missing both", model.MissingServicesAndQueues, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			heartbeat := model.Heartbeat{
				Status:      tt.status,
				Description: tt.status.Description(),
				Queues:      []model.ComponentView{},
				Services:    []model.ComponentView{{Name: "svc1", Status: entity.StatusOk}},
			}
			NewHeartbeatController(e.Group("/api"), stubStatusUseCase{heartbeat: heartbeat}).InitHeartbeatRoutes()

			rec := serve(e, "/api/heartbeat")

			assert.Equal(t, tt.expected, rec.Code)
			var body model.Heartbeat
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, "svc1", body.Services[0].Name)
		})
	}
}

func TestHeartbeatController_StoreError(t *testing.T) {
	e := echo.New()
	NewHeartbeatController(e.Group(""), stubStatusUseCase{err: errors.New("connection refused")}).InitHeartbeatRoutes()

	rec := serve(e, "/heartbeat")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"connection refused"}`, rec.Body.String())
}

func TestHealthController_CheckHealth(t *testing.T) {
	e := echo.New()
	up := model.HealthResponse{Status: model.StatusUp, Store: model.ComponentHealthStatus{Status: model.StatusUp}}
	NewHealthController(e.Group("/api"), stubHealthUseCase{response: up}).InitHealthRoutes()

	rec := serve(e, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"UP"`)

	e = echo.New()
	down := model.HealthResponse{Status: model.StatusDown, Store: model.ComponentHealthStatus{Status: model.StatusDown}}
	NewHealthController(e.Group("/api"), stubHealthUseCase{response: down}).InitHealthRoutes()

	rec = serve(e, "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsController(t *testing.T) {
	e := echo.New()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("heartbeat_publish_cycles_total 1\n"))
	})
	NewMetricsController(e, handler).InitMetricsRoutes()

	rec := serve(e, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "heartbeat_publish_cycles_total"))
}
