package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"go-heartbeat/internal/domain/model"
	"go-heartbeat/internal/domain/usecase/status"
)

type HeartbeatController struct {
	api     *echo.Group
	useCase status.UseCase
}

func NewHeartbeatController(api *echo.Group, useCase status.UseCase) *HeartbeatController {
	return &HeartbeatController{api: api, useCase: useCase}
}

// InitHeartbeatRoutes initializes the status reader routes
func (controller *HeartbeatController) InitHeartbeatRoutes() {
	controller.api.GET("/heartbeat", controller.GetHeartbeat())
}

// GetHeartbeat answers 200 when every service and queue is ok, 503 otherwise.
func (controller *HeartbeatController) GetHeartbeat() echo.HandlerFunc {
	return func(c echo.Context) error {
		heartbeat, err := controller.useCase.GetHeartbeat(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}

		if heartbeat.Status != model.AllOk {
			return c.JSON(http.StatusServiceUnavailable, heartbeat)
		}
		return c.JSON(http.StatusOK, heartbeat)
	}
}
