package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"go-heartbeat/internal/domain/model"
	"go-heartbeat/internal/domain/usecase/health"
)

type HealthController struct {
	api     *echo.Group
	useCase health.UseCase
}

func NewHealthController(api *echo.Group, useCase health.UseCase) *HealthController {
	return &HealthController{api: api, useCase: useCase}
}

// InitHealthRoutes initializes health check routes
func (controller *HealthController) InitHealthRoutes() {
	controller.api.GET("/health", controller.CheckHealth())
}

func (controller *HealthController) CheckHealth() echo.HandlerFunc {
	return func(c echo.Context) error {
		healthResponse := controller.useCase.CheckHealth()

		if healthResponse.Status == model.StatusDown {
			return c.JSON(http.StatusServiceUnavailable, healthResponse)
		}
		return c.JSON(http.StatusOK, healthResponse)
	}
}
