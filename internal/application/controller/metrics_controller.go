package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type MetricsController struct {
	e       *echo.Echo
	handler http.Handler
}

// NewMetricsController serves handler at the root /metrics path, outside the
// context path.
func NewMetricsController(e *echo.Echo, handler http.Handler) *MetricsController {
	return &MetricsController{e: e, handler: handler}
}

func (controller *MetricsController) InitMetricsRoutes() {
	controller.e.GET("/metrics", echo.WrapHandler(controller.handler))
}
