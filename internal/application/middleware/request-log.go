package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"go-heartbeat/pkg/log"
	"go-heartbeat/pkg/msg"
)

var quietPaths = []string{"/health", "/metrics"}

// SetupRequestLogger registers request id propagation and the request logging
// middleware. Health probes and metric scrapes are not logged.
func SetupRequestLogger(e *echo.Echo) {
	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		Skipper:      isQuiet,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error == nil {
				log.Info(msg.GetMessage("app.req-end", v.Method, v.URI, v.Status, v.Latency, v.RequestID), fields...)
				return nil
			}
			log.Error(msg.GetMessage("app.req-fail", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error),
				append(fields, zap.Error(v.Error))...)
			return nil
		},
	}))
}

func isQuiet(c echo.Context) bool {
	path := c.Request().URL.Path
	for _, quiet := range quietPaths {
		if strings.HasSuffix(path, quiet) {
			return true
		}
	}
	return false
}
