package log

import (
	"time"

	"go.uber.org/zap"
)

// HTTPLogger writes outgoing HTTP client traffic to the process logger.
// Headers are never logged.
type HTTPLogger struct{}

func NewHTTPLogger() HTTPLogger {
	return HTTPLogger{}
}

func (HTTPLogger) LogRequest(method, url string, headers map[string]string) {
	Debug("HTTP request", zap.String("method", method), zap.String("url", url))
}

func (HTTPLogger) LogResponseSuccess(method, url string, httpStatus int, latency int64) {
	Debug("HTTP response",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Duration("latency", time.Duration(latency)*time.Millisecond),
	)
}

func (HTTPLogger) LogResponseError(method, url string, httpStatus int, responseBody string, latency int64, err error) {
	Warn("HTTP request failed",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Duration("latency", time.Duration(latency)*time.Millisecond),
		zap.String("body", responseBody),
		zap.Error(err),
	)
}
