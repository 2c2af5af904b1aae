package http

// HTTPLogger interface defines methods for logging HTTP requests and responses
type HTTPLogger interface {
	// LogRequest is called before the request is sent
	LogRequest(method, url string, headers map[string]string)

	// LogResponseSuccess is called after receiving a 2xx response
	LogResponseSuccess(method, url string, httpStatus int, latency int64)

	// LogResponseError is called after a transport error (httpStatus 0) or a non-2xx response
	LogResponseError(method, url string, httpStatus int, responseBody string, latency int64, err error)
}
