package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDKey is the header and context key carrying the request id.
// The request-id middleware sets it; the access-log middleware and
// FromContext read it back.
const RequestIDKey = "X-Request-ID"

// FromContext returns the request-scoped logger. The access-log
// middleware stores one per request; when a handler runs outside it,
// the global logger is annotated with whatever request id the context
// or the request headers carry.
func FromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get("logger").(*zap.Logger); ok {
		return l
	}

	requestID, ok := c.Get(RequestIDKey).(string)
	if !ok {
		requestID = c.Request().Header.Get(RequestIDKey)
	}
	if requestID == "" {
		requestID = "unknown"
	}
	return GetLogger().With(zap.String("request_id", requestID))
}
