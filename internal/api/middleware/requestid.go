package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
)

// RequestIDHeader is the header a generated request ID is echoed back on,
// letting a caller correlate a response with the corresponding log lines.
const RequestIDHeader = "X-Request-ID"

// NewRequestID creates a request-ID middleware that stamps every request
// with a UUIDv4, reusing an inbound X-Request-ID header when the caller
// already supplied one.
func NewRequestID() echo.MiddlewareFunc {
	return emw.RequestIDWithConfig(emw.RequestIDConfig{
		TargetHeader: RequestIDHeader,
		Generator:    uuid.NewString,
	})
}
