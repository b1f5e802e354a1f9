package weathercore

import "fmt"

// ErrorCode is the fatal half of the error taxonomy (spec §6.5): returned
// from Observe rather than attached as a Warning.
type ErrorCode string

const (
	ErrInsufficientInput     ErrorCode = "InsufficientInput"
	ErrInvalidHumidity       ErrorCode = "InvalidHumidity"
	ErrInvalidRange          ErrorCode = "InvalidRange"
	ErrOutOfOrderObservation ErrorCode = "OutOfOrderObservation"
)

// CoreError is the pipeline's sum-type error. It deliberately does not wrap
// internal/errors.EnhancedError: that package exists to route errors to an
// asynchronous telemetry/reporting consumer, a concern the pure core must
// not depend on. internal/api returns a CoreError's message in its HTTP
// error response and does not convert it into an EnhancedError.
type CoreError struct {
	Code    ErrorCode
	Message string
	Fields  map[string]any
}

func (e *CoreError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// newCoreError builds a CoreError with optional context fields.
func newCoreError(code ErrorCode, message string, fields map[string]any) *CoreError {
	return &CoreError{Code: code, Message: message, Fields: fields}
}
