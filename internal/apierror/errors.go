// Package apierror converts arbitrary upstream failures into a safe,
// structured shape: secret-bearing substrings are redacted, messages are
// length-capped, and untyped ChartMogul error bodies are classified into a
// fixed {name, detail, statusCode} record.
package apierror

import "fmt"

// CLIError is a failure originating locally: missing credentials, invalid
// arguments, network failures, rate limiting. StatusCode is carried through
// to the rendered error (0 means "use the default").
type CLIError struct {
	Message    string
	StatusCode int
}

func (e *CLIError) Error() string { return e.Message }

// NewCLIError creates a CLIError with a formatted message.
func NewCLIError(statusCode int, format string, args ...any) *CLIError {
	return &CLIError{Message: fmt.Sprintf(format, args...), StatusCode: statusCode}
}

// APIError is a non-2xx response from the ChartMogul API. Payload holds the
// decoded JSON error body in whatever shape the API returned it.
type APIError struct {
	Message    string
	Payload    any
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}
