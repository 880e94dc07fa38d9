package httpclient

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request or connection timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeCanceled indicates the request context was canceled.
	ErrCodeCanceled
	// ErrCodeConnection indicates a connection failure (refused, DNS, TLS, etc).
	ErrCodeConnection
	// ErrCodeInvalidRequest indicates the request could not be built.
	ErrCodeInvalidRequest
	// ErrCodeAuth indicates an authentication/authorization failure (401/403).
	ErrCodeAuth
	// ErrCodeNotFound indicates the resource was not found (404).
	ErrCodeNotFound
	// ErrCodeRateLimit indicates rate limiting (429).
	ErrCodeRateLimit
	// ErrCodeValidation indicates a client-side error status (other 4xx).
	ErrCodeValidation
	// ErrCodeServer indicates a server-side error (5xx).
	ErrCodeServer
)

var errorCodeNames = map[ErrorCode]string{
	ErrCodeTimeout:        "timeout",
	ErrCodeCanceled:       "canceled",
	ErrCodeConnection:     "connection",
	ErrCodeInvalidRequest: "invalid_request",
	ErrCodeAuth:           "auth",
	ErrCodeNotFound:       "not_found",
	ErrCodeRateLimit:      "rate_limit",
	ErrCodeValidation:     "validation",
	ErrCodeServer:         "server",
}

// String returns the error code name.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "unknown"
}

// Error is a structured HTTP client error with classification.
type Error struct {
	// StatusCode is the HTTP status code (0 for transport-level errors).
	StatusCode int
	// Code classifies the error.
	Code ErrorCode
	// Method and URL identify the failed request, when known.
	Method string
	URL    string
	// Message describes the error.
	Message string
	// Body is the original response body (may be nil).
	Body []byte
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	target := ""
	if e.Method != "" {
		target = fmt.Sprintf(" %s %s", e.Method, e.URL)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s%s (HTTP %d): %s", e.Code, target, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s%s: %s", e.Code, target, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransport reports whether the error happened before any response was
// received.
func (e *Error) IsTransport() bool {
	return e.StatusCode == 0
}

// NewTransportError classifies a failed round trip. Context expiry maps to
// ErrCodeTimeout, cancellation to ErrCodeCanceled, anything else to
// ErrCodeConnection.
func NewTransportError(ctx context.Context, err error) *Error {
	code := ErrCodeConnection
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		code = ErrCodeTimeout
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		code = ErrCodeCanceled
	}
	return &Error{Code: code, Message: err.Error(), Err: err}
}

// NewInvalidRequestError creates an error for a request that could not be built.
func NewInvalidRequestError(msg string, err error) *Error {
	return &Error{Code: ErrCodeInvalidRequest, Message: msg, Err: err}
}

// ClassifyStatusCode converts an HTTP status code into a typed error.
// Returns nil for 2xx status codes.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	var code ErrorCode
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == 401 || statusCode == 403:
		code = ErrCodeAuth
	case statusCode == 404:
		code = ErrCodeNotFound
	case statusCode == 429:
		code = ErrCodeRateLimit
	case statusCode >= 400 && statusCode < 500:
		code = ErrCodeValidation
	default:
		code = ErrCodeServer
	}
	return &Error{
		StatusCode: statusCode,
		Code:       code,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Body:       body,
	}
}

// CodeOf returns the classification carried by err, if any.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Code, true
}

func hasCode(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsCanceled checks if an error was caused by context cancellation.
func IsCanceled(err error) bool { return hasCode(err, ErrCodeCanceled) }

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsStatusError reports whether err carries an HTTP status, i.e. a response
// was received.
func IsStatusError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode > 0
}
