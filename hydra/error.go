package hydra

import (
	"fmt"
	"net/http"
	"strings"
)

// DefaultErrorMessage is used when an error document carries no message.
const DefaultErrorMessage = "Something went wrong"

// Error is a Hydra / RFC 7807 error document returned with a non-2xx status.
type Error struct {
	ID               string      `json:"@id,omitempty"`
	Type             string      `json:"@type,omitempty"`
	Status           int         `json:"status,omitempty"`
	Title            string      `json:"title,omitempty"`
	Detail           string      `json:"detail,omitempty"`
	HydraTitle       string      `json:"hydra:title,omitempty"`
	HydraDescription string      `json:"hydra:description,omitempty"`
	ProblemType      string      `json:"type,omitempty"`
	Trace            []Frame     `json:"trace,omitempty"`
	Violations       []Violation `json:"violations,omitempty"`
	// Message is set by servers that answer with {"message": "..."} instead
	// of a Hydra document, e.g. authentication failures.
	Message string `json:"message,omitempty"`
}

// Frame is one entry of a debug stack trace.
type Frame struct {
	Class    string `json:"class,omitempty"`
	File     string `json:"file,omitempty"`
	Function string `json:"function,omitempty"`
	Line     int    `json:"line,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Violation is a single validation failure of a 422 response.
type Violation struct {
	PropertyPath string `json:"propertyPath"`
	Message      string `json:"message"`
	Code         string `json:"code,omitempty"`
}

// BestMessage returns the most specific human message: detail, then
// hydra:description, then message, then DefaultErrorMessage.
func (e *Error) BestMessage() string {
	if e == nil {
		return DefaultErrorMessage
	}
	for _, m := range []string{e.Detail, e.HydraDescription, e.Message} {
		if m != "" {
			return m
		}
	}
	return DefaultErrorMessage
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "hydra: <nil>"
	}
	return fmt.Sprintf("hydra: HTTP %d: %s", e.Status, e.BestMessage())
}

// ViolationsByPath groups violation messages by property path.
func (e *Error) ViolationsByPath() map[string][]string {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	out := make(map[string][]string, len(e.Violations))
	for _, v := range e.Violations {
		out[v.PropertyPath] = append(out[v.PropertyPath], v.Message)
	}
	return out
}

// errorFromStatus builds an Error for a response without a body.
func errorFromStatus(status int) *Error {
	text := http.StatusText(status)
	if text == "" {
		text = fmt.Sprintf("HTTP %d", status)
	}
	return &Error{
		ID:         fmt.Sprintf("/errors/%d", status),
		Type:       "hydra:Error",
		Status:     status,
		Title:      text,
		HydraTitle: text,
	}
}

// DecodeError reports a response body that could not be decoded. For error
// responses it means the server answered with something other than a JSON
// error document.
type DecodeError struct {
	Status int
	Body   []byte
	Err    error
}

const maxBodyInError = 256

// Error implements the error interface.
func (e *DecodeError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if len(body) > maxBodyInError {
		body = body[:maxBodyInError] + "..."
	}
	return fmt.Sprintf("hydra: decode HTTP %d response: %v (body: %q)", e.Status, e.Err, body)
}

// Unwrap returns the underlying decoding error.
func (e *DecodeError) Unwrap() error { return e.Err }
