package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_InvalidInput_Success(t *testing.T) {
	err := InvalidInput("@id", "must be an IRI")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code)
	}
	if err.Details["field"] != "@id" {
		t.Errorf("expected field=@id, got %v", err.Details["field"])
	}

	err2 := InvalidInput("", "whatever")
	if _, ok := err2.Details["field"]; ok {
		t.Error("expected no 'field' key when field is empty")
	}
}

func TestAppError_MissingField_Success(t *testing.T) {
	err := MissingField("entrypoint")
	if err.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %s", err.Code)
	}
	if !strings.Contains(err.Message, "entrypoint") {
		t.Errorf("expected message to mention field, got %q", err.Message)
	}
}

func TestAppError_DecodeFailed_Success(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")
	err := DecodeFailed("error response", cause)
	if err.Code != ErrCodeDecodeFailed {
		t.Errorf("expected DECODE_FAILED, got %s", err.Code)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestAppError_EncodeFailed_Success(t *testing.T) {
	err := EncodeFailed("request body", fmt.Errorf("unsupported type"))
	if err.Code != ErrCodeEncodeFailed {
		t.Errorf("expected ENCODE_FAILED, got %s", err.Code)
	}
	if !strings.Contains(err.Error(), "unsupported type") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Validation("bad").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
	err.WithDetail("key", "other")
	if err.Details["key"] != "other" {
		t.Errorf("expected key=other after overwrite, got %v", err.Details["key"])
	}
}

func TestAppError_Error_Format(t *testing.T) {
	s := Validation("entrypoint: is required").Error()
	if !strings.Contains(s, "INVALID_INPUT") {
		t.Errorf("expected error string to contain code, got %q", s)
	}
	if !strings.Contains(s, "entrypoint: is required") {
		t.Errorf("expected error string to contain message, got %q", s)
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", MissingField("name"))

	appErr, ok := AsAppError(wrapped)
	if !ok || appErr.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %+v", appErr)
	}
	if !HasCode(wrapped, ErrCodeMissingField) {
		t.Error("expected HasCode to match")
	}
	if HasCode(fmt.Errorf("plain"), ErrCodeMissingField) {
		t.Error("expected HasCode to be false for plain errors")
	}
	if _, ok := AsAppError(nil); ok {
		t.Error("expected nil error not to be an AppError")
	}
}
