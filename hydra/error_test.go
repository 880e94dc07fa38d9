package hydra

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestError_BestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"detail first", &Error{Detail: "d", HydraDescription: "h", Message: "m"}, "d"},
		{"hydra description", &Error{HydraDescription: "h", Message: "m"}, "h"},
		{"message", &Error{Message: "JWT Token not found"}, "JWT Token not found"},
		{"title only", &Error{Title: "Not Found"}, DefaultErrorMessage},
		{"nil", nil, DefaultErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.BestMessage(); got != tt.want {
				t.Errorf("BestMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Decode(t *testing.T) {
	body := `{
		"@id": "/validation_errors/abc",
		"@type": "ConstraintViolationList",
		"status": 422,
		"title": "An error occurred",
		"detail": "title: This value should not be blank.",
		"hydra:title": "An error occurred",
		"hydra:description": "title: This value should not be blank.",
		"type": "/validation_errors/abc",
		"violations": [
			{"propertyPath": "title", "message": "This value should not be blank.", "code": "c1"},
			{"propertyPath": "title", "message": "This value is too short."},
			{"propertyPath": "isbn", "message": "Invalid ISBN."}
		],
		"trace": [{"file": "src/Kernel.php", "line": 12, "function": "handle"}]
	}`

	var e Error
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if e.Status != 422 || e.Type != "ConstraintViolationList" || e.ProblemType != "/validation_errors/abc" {
		t.Errorf("decoded = %+v", e)
	}
	if len(e.Trace) != 1 || e.Trace[0].Line != 12 {
		t.Errorf("Trace = %+v", e.Trace)
	}
	want := map[string][]string{
		"title": {"This value should not be blank.", "This value is too short."},
		"isbn":  {"Invalid ISBN."},
	}
	if got := e.ViolationsByPath(); !reflect.DeepEqual(got, want) {
		t.Errorf("ViolationsByPath() = %v", got)
	}
	if !strings.Contains(e.Error(), "HTTP 422") {
		t.Errorf("Error() = %q", e.Error())
	}
}

func TestErrorFromStatus(t *testing.T) {
	e := errorFromStatus(404)
	if e.Status != 404 || e.Title != "Not Found" || e.HydraTitle != "Not Found" || e.ID != "/errors/404" {
		t.Errorf("errorFromStatus(404) = %+v", e)
	}
	if e.BestMessage() != DefaultErrorMessage {
		t.Errorf("BestMessage() = %q", e.BestMessage())
	}
	if got := errorFromStatus(599).Title; got != "HTTP 599" {
		t.Errorf("unknown status title = %q", got)
	}
}

func TestDecodeError(t *testing.T) {
	cause := errors.New("invalid character '<'")
	e := &DecodeError{Status: 502, Body: []byte("<html>" + strings.Repeat("x", 500)), Err: cause}
	msg := e.Error()
	if !strings.Contains(msg, "HTTP 502") || !strings.Contains(msg, "...") {
		t.Errorf("Error() = %q", msg)
	}
	if !errors.Is(e, cause) {
		t.Error("DecodeError should unwrap to its cause")
	}
}

func TestResult_Unwrap(t *testing.T) {
	ok := success(200, "payload")
	if v, err := ok.Unwrap(); err != nil || v != "payload" || !ok.OK() {
		t.Errorf("success Unwrap() = %q, %v", v, err)
	}

	herr := &Error{Status: 409, Detail: "duplicate isbn"}
	failed := failure[string](409, herr)
	_, err := failed.Unwrap()
	var target *Error
	if !errors.As(err, &target) || target.Detail != "duplicate isbn" {
		t.Errorf("failure Unwrap() error = %v", err)
	}
	if failed.OK() {
		t.Error("failed result should not be OK")
	}

	bare := Result[string]{Status: 500}
	if _, err := bare.Unwrap(); err == nil || !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("bare failure Unwrap() error = %v", err)
	}
}
