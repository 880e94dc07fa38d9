package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/hydrakit/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("title", "Dune").Required("isbn", "  ").Required("author", nil).Required("pages", 0)

	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
	errs := v.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %+v", len(errs), errs)
	}
	if errs[0].Field != "isbn" || errs[1].Field != "author" {
		t.Errorf("unexpected fields: %+v", errs)
	}
	if errs[0].Tag != "required" {
		t.Errorf("expected tag 'required', got %q", errs[0].Tag)
	}
}

func TestValidatorOneOf(t *testing.T) {
	v := New()
	v.OneOf("status", "active", "active", "archived")
	if v.HasErrors() {
		t.Fatalf("expected no errors, got %+v", v.Errors())
	}
	v.OneOf("status", "deleted", "active", "archived")
	if !v.HasErrors() {
		t.Fatal("expected error for value outside the allowed set")
	}
	v2 := New().OneOf("status", "", "active")
	if v2.HasErrors() {
		t.Error("empty value should be left to Required")
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New().Custom(true, "a", "never").Custom(false, "b", "This value is too long.")
	errs := v.Errors()
	if len(errs) != 1 || errs[0].Field != "b" || errs[0].Message != "This value is too long." {
		t.Errorf("unexpected errors: %+v", errs)
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().Validate() != nil {
		t.Fatal("expected nil AppError without errors")
	}

	appErr := New().Required("title", "").Validate()
	if appErr == nil {
		t.Fatal("expected AppError")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "title") {
		t.Errorf("expected message to mention title, got %q", appErr.Message)
	}
	fields := FieldErrors(appErr)
	if len(fields) != 1 || fields[0].Field != "title" {
		t.Errorf("expected field errors to round-trip, got %+v", fields)
	}
}

func TestStructValidateValid(t *testing.T) {
	type Config struct {
		Entrypoint string `mapstructure:"entrypoint" validate:"required,url"`
	}

	if err := Validate(Config{Entrypoint: "https://example.com"}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	type Config struct {
		Entrypoint string `mapstructure:"entrypoint" validate:"required,url"`
		Format     string `yaml:"format" validate:"omitempty,oneof=json yaml"`
	}

	err := Validate(Config{Entrypoint: "", Format: "xml"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	fields := FieldErrors(err)
	if len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %+v", fields)
	}
	if fields[0].Field != "entrypoint" || fields[0].Message != "is required" {
		t.Errorf("unexpected first field error: %+v", fields[0])
	}
	if fields[1].Field != "format" || !strings.Contains(fields[1].Message, "json yaml") {
		t.Errorf("unexpected second field error: %+v", fields[1])
	}
}

func TestStructValidateNested(t *testing.T) {
	type Transport struct {
		Timeout int `mapstructure:"timeout" validate:"gte=0"`
	}
	type Config struct {
		Transport Transport `mapstructure:"transport"`
	}

	err := Validate(Config{Transport: Transport{Timeout: -1}})
	fields := FieldErrors(err)
	if len(fields) != 1 || fields[0].Field != "transport.timeout" {
		t.Errorf("expected nested path transport.timeout, got %+v", fields)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Entrypoint":   "entrypoint",
		"PageSize":     "page_size",
		"TLSSkipCheck": "t_l_s_skip_check",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
