package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kbukum/hydrakit/errors"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	// Tag is the failed rule ("required", "oneof", ...), if known.
	Tag string `json:"tag,omitempty"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// AddError adds a field error.
func (v *Validator) AddError(field, tag, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
		Tag:     tag,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an AppError if there are validation errors, nil otherwise.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	return fieldErrorsToAppError(v.errors)
}

// Required checks that value is present: non-nil, and non-blank for strings.
func (v *Validator) Required(field string, value any) *Validator {
	switch val := value.(type) {
	case nil:
		v.AddError(field, "required", "This value should not be blank.")
	case string:
		if strings.TrimSpace(val) == "" {
			v.AddError(field, "required", "This value should not be blank.")
		}
	}
	return v
}

// OneOf checks that a string is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if value != "" && !slices.Contains(allowed, value) {
		v.AddError(field, "oneof", fmt.Sprintf("The value you selected is not a valid choice (%s).", strings.Join(allowed, ", ")))
	}
	return v
}

// Custom records message for field when ok is false.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, "custom", message)
	}
	return v
}

func fieldErrorsToAppError(fieldErrors []FieldError) *errors.AppError {
	messages := make([]string, len(fieldErrors))
	for i, e := range fieldErrors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}

	return errors.Validation(strings.Join(messages, "; ")).WithDetail("fields", fieldErrors)
}

// FieldErrors extracts the field errors carried by a validation AppError.
func FieldErrors(err error) []FieldError {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return nil
	}
	fields, _ := appErr.Details["fields"].([]FieldError)
	return fields
}
