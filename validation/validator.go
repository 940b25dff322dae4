package validation

import (
	"fmt"
	"strings"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{errors: make([]FieldError, 0)}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Err returns an *Error if anything was collected, nil otherwise.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return &Error{Fields: v.errors}
}

// Required checks if a string is non-blank.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// Positive checks that a number is greater than zero.
func (v *Validator) Positive(field string, value int64) *Validator {
	if value <= 0 {
		v.AddError(field, fmt.Sprintf("must be positive (got: %d)", value))
	}
	return v
}

// NotEmpty checks that a list has at least one blank-free entry.
func (v *Validator) NotEmpty(field string, values []string) *Validator {
	if len(values) == 0 {
		v.AddError(field, "must not be empty")
		return v
	}
	for _, s := range values {
		if strings.TrimSpace(s) == "" {
			v.AddError(field, "must not contain blank entries")
			break
		}
	}
	return v
}

// OneOf checks if a non-empty value is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, "must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Custom applies a custom validation condition.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}
