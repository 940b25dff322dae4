package validation

import "strings"

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned by Validate and Validator.Err when at least one field failed.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(messages, "; ")
}
