package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError describes one invalid configuration field.
//
// Fields:
//   - Field: Dotted path of the invalid field (e.g., "tests[2].command")
//   - Message: Description of what's wrong
//   - Expected: What a valid value looks like
//   - Hint: Actionable suggestion for fixing the error
type ValidationError struct {
	Field    string
	Message  string
	Expected string
	Hint     string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// VerboseError returns the error message with expected value and hint lines.
//
// Returns:
//   - string: Detailed multi-line error
func (e *ValidationError) VerboseError() string {
	var sb strings.Builder
	sb.WriteString(e.Error())
	if e.Expected != "" {
		sb.WriteString(fmt.Sprintf("\n    Expected: %s", e.Expected))
	}
	if e.Hint != "" {
		sb.WriteString(fmt.Sprintf("\n    Hint: %s", e.Hint))
	}
	return sb.String()
}

// NewConfigValidationError creates a ValidationError for a configuration field.
//
// Example:
//
//	err := errors.NewConfigValidationError("tests[0].name", "must not be empty")
func NewConfigValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if err is a ValidationError and returns it.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ValidationErrors collects every problem found in one validation pass so
// the user can fix them all at once.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	switch len(v) {
	case 0:
		return "no validation errors"
	case 1:
		return v[0].Error()
	}
	lines := make([]string, 0, len(v)+1)
	lines = append(lines, fmt.Sprintf("%d configuration errors:", len(v)))
	for _, e := range v {
		lines = append(lines, "  - "+e.Error())
	}
	return strings.Join(lines, "\n")
}

// VerboseError returns every error in its verbose form.
func (v ValidationErrors) VerboseError() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, "  - "+e.VerboseError())
	}
	return strings.Join(parts, "\n")
}

// Add appends a validation error built from field and message.
func (v *ValidationErrors) Add(field, message string) *ValidationError {
	e := NewConfigValidationError(field, message)
	*v = append(*v, e)
	return e
}

// Err returns nil when no errors were collected, otherwise the collection.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
