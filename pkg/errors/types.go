package errors

import (
	"errors"
	"fmt"
)

// Exit codes for scripting integration.
const (
	// ExitSuccess indicates every test program passed.
	ExitSuccess = 0

	// ExitTestsFailed indicates at least one test program failed, or a
	// command failed for a reason that has no dedicated code.
	ExitTestsFailed = 1

	// ExitConfigError indicates the configuration could not be loaded or validated.
	ExitConfigError = 3

	// ExitInterrupted indicates the run was stopped by a signal (128 + SIGINT).
	ExitInterrupted = 130
)

// ExitError represents a command termination with a specific exit code.
//
// Fields:
//   - Code: Exit code (ExitSuccess, ExitTestsFailed, ExitConfigError, ExitInterrupted)
//   - Message: Human-readable error message
//   - Err: Underlying error that caused this exit, may be nil
//
// Example:
//
//	return &ExitError{
//	    Code:    ExitConfigError,
//	    Message: "failed to load config",
//	    Err:     err,
//	}
type ExitError struct {
	Code    int
	Message string
	Err     error

	// Silent marks errors whose details were already shown to the user
	// (for example the run summary); Execute then only sets the exit code.
	Silent bool
}

// Error implements the error interface.
//
// Returns:
//   - string: Message if set, otherwise the wrapped error, otherwise "exit code N"
func (e *ExitError) Error() string {
	if e.Message != "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and underlying error.
//
// Parameters:
//   - code: Exit code
//   - err: Underlying error, may be nil
//
// Returns:
//   - *ExitError: New exit error
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// NewExitErrorf creates an ExitError with the given code and formatted message.
func NewExitErrorf(code int, format string, args ...interface{}) *ExitError {
	return &ExitError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewSilentExit creates an ExitError that carries only an exit code. It is
// used when the command already printed everything the user needs.
func NewSilentExit(code int) *ExitError {
	return &ExitError{Code: code, Silent: true}
}

// GetExitCode extracts the exit code from an error.
//
// A nil error maps to ExitSuccess, an ExitError to its Code, a
// ValidationError or ValidationErrors to ExitConfigError, and anything else
// to ExitTestsFailed.
//
// Parameters:
//   - err: The error to extract code from
//
// Returns:
//   - int: Exit code
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if _, ok := IsValidationError(err); ok {
		return ExitConfigError
	}
	var ves ValidationErrors
	if errors.As(err, &ves) {
		return ExitConfigError
	}

	return ExitTestsFailed
}

// IsExitError checks if err is an ExitError and returns it.
//
// Returns:
//   - *ExitError: The ExitError if err is one, nil otherwise
//   - bool: true if err is an ExitError
func IsExitError(err error) (*ExitError, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr, true
	}
	return nil, false
}
