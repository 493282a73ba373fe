// Package cli provides configuration and helpers for the sqltree CLI.
package cli

import (
	"errors"
	"fmt"
	"io"
)

// Exit codes.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitConfig  = 2
	ExitSchema  = 3
	ExitRender  = 4
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode reports the exit code for err and prints it to w.
func ExitCode(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(w, "Error:", exitErr.Error())
		return exitErr.Code
	}
	fmt.Fprintln(w, "Error:", err)
	return ExitGeneral
}

// ConfigError creates an ExitError with ExitConfig code.
func ConfigError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitConfig, Message: msg, Err: err}
}

// SchemaError creates an ExitError with ExitSchema code.
func SchemaError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitSchema, Message: msg, Err: err}
}

// RenderError creates an ExitError with ExitRender code.
func RenderError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitRender, Message: msg, Err: err}
}

// GeneralError creates an ExitError with ExitGeneral code.
func GeneralError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitGeneral, Message: msg, Err: err}
}
