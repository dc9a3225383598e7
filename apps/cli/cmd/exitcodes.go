package cmd

import (
	"errors"
	"fmt"
)

// Exit codes for suitereport CLI
const (
	// ExitSuccess indicates all tests passed, or the run bailed
	ExitSuccess = 0

	// ExitTestFailure indicates one or more tests failed
	ExitTestFailure = 1

	// ExitParseError indicates feed records that could not be decoded
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64

	// ExitInterrupted indicates the run was stopped by a signal
	ExitInterrupted = 130
)

// ExitError carries an exit code out of a command. Err is nil when the
// command already reported everything it had to say.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withExitCode(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// exitCode maps a command error to a process exit code. Errors that carry
// no code come from cobra's own argument and flag checks.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsageError
}
