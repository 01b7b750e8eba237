package model

import "fmt"

// ExitCode defines the process exit codes of the CLI. These codes allow
// scripts driving the HTSE toolchain to tell failures apart.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidArguments indicates missing or invalid command-line
	// arguments (e.g., fewer than three cell counts).
	ExitInvalidArguments ExitCode = 2

	// ExitTemplateNotFound indicates the bond-template file does not exist.
	ExitTemplateNotFound ExitCode = 3

	// ExitTemplateInvalid indicates the bond-template file could not be read
	// or contains a malformed row.
	ExitTemplateInvalid ExitCode = 4

	// ExitConfigInvalid indicates the run-configuration file could not be
	// read, decoded or validated.
	ExitConfigInvalid ExitCode = 5

	// ExitOutputFailed indicates the rendered lattice could not be written.
	ExitOutputFailed ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
