package cli

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes returned by the saturn command.
const (
	// ExitOK means the command completed successfully.
	ExitOK = 0
	// ExitError is the generic failure code.
	ExitError = 1
	// ExitUsage means the command was invoked with bad flags or arguments.
	ExitUsage = 2
	// ExitConfig means the configuration could not be loaded or validated.
	ExitConfig = 3
)

// ExitCoder is implemented by errors that carry a process exit code.
type ExitCoder interface {
	error
	ExitCode() int
}

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// ExitCode returns the exit code for configuration errors.
func (e *ConfigError) ExitCode() int {
	return ExitConfig
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
	Code    int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for this command error.
func (e *CommandError) ExitCode() int {
	if e.Code != 0 {
		return e.Code
	}
	return ExitError
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError with the generic failure code.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode returns the process exit code for an error: ExitOK for nil,
// the carried code when an ExitCoder is in the chain, ExitError otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return ExitError
}

// HandleError prints the error to stderr and returns its exit code.
// Intended for use as os.Exit(cli.HandleError(cmd.Execute())).
func HandleError(err error) int {
	if err == nil {
		return ExitOK
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return ExitCode(err)
}
