package ingest

import (
	"fmt"
)

// ConfigError represents an invalid or incomplete configuration detected
// before the external process is spawned.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("invalid configuration for %s '%s': %s", e.Field, e.Value, e.Reason)
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

// ExecError represents a non-zero exit of the external ingest process.
type ExecError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("ingest command failed (exit code %d)", e.ExitCode)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	return msg
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
