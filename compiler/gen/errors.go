package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("crudgen: missing configuration")
	// ErrOutputWrite indicates an artifact could not be written.
	ErrOutputWrite = errors.New("crudgen: output write failed")
	// ErrOutputSyntax indicates an artifact was written but is not valid Go.
	ErrOutputSyntax = errors.New("crudgen: output syntax invalid")
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("crudgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("crudgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// WriteError reports an artifact that could not be persisted. It is fatal
// for that artifact only.
type WriteError struct {
	Artifact string
	Path     string
	Cause    error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	var b strings.Builder
	b.WriteString("crudgen: write error")
	if e.Artifact != "" {
		b.WriteString(" for ")
		b.WriteString(e.Artifact)
	}
	if e.Path != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for WriteError.
func (e *WriteError) Is(target error) bool {
	return target == ErrOutputWrite
}

// NewWriteError creates a new WriteError.
func NewWriteError(artifact, path string, cause error) *WriteError {
	return &WriteError{
		Artifact: artifact,
		Path:     path,
		Cause:    cause,
	}
}

// SyntaxError reports an artifact that was written but failed to parse.
// The file is left in place.
type SyntaxError struct {
	Artifact string
	Path     string
	Cause    error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	var b strings.Builder
	b.WriteString("crudgen: syntax error")
	if e.Artifact != "" {
		b.WriteString(" in ")
		b.WriteString(e.Artifact)
	}
	if e.Path != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SyntaxError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SyntaxError.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrOutputSyntax
}

// NewSyntaxError creates a new SyntaxError.
func NewSyntaxError(artifact, path string, cause error) *SyntaxError {
	return &SyntaxError{
		Artifact: artifact,
		Path:     path,
		Cause:    cause,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsWriteError reports whether the error is a WriteError.
func IsWriteError(err error) bool {
	var writeErr *WriteError
	return errors.As(err, &writeErr)
}

// IsSyntaxError reports whether the error is a SyntaxError.
func IsSyntaxError(err error) bool {
	var syntaxErr *SyntaxError
	return errors.As(err, &syntaxErr)
}
