package load

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors of the loader. Both abort a generation run.
var (
	// ErrConfigNotFound indicates the schema document does not exist.
	ErrConfigNotFound = errors.New("crudgen: schema config not found")
	// ErrConfigParse indicates the schema document is not valid structured data.
	ErrConfigParse = errors.New("crudgen: schema config parse error")
)

// NotFoundError reports a missing schema document.
type NotFoundError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("crudgen: schema config not found: %s", e.Path)
}

// Unwrap returns the underlying error.
func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrConfigNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrConfigNotFound
}

// ParseError reports malformed schema text.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("crudgen: schema config parse error")
	if e.Path != "" {
		b.WriteString(" in ")
		b.WriteString(e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrConfigParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrConfigParse
}

// IsNotFound reports whether err is or wraps a missing schema error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrConfigNotFound)
}

// IsParseError reports whether err is or wraps a schema parse error.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
