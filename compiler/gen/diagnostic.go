package gen

import (
	"fmt"
	"strings"
)

// Kind classifies a non-fatal diagnostic.
type Kind int

const (
	// FieldClassificationWarning reports an anti-pattern or ambiguity of a
	// single field declaration. Generation proceeds with defaults.
	FieldClassificationWarning Kind = iota
	// UnresolvedDependency reports a relation target that is not a model of
	// the schema. The target is treated as external.
	UnresolvedDependency
	// SchemaWarning reports a model-level option that was ignored or adjusted.
	SchemaWarning
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case FieldClassificationWarning:
		return "field"
	case UnresolvedDependency:
		return "dependency"
	case SchemaWarning:
		return "schema"
	default:
		return "unknown"
	}
}

// Diagnostic codes.
const (
	CodeMissingOnDelete        = "missing-on-delete"
	CodeUnquotedTarget         = "unquoted-target"
	CodeMissingMaxLength       = "missing-max-length"
	CodeUnknownType            = "unknown-type"
	CodeMalformedDeclaration   = "malformed-declaration"
	CodeReservedField          = "reserved-field"
	CodeInvalidIdentifier      = "invalid-identifier"
	CodeUnsupportedValidator   = "unsupported-validator"
	CodeUnresolvedTarget       = "unresolved-target"
	CodeUnknownPermission      = "unknown-permission"
	CodeIncludeExcludeConflict = "include-exclude-conflict"
	CodeUnknownFieldReference  = "unknown-field-reference"
	CodeNegativeDepth          = "negative-depth"
	CodeUnknownOption          = "unknown-option"
	CodeMethodConflict         = "method-conflict"
	CodeDependencyCycle        = "dependency-cycle"
	CodeNameCollision          = "name-collision"
)

// Diagnostic represents a single collected warning.
type Diagnostic struct {
	// Kind of the diagnostic.
	Kind Kind
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Model is the model the diagnostic relates to (if any).
	Model string
	// Field is the field the diagnostic relates to (if any).
	Field string
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Model != "" {
		p := d.Model
		if d.Field != "" {
			p += "." + d.Field
		}
		prefix = append(prefix, p)
	}
	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}
	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}
	return msg
}

// Diagnostics collects warnings in the order they were found.
type Diagnostics struct {
	items []Diagnostic
}

// Add records a diagnostic.
func (d *Diagnostics) Add(kind Kind, code, model, field, format string, args ...any) {
	d.items = append(d.items, Diagnostic{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Model:   model,
		Field:   field,
	})
}

// AddField records a field classification warning.
func (d *Diagnostics) AddField(code, model, field, format string, args ...any) {
	d.Add(FieldClassificationWarning, code, model, field, format, args...)
}

// AddSchema records a model-level warning.
func (d *Diagnostics) AddSchema(code, model, format string, args ...any) {
	d.Add(SchemaWarning, code, model, "", format, args...)
}

// All returns the collected diagnostics.
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Len returns the number of collected diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.items)
}

// ByKind returns the diagnostics of the given kind.
func (d *Diagnostics) ByKind(kind Kind) []Diagnostic {
	var out []Diagnostic
	for _, item := range d.items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

// ByCode returns the diagnostics with the given code.
func (d *Diagnostics) ByCode(code string) []Diagnostic {
	var out []Diagnostic
	for _, item := range d.items {
		if item.Code == code {
			out = append(out, item)
		}
	}
	return out
}

// Merge appends the diagnostics of other.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.items = append(d.items, other.items...)
}
