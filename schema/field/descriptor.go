package field

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed indicates a declaration that could not be parsed completely.
var ErrMalformed = errors.New("crudgen: malformed field declaration")

// DeclarationError describes a parse failure of a single declaration.
type DeclarationError struct {
	Decl    string
	Message string
}

// Error implements the error interface.
func (e *DeclarationError) Error() string {
	return fmt.Sprintf("crudgen: malformed field declaration %q: %s", e.Decl, e.Message)
}

// Is reports whether the target matches ErrMalformed.
func (e *DeclarationError) Is(target error) bool {
	return target == ErrMalformed
}

// Option is a keyword argument of a declaration, kept in declaration order.
type Option struct {
	Key   string
	Value string
}

// A Descriptor is the structured form of a field declaration such as
// `ForeignKey('Player', on_delete=models.CASCADE, null=True)`.
type Descriptor struct {
	Raw     string   // declaration as written
	Name    string   // type name without namespace
	Type    Type     // enumerated tag, TypeOther when Name is unknown
	Args    []string // positional arguments, raw text
	Options []Option // keyword arguments, raw values

	// Target is the related model of a relation, unquoted.
	// TargetQuoted reports whether it was written as a string literal.
	Target       string
	TargetQuoted bool

	// Filled from the structured field form.
	Validators []*Descriptor
	Help       string

	// Err is set when the declaration was only partially understood.
	Err error
}

// Lookup returns the raw value of the keyword option key.
func (d *Descriptor) Lookup(key string) (string, bool) {
	for _, o := range d.Options {
		if o.Key == key {
			return o.Value, true
		}
	}
	return "", false
}

// Has reports whether the keyword option key was given.
func (d *Descriptor) Has(key string) bool {
	_, ok := d.Lookup(key)
	return ok
}

// Bool reports whether the option key is set to True.
func (d *Descriptor) Bool(key string) bool {
	v, ok := d.Lookup(key)
	return ok && (v == "True" || v == "true" || v == "1")
}

// Int returns the option key as an integer.
func (d *Descriptor) Int(key string) (int, bool) {
	v, ok := d.Lookup(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Text returns the option key as an unquoted string literal.
func (d *Descriptor) Text(key string) (string, bool) {
	v, ok := d.Lookup(key)
	if !ok {
		return "", false
	}
	s, quoted := Unquote(v)
	return s, quoted
}

// Null reports whether the field accepts NULL.
func (d *Descriptor) Null() bool { return d.Bool("null") }

// Blank reports whether the field accepts empty values.
func (d *Descriptor) Blank() bool { return d.Bool("blank") }

// Unique reports whether the field is declared unique.
func (d *Descriptor) Unique() bool { return d.Bool("unique") }

// Indexed reports whether the field requests a database index.
func (d *Descriptor) Indexed() bool { return d.Bool("db_index") }

// AutoNow reports whether the field is refreshed on every save.
func (d *Descriptor) AutoNow() bool { return d.Bool("auto_now") }

// AutoNowAdd reports whether the field is set once on creation.
func (d *Descriptor) AutoNowAdd() bool { return d.Bool("auto_now_add") }

// AutoPopulated reports whether the field value is managed by the store.
func (d *Descriptor) AutoPopulated() bool {
	return d.AutoNow() || d.AutoNowAdd() || d.Type.IsAuto()
}

// MaxLength returns the max_length option.
func (d *Descriptor) MaxLength() (int, bool) { return d.Int("max_length") }

// Default returns the raw default value.
func (d *Descriptor) Default() (string, bool) { return d.Lookup("default") }

// HelpText returns the help text of the structured form, falling back to
// the help_text option of the declaration.
func (d *Descriptor) HelpText() string {
	if d.Help != "" {
		return d.Help
	}
	s, _ := d.Text("help_text")
	return s
}

// RelatedName returns the reverse accessor name of a relation.
func (d *Descriptor) RelatedName() (string, bool) { return d.Text("related_name") }

// OnDelete returns the deletion policy of a relation without namespace,
// e.g. "CASCADE". A policy may be given as keyword or as the second
// positional argument.
func (d *Descriptor) OnDelete() (string, bool) {
	v, ok := d.Lookup("on_delete")
	if !ok && d.Type.IsRelation() && len(d.Args) > 1 {
		v, ok = d.Args[1], true
	}
	if !ok {
		return "", false
	}
	return strings.TrimPrefix(v, Namespace), true
}

// Arg returns the positional argument i, if present.
func (d *Descriptor) Arg(i int) (string, bool) {
	if i < 0 || i >= len(d.Args) {
		return "", false
	}
	return d.Args[i], true
}

// SelfReference reports whether a relation targets its own model.
func (d *Descriptor) SelfReference() bool {
	return d.Type.IsRelation() && d.Target == "self"
}
