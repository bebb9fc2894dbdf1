// Package load reads crudgen schema documents.
//
// A schema document is a JSON (or YAML) mapping of model name to model
// definition. Key order is significant and preserved: it is the stable
// order used when resolving model dependencies and emitting artifacts.
package load

import "github.com/syssam/crudgen/schema/field"

// Schema is the ordered set of models of one document.
type Schema struct {
	Path   string   `json:"path,omitempty"`
	Models []*Model `json:"models,omitempty"`
}

// Model returns the model with the given name.
func (s *Schema) Model(name string) (*Model, bool) {
	for _, m := range s.Models {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Names returns the model names in document order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Models))
	for i, m := range s.Models {
		names[i] = m.Name
	}
	return names
}

// Model is the definition of a single model.
type Model struct {
	Name       string            `json:"name,omitempty"`
	Fields     []*Field          `json:"fields,omitempty"`
	Meta       Meta              `json:"meta,omitempty"`
	Methods    []*Method         `json:"methods,omitempty"`
	Serializer SerializerOptions `json:"serializer_options,omitempty"`
	Admin      AdminOptions      `json:"admin_options,omitempty"`
	// Permissions is nil when the document does not restrict operations.
	Permissions []string `json:"permissions,omitempty"`
	// Unknown holds top-level keys of the definition that are not recognized.
	Unknown []string `json:"unknown,omitempty"`
	Line    int      `json:"line,omitempty"`
}

// Field returns the field with the given name.
func (m *Model) Field(name string) (*Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Field is a single field definition, given either as a declaration string
// or in the structured form {"type", "validators", "help_text"}.
type Field struct {
	Name       string   `json:"name,omitempty"`
	Decl       string   `json:"decl,omitempty"`
	Validators []string `json:"validators,omitempty"`
	HelpText   string   `json:"help_text,omitempty"`
	Structured bool     `json:"structured,omitempty"`
	Line       int      `json:"line,omitempty"`

	Descriptor *field.Descriptor `json:"-"`
}

// Method is an opaque method body copied into generated entities.
type Method struct {
	Name string `json:"name,omitempty"`
	Body string `json:"body,omitempty"`
}

// Meta holds the model metadata options.
type Meta struct {
	Ordering          []string     `json:"ordering,omitempty"`
	Indexes           []Index      `json:"indexes,omitempty"`
	UniqueTogether    [][]string   `json:"unique_together,omitempty"`
	VerboseName       string       `json:"verbose_name,omitempty"`
	VerboseNamePlural string       `json:"verbose_name_plural,omitempty"`
	DBTable           string       `json:"db_table,omitempty"`
	Extra             []MetaOption `json:"extra,omitempty"`
}

// Index is a composite index declared in meta.
type Index struct {
	Name   string   `json:"name,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

// MetaOption is a meta key without dedicated handling, kept verbatim.
type MetaOption struct {
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`
}

// SerializerOptions shapes the serializers of a model. Nil lists mean the
// option is absent, an empty non-nil list means it was given empty.
type SerializerOptions struct {
	Depth     *int     `json:"depth,omitempty"`
	Include   []string `json:"include,omitempty"`
	Exclude   []string `json:"exclude,omitempty"`
	ReadOnly  []string `json:"read_only,omitempty"`
	WriteOnly []string `json:"write_only,omitempty"`
}

// AdminOptions override the admin selections derived from field types.
type AdminOptions struct {
	ListDisplay    []string `json:"list_display,omitempty"`
	SearchFields   []string `json:"search_fields,omitempty"`
	ListFilter     []string `json:"list_filter,omitempty"`
	ReadonlyFields []string `json:"readonly_fields,omitempty"`
	Actions        []string `json:"actions,omitempty"`
}
