package gen

import (
	"slices"
	"strings"

	"github.com/syssam/crudgen/compiler/load"
	"github.com/syssam/crudgen/schema/field"
)

// The following types and their exported methods are used by the emitters
// to generate the artifacts.
type (
	// Type represents one model of the graph, its fields and relations, and
	// the per-artifact options derived from the schema.
	Type struct {
		*Config
		model *load.Model
		// Name holds the model name, verbatim from the schema.
		Name string
		// Fields holds the fields in declaration order. A field named like
		// the primary key is never part of it.
		Fields []*Field
		fields map[string]*Field
		// DisplayField is the field representing an instance in
		// human-readable form. Nil when no field qualifies.
		DisplayField *Field
		// Permissions are the allowed operations of the handlers.
		Permissions Permissions
		// Depth is the nesting depth of the default serializer.
		Depth int
		// SerializerFields are the fields exposed by the default serializer.
		SerializerFields []*Field
		readOnly         map[string]bool
		writeOnly        map[string]bool
		// Indexes are the composite indexes and unique sets from meta.
		Indexes []*Index
		// Ordering is the default ordering from meta, in query form.
		Ordering []string
		// Methods are the opaque methods copied into the entity.
		Methods []*load.Method
		// Admin holds the admin selections.
		Admin *AdminSpec
	}

	// Field holds the information of a model field used by the emitters.
	Field struct {
		typ *Type
		def *load.Field
		// Name is the field name in the schema, used for columns and JSON.
		Name string
		// Desc is the parsed declaration.
		Desc *field.Descriptor
		// Type is the enumerated field type.
		Type field.Type
		// Rel is set for relation fields.
		Rel *Relation
		// indexes are the named composite indexes the field is part of.
		indexes []string
		// uniques are the named unique sets the field is part of.
		uniques []string
	}

	// Index is a named composite index resolved against the model fields.
	Index struct {
		Name   string
		Fields []*Field
		Unique bool
	}

	// Permissions of the generated handlers.
	Permissions struct {
		Read, Create, Update, Delete bool
	}
)

// AllPermissions are the operations allowed when a model does not restrict them.
var AllPermissions = Permissions{Read: true, Create: true, Update: true, Delete: true}

// All reports whether every operation is allowed.
func (p Permissions) All() bool { return p == AllPermissions }

// Names returns the allowed operations in canonical order.
func (p Permissions) Names() []string {
	var names []string
	for _, op := range []struct {
		name string
		ok   bool
	}{{"read", p.Read}, {"create", p.Create}, {"update", p.Update}, {"delete", p.Delete}} {
		if op.ok {
			names = append(names, op.name)
		}
	}
	return names
}

// Model returns the schema definition of the type.
func (t Type) Model() *load.Model { return t.model }

// Field returns the field with the given schema name.
func (t Type) Field(name string) (*Field, bool) {
	f, ok := t.fields[name]
	return f, ok
}

// Table returns the database table of the type.
func (t Type) Table() string {
	if t.model != nil && t.model.Meta.DBTable != "" {
		return t.model.Meta.DBTable
	}
	return strings.ToLower(t.Name)
}

// Route returns the route segment of the type, e.g. "categories".
func (t Type) Route() string { return Pluralize(t.Name) }

// VerboseName returns the display name of the type.
func (t Type) VerboseName() string {
	if t.model != nil && t.model.Meta.VerboseName != "" {
		return t.model.Meta.VerboseName
	}
	return DisplayName(t.Name)
}

// VerboseNamePlural returns the plural display name of the type.
func (t Type) VerboseNamePlural() string {
	if t.model != nil && t.model.Meta.VerboseNamePlural != "" {
		return t.model.Meta.VerboseNamePlural
	}
	return PluralDisplayName(t.VerboseName())
}

// PluralName returns the plural form of the type name, used in accessor
// names such as RecentPlayers.
func (t Type) PluralName() string { return plural(t.Name) }

// MetaName returns the name of the metadata variable of the type.
func (t Type) MetaName() string { return t.Name + "Meta" }

// SerializerName returns the name of the default serializer.
func (t Type) SerializerName() string { return t.Name + "Serializer" }

// ListSerializerName returns the name of the list serializer variant.
func (t Type) ListSerializerName() string { return t.Name + "ListSerializer" }

// NestedSerializerName returns the name of the nested serializer variant.
func (t Type) NestedSerializerName() string { return t.Name + "NestedSerializer" }

// CreateUpdateSerializerName returns the name of the create/update serializer variant.
func (t Type) CreateUpdateSerializerName() string { return t.Name + "CreateUpdateSerializer" }

// ViewSetName returns the name of the handler type.
func (t Type) ViewSetName() string { return t.Name + "ViewSet" }

// AdminName returns the name of the admin registration variable.
func (t Type) AdminName() string { return t.Name + "Admin" }

// Identifiers returns the package-level identifiers declared for the type
// in the generated package, the type name first.
func (t Type) Identifiers() []string {
	names := []string{t.Name, t.MetaName(), "Recent" + t.PluralName(), t.ViewSetName(), "New" + t.ViewSetName(), t.AdminName(), "register" + t.Name + "Routes"}
	for _, s := range []string{t.SerializerName(), t.ListSerializerName(), t.NestedSerializerName(), t.CreateUpdateSerializerName()} {
		names = append(names, s, "New"+s, "new"+s)
	}
	return names
}

// Relations returns the relation fields of the type.
func (t Type) Relations() []*Field {
	var rels []*Field
	for _, f := range t.Fields {
		if f.Rel != nil {
			rels = append(rels, f)
		}
	}
	return rels
}

// HasRelations reports whether the type has at least one relation field.
func (t Type) HasRelations() bool { return len(t.Relations()) > 0 }

// Dependencies returns the distinct in-schema models referenced by the
// to-one relations of the type, self references excluded.
func (t Type) Dependencies() []string {
	var deps []string
	for _, f := range t.Fields {
		if f.Rel == nil || !f.Rel.ToOne() || f.Rel.Type == nil || f.Rel.Self() {
			continue
		}
		if !slices.Contains(deps, f.Rel.Target) {
			deps = append(deps, f.Rel.Target)
		}
	}
	return deps
}

// ReadOnly reports whether the field is read-only in the default serializer.
// Declared read-only fields, auto-populated fields and nested relations are.
func (t Type) ReadOnly(f *Field) bool {
	return t.readOnly[f.Name] || f.AutoPopulated()
}

// WriteOnly reports whether the field is omitted from representations.
func (t Type) WriteOnly(f *Field) bool {
	return t.writeOnly[f.Name]
}

// Nests reports whether the default serializer embeds the related
// serializer of the relation field.
func (t Type) Nests(f *Field) bool {
	return t.Depth > 0 && f.Rel != nil && f.Rel.Type != nil
}

// Preloads returns the exposed in-schema relation fields, loaded together
// with the type so that serializers can read their keys.
func (t Type) Preloads() []*Field {
	var out []*Field
	for _, f := range t.SerializerFields {
		if f.Rel != nil && f.Rel.Type != nil {
			out = append(out, f)
		}
	}
	return out
}

// ListFields returns the fields of the list serializer variant: up to six
// fields, picking the display field first, then filterable fields, then
// the remaining fields in declaration order. To-many relations and
// write-only fields are never listed.
func (t Type) ListFields() []*Field {
	const limit = 6
	var (
		out  []*Field
		seen = make(map[string]bool)
	)
	add := func(f *Field) {
		if len(out) < limit && !seen[f.Name] && !t.WriteOnly(f) && !f.IsToMany() {
			seen[f.Name] = true
			out = append(out, f)
		}
	}
	exposed := t.SerializerFields
	if t.DisplayField != nil && slices.Contains(exposed, t.DisplayField) {
		add(t.DisplayField)
	}
	for _, f := range exposed {
		if f.IsFilterable() {
			add(f)
		}
	}
	for _, f := range exposed {
		add(f)
	}
	return out
}

// CreateUpdateFields returns the writable fields of the create/update
// serializer variant. Auto-populated and read-only fields are excluded.
func (t Type) CreateUpdateFields() []*Field {
	var out []*Field
	for _, f := range t.SerializerFields {
		if !t.ReadOnly(f) {
			out = append(out, f)
		}
	}
	return out
}

// TextFields returns the text fields of the type.
func (t Type) TextFields() []*Field {
	var out []*Field
	for _, f := range t.Fields {
		if f.IsText() {
			out = append(out, f)
		}
	}
	return out
}

// UniqueTextFields returns the exposed text fields declared unique.
func (t Type) UniqueTextFields() []*Field {
	var out []*Field
	for _, f := range t.SerializerFields {
		if f.IsText() && f.IsUnique() {
			out = append(out, f)
		}
	}
	return out
}
