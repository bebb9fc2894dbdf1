package gen

import (
	"go/token"
	"slices"
	"strings"

	"github.com/syssam/crudgen/compiler/load"
	"github.com/syssam/crudgen/schema/field"
)

// reservedField is the implicit primary key of every model.
const reservedField = "id"

// Graph holds the analyzed schema: the types in schema order, the resolved
// emission order and the diagnostics collected on the way.
type Graph struct {
	*Config
	// Schema is the loaded document.
	Schema *load.Schema
	// Nodes are the types in schema order.
	Nodes []*Type
	// Diagnostics are the non-fatal warnings of the analysis.
	Diagnostics Diagnostics

	order []*Type
	types map[string]*Type
}

// NewGraph analyzes the schema. Analysis never fails on schema content:
// problems are collected as diagnostics and best-effort defaults are used.
func NewGraph(c *Config, s *load.Schema) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config is required")
	}
	if s == nil {
		s = &load.Schema{}
	}
	g := &Graph{Config: c, Schema: s, types: make(map[string]*Type, len(s.Models))}
	declared := g.fixedIdentifiers()
	for _, m := range s.Models {
		if !token.IsIdentifier(m.Name) || token.IsKeyword(m.Name) {
			g.Diagnostics.AddSchema(CodeInvalidIdentifier, m.Name, "model name is not a valid identifier, model skipped")
			continue
		}
		ids := Type{Name: m.Name}.Identifiers()
		if id, owner, ok := collision(declared, ids); ok {
			if owner == "" {
				g.Diagnostics.AddSchema(CodeNameCollision, m.Name, "%s collides with a generated identifier, model skipped", id)
			} else {
				g.Diagnostics.AddSchema(CodeNameCollision, m.Name, "%s collides with an identifier of model %s, model skipped", id, owner)
			}
			continue
		}
		for _, id := range ids {
			declared[id] = m.Name
		}
		t := g.newType(m)
		g.Nodes = append(g.Nodes, t)
		g.types[t.Name] = t
	}
	for _, t := range g.Nodes {
		g.resolveRelations(t)
	}
	for _, t := range g.Nodes {
		g.configure(t)
	}
	g.resolve()
	return g, nil
}

// Type returns the type with the given model name.
func (g *Graph) Type(name string) (*Type, bool) {
	t, ok := g.types[name]
	return t, ok
}

// Order returns the types in emission order.
func (g *Graph) Order() []*Type { return g.order }

// OrderNames returns the model names in emission order.
func (g *Graph) OrderNames() []string {
	names := make([]string, len(g.order))
	for i, t := range g.order {
		names[i] = t.Name
	}
	return names
}

func (g *Graph) newType(m *load.Model) *Type {
	t := &Type{
		Config: g.Config,
		model:  m,
		Name:   m.Name,
		fields: make(map[string]*Field, len(m.Fields)),
	}
	for _, key := range m.Unknown {
		g.Diagnostics.AddSchema(CodeUnknownOption, t.Name, "unknown model option %q ignored", key)
	}
	members := map[string]string{"ID": reservedField}
	for _, def := range m.Fields {
		f := &Field{typ: t, def: def, Name: def.Name, Desc: def.Descriptor}
		if f.Desc == nil {
			f.Desc = field.Parse(def.Decl)
		}
		f.Type = f.Desc.Type
		switch {
		case strings.EqualFold(f.Name, reservedField):
			g.Diagnostics.AddField(CodeReservedField, t.Name, f.Name, "field name collides with the primary key, field dropped")
			continue
		case !token.IsIdentifier(f.Name):
			g.Diagnostics.AddField(CodeInvalidIdentifier, t.Name, f.Name, "field name is not a valid identifier, field dropped")
			continue
		}
		g.classify(t, f)
		names := []string{f.StructField()}
		if f.Rel != nil {
			names = append(names, f.KeyField())
		}
		if other, ok := conflict(members, names); ok {
			g.Diagnostics.AddField(CodeInvalidIdentifier, t.Name, f.Name, "field collides with field %s, field dropped", other)
			continue
		}
		for _, n := range names {
			members[n] = f.Name
		}
		t.Fields = append(t.Fields, f)
		t.fields[f.Name] = f
	}
	for _, f := range t.Fields {
		if f.IsDisplayCandidate() {
			t.DisplayField = f
			break
		}
	}
	return t
}

// fixedIdentifiers returns the identifiers the generator declares
// regardless of the schema, mapped to an empty owner.
func (g *Graph) fixedIdentifiers() map[string]string {
	declared := make(map[string]string)
	if ig, ok := g.Generator.(IdentifierGenerator); ok {
		for _, id := range ig.Identifiers() {
			declared[id] = ""
		}
	}
	return declared
}

// collision returns the first of ids already declared, and its owner.
func collision(declared map[string]string, ids []string) (string, string, bool) {
	for _, id := range ids {
		if owner, ok := declared[id]; ok {
			return id, owner, true
		}
	}
	return "", "", false
}

func conflict(members map[string]string, names []string) (string, bool) {
	for _, n := range names {
		if other, ok := members[n]; ok {
			return other, true
		}
	}
	return "", false
}

// classify records the field warnings and sets up the relation.
func (g *Graph) classify(t *Type, f *Field) {
	d := f.Desc
	if d.Err != nil {
		g.Diagnostics.AddField(CodeMalformedDeclaration, t.Name, f.Name, "%v", d.Err)
	}
	if !d.Type.Valid() && d.Name != "" {
		g.Diagnostics.AddField(CodeUnknownType, t.Name, f.Name, "unknown field type %q, treated as text", d.Name)
	}
	if d.Type == field.TypeChar && !d.Has("max_length") {
		g.Diagnostics.AddField(CodeMissingMaxLength, t.Name, f.Name, "CharField %s has no max_length", f.Name)
	}
	for _, v := range d.Validators {
		if _, ok := validatorTags[v.Name]; !ok {
			g.Diagnostics.AddField(CodeUnsupportedValidator, t.Name, f.Name, "validator %s has no binding equivalent, ignored", v.Name)
		}
	}
	if !d.Type.IsRelation() || d.Target == "" {
		return
	}
	if _, ok := d.OnDelete(); !ok && d.Type.IsToOne() {
		g.Diagnostics.AddField(CodeMissingOnDelete, t.Name, f.Name, "%s %s has no on_delete policy", d.Name, f.Name)
	}
	if !d.TargetQuoted {
		g.Diagnostics.AddField(CodeUnquotedTarget, t.Name, f.Name, "relation target %s should be quoted", d.Target)
	}
	policy, _ := d.OnDelete()
	f.Rel = &Relation{
		Target:   d.Target,
		Many:     d.Type == field.TypeManyToMany,
		OnDelete: policy,
		Quoted:   d.TargetQuoted,
		owner:    t,
	}
	if d.SelfReference() {
		f.Rel.Target = t.Name
	}
}

// resolveRelations links relation fields to their target types.
func (g *Graph) resolveRelations(t *Type) {
	for _, f := range t.Fields {
		if f.Rel == nil {
			continue
		}
		if target, ok := g.types[f.Rel.Target]; ok {
			f.Rel.Type = target
			continue
		}
		g.Diagnostics.Add(UnresolvedDependency, CodeUnresolvedTarget, t.Name, f.Name,
			"relation target %s is not a model of the schema, treated as external", f.Rel.Target)
	}
}

// configure derives the model options: permissions, serializer, meta and admin.
func (g *Graph) configure(t *Type) {
	m := t.model
	t.Permissions = g.permissions(t, m.Permissions)
	t.Methods = g.methods(t, m.Methods)
	g.serializer(t, m.Serializer)
	g.meta(t, m.Meta)
	t.Admin = g.admin(t, m.Admin)
}

func (g *Graph) permissions(t *Type, names []string) Permissions {
	if names == nil {
		return AllPermissions
	}
	var p Permissions
	for _, name := range names {
		switch strings.ToLower(name) {
		case "read":
			p.Read = true
		case "create":
			p.Create = true
		case "update":
			p.Update = true
		case "delete":
			p.Delete = true
		default:
			g.Diagnostics.AddSchema(CodeUnknownPermission, t.Name, "unknown permission %q ignored", name)
		}
	}
	return p
}

func (g *Graph) methods(t *Type, methods []*load.Method) []*load.Method {
	var out []*load.Method
	seen := make(map[string]bool)
	for _, f := range t.Fields {
		seen[f.StructField()] = true
		if f.Rel != nil {
			seen[f.KeyField()] = true
		}
	}
	seen["ID"] = true
	for _, name := range helperMembers {
		seen[name] = true
	}
	for _, m := range methods {
		name := pascal(m.Name)
		if !token.IsIdentifier(name) {
			g.Diagnostics.AddSchema(CodeInvalidIdentifier, t.Name, "method name %q is not a valid identifier, method skipped", m.Name)
			continue
		}
		if seen[name] {
			g.Diagnostics.AddSchema(CodeMethodConflict, t.Name, "method %s collides with a generated member, method skipped", name)
			continue
		}
		seen[name] = true
		out = append(out, m)
	}
	return out
}

func (g *Graph) serializer(t *Type, opts load.SerializerOptions) {
	t.Depth = 1
	if opts.Depth != nil {
		t.Depth = *opts.Depth
		if t.Depth < 0 {
			g.Diagnostics.AddSchema(CodeNegativeDepth, t.Name, "serializer depth %d is negative, using 0", t.Depth)
			t.Depth = 0
		}
	}
	include, exclude := opts.Include, opts.Exclude
	if include != nil && exclude != nil {
		g.Diagnostics.AddSchema(CodeIncludeExcludeConflict, t.Name, "serializer include and exclude are mutually exclusive, using include")
		exclude = nil
	}
	switch {
	case include != nil:
		for _, name := range g.fieldRefs(t, "serializer_options.include", include) {
			t.SerializerFields = append(t.SerializerFields, t.fields[name])
		}
	default:
		excluded := g.fieldRefs(t, "serializer_options.exclude", exclude)
		for _, f := range t.Fields {
			if !slices.Contains(excluded, f.Name) {
				t.SerializerFields = append(t.SerializerFields, f)
			}
		}
	}
	t.readOnly = toSet(g.fieldRefs(t, "serializer_options.read_only", opts.ReadOnly))
	t.writeOnly = toSet(g.fieldRefs(t, "serializer_options.write_only", opts.WriteOnly))
}

func (g *Graph) meta(t *Type, meta load.Meta) {
	for _, o := range meta.Ordering {
		name, desc := strings.TrimPrefix(o, "-"), strings.HasPrefix(o, "-")
		if name == "?" {
			continue
		}
		column := name
		if name != reservedField {
			f, ok := t.fields[name]
			if !ok {
				g.Diagnostics.AddSchema(CodeUnknownFieldReference, t.Name, "meta.ordering references unknown field %q", name)
				continue
			}
			column = f.Column()
		}
		if desc {
			column += " desc"
		}
		t.Ordering = append(t.Ordering, column)
	}
	for _, idx := range meta.Indexes {
		if ix := g.index(t, idx.Name, idx.Fields, false); ix != nil {
			t.Indexes = append(t.Indexes, ix)
		}
	}
	for _, set := range meta.UniqueTogether {
		if ix := g.index(t, "", set, true); ix != nil {
			t.Indexes = append(t.Indexes, ix)
		}
	}
}

func (g *Graph) index(t *Type, name string, fields []string, unique bool) *Index {
	refs := g.fieldRefs(t, "meta", fields)
	if len(refs) == 0 {
		return nil
	}
	ix := &Index{Name: name, Unique: unique}
	columns := make([]string, 0, len(refs))
	for _, ref := range refs {
		f := t.fields[ref]
		ix.Fields = append(ix.Fields, f)
		columns = append(columns, f.Column())
	}
	if ix.Name == "" {
		prefix := "idx_"
		if unique {
			prefix = "uniq_"
		}
		ix.Name = prefix + t.Table() + "_" + strings.Join(columns, "_")
	}
	for _, f := range ix.Fields {
		if unique {
			f.uniques = append(f.uniques, ix.Name)
		} else {
			f.indexes = append(f.indexes, ix.Name)
		}
	}
	return ix
}

// fieldRefs returns the names that refer to fields of t, reporting the others.
func (g *Graph) fieldRefs(t *Type, option string, names []string) []string {
	var out []string
	for _, name := range names {
		if _, ok := t.fields[name]; !ok {
			if name != reservedField && name != "pk" {
				g.Diagnostics.AddSchema(CodeUnknownFieldReference, t.Name, "%s references unknown field %q", option, name)
			}
			continue
		}
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
