package gen

import (
	"slices"

	"github.com/syssam/crudgen/compiler/load"
)

// Admin defaults.
const (
	adminListDisplayLimit = 6
	adminSearchLimit      = 4
	adminFilterLimit      = 4
	adminFieldsetSplit    = 4
	adminPerPage          = 25

	// ExportAction is the admin action available on every model.
	ExportAction = "export_selected_as_json"
)

// AdminSpec holds the admin selections of a type.
type AdminSpec struct {
	ListDisplay    []string
	SearchFields   []string
	ListFilter     []string
	ReadonlyFields []string
	Actions        []string
	Ordering       []string
	ListPerPage    int
	Fieldsets      []Fieldset
}

// Fieldset groups fields on the admin edit form.
type Fieldset struct {
	Name      string
	Fields    []string
	Collapsed bool
}

// admin derives the admin selections from the field types, then applies the
// explicit admin options on top.
func (g *Graph) admin(t *Type, opts load.AdminOptions) *AdminSpec {
	spec := &AdminSpec{
		ListDisplay: []string{reservedField},
		Ordering:    []string{"-" + reservedField},
		ListPerPage: adminPerPage,
		Actions:     []string{ExportAction},
	}
	for _, f := range t.Fields {
		if f.IsText() && len(spec.SearchFields) < adminSearchLimit {
			spec.SearchFields = append(spec.SearchFields, f.Name)
		}
		if f.IsFilterable() && len(spec.ListFilter) < adminFilterLimit {
			spec.ListFilter = append(spec.ListFilter, f.Name)
		}
		if f.IsReadOnlyCandidate() {
			spec.ReadonlyFields = append(spec.ReadonlyFields, f.Name)
		}
		if !f.IsToMany() && len(spec.ListDisplay) < adminListDisplayLimit {
			spec.ListDisplay = append(spec.ListDisplay, f.Name)
		}
	}
	if opts.ListDisplay != nil {
		spec.ListDisplay = g.adminRefs(t, "admin_options.list_display", opts.ListDisplay, adminListDisplayLimit)
	}
	if opts.SearchFields != nil {
		spec.SearchFields = g.adminRefs(t, "admin_options.search_fields", opts.SearchFields, adminSearchLimit)
	}
	if opts.ListFilter != nil {
		spec.ListFilter = g.adminRefs(t, "admin_options.list_filter", opts.ListFilter, adminFilterLimit)
	}
	if opts.ReadonlyFields != nil {
		spec.ReadonlyFields = g.adminRefs(t, "admin_options.readonly_fields", opts.ReadonlyFields, 0)
	}
	for _, a := range opts.Actions {
		if !slices.Contains(spec.Actions, a) {
			spec.Actions = append(spec.Actions, a)
		}
	}
	if len(t.Fields) > adminListDisplayLimit {
		basic, extra := make([]string, 0, adminFieldsetSplit), make([]string, 0, len(t.Fields)-adminFieldsetSplit)
		for i, f := range t.Fields {
			if i < adminFieldsetSplit {
				basic = append(basic, f.Name)
			} else {
				extra = append(extra, f.Name)
			}
		}
		spec.Fieldsets = []Fieldset{
			{Name: "Basic Information", Fields: basic},
			{Name: "Additional Details", Fields: extra, Collapsed: true},
		}
	}
	return spec
}

// adminRefs keeps the names that refer to fields of t or to the primary
// key, up to limit names when limit is positive.
func (g *Graph) adminRefs(t *Type, option string, names []string, limit int) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := t.fields[name]; !ok && name != reservedField && name != "pk" {
			g.Diagnostics.AddSchema(CodeUnknownFieldReference, t.Name, "%s references unknown field %q", option, name)
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, name)
	}
	return out
}
