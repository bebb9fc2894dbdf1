package rest

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/gen"
)

// genAdmin generates the admin registry file (admin.go).
func genAdmin(g *gen.Graph) *jen.File {
	f := newFile(g)
	genAdminTypes(f)
	for _, t := range g.Order() {
		genModelAdmin(f, t)
	}

	f.Comment("Site is the admin site with every model registered.")
	f.Var().Id("Site").Op("=").Op("&").Id("AdminSite").Values(jen.Dict{
		jen.Id("Header"):     jen.Lit(g.AdminSite.Header),
		jen.Id("Title"):      jen.Lit(g.AdminSite.Title),
		jen.Id("IndexTitle"): jen.Lit(g.AdminSite.IndexTitle),
		jen.Id("Models"): jen.Index().Op("*").Id("ModelAdmin").ValuesFunc(func(group *jen.Group) {
			for _, t := range g.Order() {
				group.Id(t.AdminName())
			}
		}),
	})

	f.Comment("Lookup returns the registration of the named model.")
	f.Func().Params(jen.Id("s").Op("*").Id("AdminSite")).Id("Lookup").Params(jen.Id("name").String()).
		Params(jen.Op("*").Id("ModelAdmin"), jen.Bool()).Block(
		jen.For(jen.List(jen.Id("_"), jen.Id("m")).Op(":=").Range().Id("s").Dot("Models")).Block(
			jen.If(jen.Id("m").Dot("Name").Op("==").Id("name")).Block(jen.Return(jen.Id("m"), jen.True())),
		),
		jen.Return(jen.Nil(), jen.False()),
	)

	f.Commentf("ExportSelectedAsJSON implements the %s action: it renders the", gen.ExportAction)
	f.Comment("selected records as indented JSON.")
	f.Func().Id("ExportSelectedAsJSON").Params(jen.Id("items").Any()).Params(jen.Index().Byte(), jen.Error()).Block(
		jen.Return(jen.Qual("encoding/json", "MarshalIndent").Call(jen.Id("items"), jen.Lit(""), jen.Lit("  "))),
	)
	return f
}

func genAdminTypes(f *jen.File) {
	f.Comment("AdminSite is the registry of the model admins.")
	f.Type().Id("AdminSite").Struct(
		jen.Id("Header").String(),
		jen.Id("Title").String(),
		jen.Id("IndexTitle").String(),
		jen.Id("Models").Index().Op("*").Id("ModelAdmin"),
	)
	f.Comment("ModelAdmin configures the admin pages of one model.")
	f.Type().Id("ModelAdmin").Struct(
		jen.Id("Name").String(),
		jen.Id("Model").Any(),
		jen.Id("ListDisplay").Index().String(),
		jen.Id("SearchFields").Index().String(),
		jen.Id("ListFilter").Index().String(),
		jen.Id("ReadonlyFields").Index().String(),
		jen.Id("Actions").Index().String(),
		jen.Id("Ordering").Index().String(),
		jen.Id("ListPerPage").Int(),
		jen.Id("Fieldsets").Index().Id("Fieldset"),
	)
	f.Comment("Fieldset groups fields on the edit form.")
	f.Type().Id("Fieldset").Struct(
		jen.Id("Name").String(),
		jen.Id("Fields").Index().String(),
		jen.Id("Collapsed").Bool(),
	)
}

func genModelAdmin(f *jen.File, t *gen.Type) {
	spec := t.Admin
	f.Commentf("%s registers %s with the admin site.", t.AdminName(), t.Name)
	f.Var().Id(t.AdminName()).Op("=").Op("&").Id("ModelAdmin").Values(jen.DictFunc(func(d jen.Dict) {
		d[jen.Id("Name")] = jen.Lit(t.Name)
		d[jen.Id("Model")] = jen.Op("&").Id(t.Name).Values()
		if spec == nil {
			return
		}
		for key, values := range map[string][]string{
			"ListDisplay":    spec.ListDisplay,
			"SearchFields":   spec.SearchFields,
			"ListFilter":     spec.ListFilter,
			"ReadonlyFields": spec.ReadonlyFields,
			"Actions":        spec.Actions,
			"Ordering":       spec.Ordering,
		} {
			if len(values) > 0 {
				d[jen.Id(key)] = stringsLit(values)
			}
		}
		d[jen.Id("ListPerPage")] = jen.Lit(spec.ListPerPage)
		if len(spec.Fieldsets) > 0 {
			d[jen.Id("Fieldsets")] = jen.Index().Id("Fieldset").ValuesFunc(func(group *jen.Group) {
				for _, fs := range spec.Fieldsets {
					group.Values(jen.DictFunc(func(fd jen.Dict) {
						fd[jen.Id("Name")] = jen.Lit(fs.Name)
						fd[jen.Id("Fields")] = stringsLit(fs.Fields)
						if fs.Collapsed {
							fd[jen.Id("Collapsed")] = jen.True()
						}
					}))
				}
			})
		}
	}))
}
