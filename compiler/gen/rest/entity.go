package rest

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/gen"
)

// genEntities generates the entity file (entities.go).
func genEntities(g *gen.Graph) *jen.File {
	f := newFile(g)
	genModelMeta(f)
	for _, t := range g.Order() {
		genEntityStruct(f, t)
		genEntityMeta(f, t)
		genEntityString(f, t)
		genEntitySlug(f, t)
		genEntityRecent(f, t)
		for _, m := range t.Methods {
			genEntityMethod(f, t, m.Name, m.Body)
		}
	}
	genSlugify(f)
	genAllModels(f, g)
	return f
}

// genModelMeta generates the metadata types shared by all entities.
func genModelMeta(f *jen.File) {
	f.Comment("ModelMeta describes a model: its display names, table, default ordering and indexes.")
	f.Type().Id("ModelMeta").Struct(
		jen.Id("VerboseName").String(),
		jen.Id("VerboseNamePlural").String(),
		jen.Id("Table").String(),
		jen.Id("DisplayField").String(),
		jen.Id("Ordering").Index().String(),
		jen.Id("Indexes").Index().Id("IndexMeta"),
		jen.Id("Options").Map(jen.String()).String(),
	)
	f.Comment("IndexMeta describes a composite index or unique set.")
	f.Type().Id("IndexMeta").Struct(
		jen.Id("Name").String(),
		jen.Id("Columns").Index().String(),
		jen.Id("Unique").Bool(),
	)
}

// genEntityStruct generates the entity struct and its TableName method.
func genEntityStruct(f *jen.File, t *gen.Type) {
	f.Commentf("%s is the model entity for the %s schema.", t.Name, t.Name)
	f.Type().Id(t.Name).StructFunc(func(group *jen.Group) {
		group.Id("ID").Uint().Tag(tags("gorm", "primaryKey", "json", "id"))
		for _, fd := range t.Fields {
			group.Comment(comment(fd))
			if help := fd.HelpText(); help != "" {
				group.Comment(strings.Join(strings.Fields(help), " "))
			}
			switch {
			case fd.IsToOne():
				group.Id(fd.KeyField()).Add(keyType(fd)).Tag(tags("gorm", gormTag(fd), "json", fd.KeyJSON()))
				if embeds(fd) {
					group.Id(fd.StructField()).Op("*").Id(relatedName(fd)).
						Tag(tags("gorm", relationTag(fd), "json", fd.Name+",omitempty"))
				}
			case fd.IsToMany() && embeds(fd):
				group.Id(fd.StructField()).Index().Id(relatedName(fd)).
					Tag(tags("gorm", relationTag(fd), "json", fd.Name+",omitempty"))
			case fd.IsToMany():
				group.Id(fd.KeyField()).Add(keyType(fd)).Tag(tags("gorm", "-", "json", fd.KeyJSON()))
			default:
				group.Id(fd.StructField()).Add(goType(fd)).Tag(tags("gorm", gormTag(fd), "json", fd.Name))
			}
		}
	})

	f.Commentf("TableName returns the table name of %s.", t.Name)
	f.Func().Params(jen.Id(t.Name)).Id("TableName").Params().String().Block(
		jen.Return(jen.Lit(t.Table())),
	)
}

// genEntityMeta generates the <M>Meta variable.
func genEntityMeta(f *jen.File, t *gen.Type) {
	meta := t.Model().Meta
	f.Commentf("%s holds the metadata of %s.", t.MetaName(), t.Name)
	f.Var().Id(t.MetaName()).Op("=").Id("ModelMeta").Values(jen.DictFunc(func(d jen.Dict) {
		d[jen.Id("VerboseName")] = jen.Lit(t.VerboseName())
		d[jen.Id("VerboseNamePlural")] = jen.Lit(t.VerboseNamePlural())
		d[jen.Id("Table")] = jen.Lit(t.Table())
		if t.DisplayField != nil {
			d[jen.Id("DisplayField")] = jen.Lit(t.DisplayField.Name)
		}
		if len(meta.Ordering) > 0 {
			d[jen.Id("Ordering")] = stringsLit(meta.Ordering)
		}
		if len(t.Indexes) > 0 {
			d[jen.Id("Indexes")] = jen.Index().Id("IndexMeta").ValuesFunc(func(group *jen.Group) {
				for _, ix := range t.Indexes {
					columns := make([]string, len(ix.Fields))
					for i, fd := range ix.Fields {
						columns[i] = fd.Column()
					}
					group.Values(jen.Dict{
						jen.Id("Name"):    jen.Lit(ix.Name),
						jen.Id("Columns"): stringsLit(columns),
						jen.Id("Unique"):  jen.Lit(ix.Unique),
					})
				}
			})
		}
		if len(meta.Extra) > 0 {
			d[jen.Id("Options")] = jen.Map(jen.String()).String().Values(jen.DictFunc(func(o jen.Dict) {
				for _, opt := range meta.Extra {
					o[jen.Lit(opt.Key)] = jen.Lit(opt.Value)
				}
			}))
		}
	}))
}

// displayValue binds the display value of m to a local string variable
// and returns the statements doing so. It returns nil when the type has no
// display field.
func displayValue(t *gen.Type, name string) []jen.Code {
	d := t.DisplayField
	if d == nil {
		return nil
	}
	member := jen.Id("m").Dot(d.StructField())
	if !pointer(d) {
		return []jen.Code{jen.Id(name).Op(":=").Add(member)}
	}
	return []jen.Code{
		jen.Var().Id(name).String(),
		jen.If(jen.Id("m").Dot(d.StructField()).Op("!=").Nil()).Block(
			jen.Id(name).Op("=").Op("*").Add(member.Clone()),
		),
	}
}

// genEntityString generates the String method, preferring the display field.
func genEntityString(f *jen.File, t *gen.Type) {
	f.Commentf("String returns the display value of the %s.", t.Name)
	f.Func().Params(jen.Id("m").Op("*").Id(t.Name)).Id("String").Params().String().BlockFunc(func(b *jen.Group) {
		if stmts := displayValue(t, "v"); stmts != nil {
			addAll(b, stmts)
			b.If(jen.Id("v").Op("!=").Lit("")).Block(jen.Return(jen.Id("v")))
		}
		b.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit(t.Name+" %d"), jen.Id("m").Dot("ID")))
	})
}

// genEntitySlug generates the URLSlug method.
func genEntitySlug(f *jen.File, t *gen.Type) {
	fallback := strings.ToLower(t.Name)
	f.Commentf("URLSlug returns a URL-safe identifier of the %s, stable for a given display value and id.", t.Name)
	f.Func().Params(jen.Id("m").Op("*").Id(t.Name)).Id("URLSlug").Params().String().BlockFunc(func(b *jen.Group) {
		stmts := displayValue(t, "v")
		if stmts == nil {
			b.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit(fallback+"-%d"), jen.Id("m").Dot("ID")))
			return
		}
		addAll(b, stmts)
		b.Id("base").Op(":=").Id("slugify").Call(jen.Id("v"))
		b.If(jen.Id("base").Op("==").Lit("")).Block(jen.Id("base").Op("=").Lit(fallback))
		b.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit("%s-%d"), jen.Id("base"), jen.Id("m").Dot("ID")))
	})
}

// genEntityRecent generates the Recent<Plural> accessor.
func genEntityRecent(f *jen.File, t *gen.Type) {
	name := "Recent" + t.PluralName()
	f.Commentf("%s returns the n most recently created %s records, newest first.", name, t.Name)
	f.Func().Id(name).Params(
		jen.Id("db").Op("*").Qual(gormPkg, "DB"),
		jen.Id("n").Int(),
	).Params(jen.Index().Id(t.Name), jen.Error()).Block(
		jen.Var().Id("out").Index().Id(t.Name),
		jen.Err().Op(":=").Id("db").Dot("Order").Call(jen.Lit("id desc")).
			Dot("Limit").Call(jen.Id("n")).
			Dot("Find").Call(jen.Op("&").Id("out")).Dot("Error"),
		jen.Return(jen.Id("out"), jen.Err()),
	)
}

// genEntityMethod copies an opaque method body into the entity. The body
// is an expression evaluated with self bound to the receiver.
func genEntityMethod(f *jen.File, t *gen.Type, name, body string) {
	f.Commentf("%s is declared by the %s schema.", gen.Pascal(name), t.Name)
	f.Func().Params(jen.Id("m").Op("*").Id(t.Name)).Id(gen.Pascal(name)).Params().Any().Block(
		jen.Id("self").Op(":=").Id("m"),
		jen.Id("_").Op("=").Id("self"),
		jen.Return(jen.Id(strings.TrimSpace(body))),
	)
}

// genSlugify generates the slug helper used by the URLSlug methods.
func genSlugify(f *jen.File) {
	f.Var().Id("slugPattern").Op("=").Qual("regexp", "MustCompile").Call(jen.Lit("[^a-z0-9]+"))
	f.Line()
	f.Comment("slugify lowercases s and joins its alphanumeric runs with dashes.")
	f.Func().Id("slugify").Params(jen.Id("s").String()).String().Block(
		jen.Return(jen.Qual("strings", "Trim").Call(
			jen.Id("slugPattern").Dot("ReplaceAllString").Call(
				jen.Qual("strings", "ToLower").Call(jen.Id("s")),
				jen.Lit("-"),
			),
			jen.Lit("-"),
		)),
	)
}

// genAllModels generates the model registry in dependency order.
func genAllModels(f *jen.File, g *gen.Graph) {
	f.Comment("AllModels returns a zero value of every model, referenced models first.")
	f.Comment("The result can be passed to gorm's AutoMigrate.")
	f.Func().Id("AllModels").Params().Index().Any().Block(
		jen.Return(jen.Index().Any().ValuesFunc(func(group *jen.Group) {
			for _, t := range g.Order() {
				group.Op("&").Id(t.Name).Values()
			}
		})),
	)
}
