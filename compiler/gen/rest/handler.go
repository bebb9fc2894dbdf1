package rest

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/gen"
)

// action is a standard handler action and the permission guarding it.
type action struct {
	name    string
	denied  string
	allowed func(gen.Permissions) bool
	body    func(*jen.Group, *gen.Type, serializers)
	doc     string
}

// serializers holds the serializer names a viewset uses per action.
type serializers struct {
	list, input string
}

var actions = []action{
	{
		name: "List", denied: "List not permitted", doc: "returns the collection",
		allowed: func(p gen.Permissions) bool { return p.Read },
		body:    genListAction,
	},
	{
		name: "Create", denied: "Create not permitted", doc: "creates a record",
		allowed: func(p gen.Permissions) bool { return p.Create },
		body:    genCreateAction,
	},
	{
		name: "Retrieve", denied: "Retrieve not permitted", doc: "returns one record",
		allowed: func(p gen.Permissions) bool { return p.Read },
		body:    genRetrieveAction,
	},
	{
		name: "Update", denied: "Update not permitted", doc: "replaces one record",
		allowed: func(p gen.Permissions) bool { return p.Update },
		body:    genUpdateAction(false),
	},
	{
		name: "PartialUpdate", denied: "Partial update not permitted", doc: "updates the given members of one record",
		allowed: func(p gen.Permissions) bool { return p.Update },
		body:    genUpdateAction(true),
	},
	{
		name: "Destroy", denied: "Delete not permitted", doc: "deletes one record",
		allowed: func(p gen.Permissions) bool { return p.Delete },
		body:    genDestroyAction,
	},
}

// genHandlers generates the handler file (handlers.go).
func genHandlers(g *gen.Graph) *jen.File {
	f := newFile(g)
	variants := g.HasFeature(gen.FeatureVariants.Name)
	for _, t := range g.Order() {
		s := serializers{list: t.SerializerName(), input: t.SerializerName()}
		if variants {
			s.list, s.input = t.ListSerializerName(), t.CreateUpdateSerializerName()
		}
		genViewSet(f, t)
		for _, a := range actions {
			recv := jen.Id("v").Op("*").Id(t.ViewSetName())
			ctx := jen.Id("c").Op("*").Qual(ginPkg, "Context")
			if !a.allowed(t.Permissions) {
				f.Commentf("%s is not permitted on %s.", a.name, t.Name)
				f.Func().Params(recv).Id(a.name).Params(ctx).Block(
					jen.Id("c").Dot("JSON").Call(jen.Qual(httpPkg, "StatusForbidden"), errorResponse(jen.Lit(a.denied))),
				)
				continue
			}
			f.Commentf("%s %s.", a.name, a.doc)
			f.Func().Params(recv).Id(a.name).Params(ctx).BlockFunc(func(b *jen.Group) {
				a.body(b, t, s)
			})
		}
		genAuxActions(f, t, g.RecentLimit)
	}
	genFail(f)
	return f
}

// genViewSet generates the viewset type and its query helpers.
func genViewSet(f *jen.File, t *gen.Type) {
	name := t.ViewSetName()
	recv := jen.Id("v").Op("*").Id(name)
	f.Commentf("%s serves the %s endpoints.", name, t.Name)
	f.Type().Id(name).Struct(
		jen.Id("DB").Op("*").Qual(gormPkg, "DB"),
	)
	f.Commentf("New%s returns a viewset backed by db.", name)
	f.Func().Id("New"+name).Params(jen.Id("db").Op("*").Qual(gormPkg, "DB")).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Dict{jen.Id("DB"): jen.Id("db")})),
	)

	f.Comment("base returns the query over all records, with relations preloaded.")
	f.Func().Params(recv).Id("base").Params().Op("*").Qual(gormPkg, "DB").BlockFunc(func(b *jen.Group) {
		q := jen.Id("v").Dot("DB").Dot("Model").Call(jen.Op("&").Id(t.Name).Values())
		for _, fd := range t.Preloads() {
			q.Dot("Preload").Call(jen.Lit(fd.StructField()))
		}
		b.Return(q)
	})

	f.Comment("queryset returns the default query: base in the default ordering.")
	f.Func().Params(recv.Clone()).Id("queryset").Params().Op("*").Qual(gormPkg, "DB").BlockFunc(func(b *jen.Group) {
		if len(t.Ordering) == 0 {
			b.Return(jen.Id("v").Dot("base").Call())
			return
		}
		b.Return(jen.Id("v").Dot("base").Call().Dot("Order").Call(jen.Lit(strings.Join(t.Ordering, ", "))))
	})

	f.Comment("object loads the record named by the pk parameter. It writes the")
	f.Comment("error response and reports false when there is none.")
	f.Func().Params(recv.Clone()).Id("object").Params(jen.Id("c").Op("*").Qual(ginPkg, "Context")).Params(jen.Op("*").Id(t.Name), jen.Bool()).Block(
		jen.Var().Id("m").Id(t.Name),
		jen.Err().Op(":=").Id("v").Dot("base").Call().
			Dot("Where").Call(jen.Lit("id = ?"), jen.Id("c").Dot("Param").Call(jen.Lit("pk"))).
			Dot("First").Call(jen.Op("&").Id("m")).Dot("Error"),
		jen.Switch().Block(
			jen.Case(jen.Qual("errors", "Is").Call(jen.Err(), jen.Qual(gormPkg, "ErrRecordNotFound"))).Block(
				jen.Id("c").Dot("JSON").Call(jen.Qual(httpPkg, "StatusNotFound"), errorResponse(jen.Lit(t.Name+" not found"))),
				jen.Return(jen.Nil(), jen.False()),
			),
			jen.Case(jen.Err().Op("!=").Nil()).Block(
				jen.Id("fail").Call(jen.Id("c"), jen.Qual(httpPkg, "StatusInternalServerError"), jen.Err()),
				jen.Return(jen.Nil(), jen.False()),
			),
		),
		jen.Return(jen.Op("&").Id("m"), jen.True()),
	)

	if unique := t.UniqueTextFields(); len(unique) > 0 {
		f.Comment("unique checks the unique members of m against the other records.")
		f.Func().Params(recv.Clone()).Id("unique").Params(jen.Id("m").Op("*").Id(t.Name)).Error().BlockFunc(func(b *jen.Group) {
			for _, fd := range unique {
				b.BlockFunc(func(check *jen.Group) {
					check.Var().Id("n").Int64()
					check.If(
						jen.Err().Op(":=").Id("v").Dot("DB").Dot("Model").Call(jen.Op("&").Id(t.Name).Values()).
							Dot("Where").Call(jen.Lit(fd.Column()+" = ? AND id <> ?"), jen.Id("m").Dot(fd.StructField()), jen.Id("m").Dot("ID")).
							Dot("Count").Call(jen.Op("&").Id("n")).Dot("Error"),
						jen.Err().Op("!=").Nil(),
					).Block(jen.Return(jen.Err()))
					check.If(jen.Id("n").Op(">").Lit(0)).Block(
						jen.Return(jen.Qual("errors", "New").Call(jen.Lit(fd.Name + ": " + strings.ToLower(t.VerboseName()) + " with this " + fd.Name + " already exists"))),
					)
				})
			}
			b.Return(jen.Nil())
		})
	}
}

// bindAndValidate binds the request body into in and runs its validators,
// answering 400 on failure.
func bindAndValidate(b *jen.Group) {
	b.If(jen.Err().Op(":=").Id("c").Dot("ShouldBindJSON").Call(jen.Id("in")), jen.Err().Op("!=").Nil()).Block(
		jen.Id("fail").Call(jen.Id("c"), jen.Qual(httpPkg, "StatusBadRequest"), jen.Err()),
		jen.Return(),
	)
	b.If(jen.Err().Op(":=").Id("in").Dot("Validate").Call(), jen.Err().Op("!=").Nil()).Block(
		jen.Id("fail").Call(jen.Id("c"), jen.Qual(httpPkg, "StatusBadRequest"), jen.Err()),
		jen.Return(),
	)
}

// checkUnique emits the unique check of the record when the type has one.
func checkUnique(b *jen.Group, t *gen.Type, record jen.Code) {
	if len(t.UniqueTextFields()) == 0 {
		return
	}
	b.If(jen.Err().Op(":=").Id("v").Dot("unique").Call(record), jen.Err().Op("!=").Nil()).Block(
		jen.Id("fail").Call(jen.Id("c"), jen.Qual(httpPkg, "StatusBadRequest"), jen.Err()),
		jen.Return(),
	)
}

// respond writes the default representation of m.
func respond(b *jen.Group, t *gen.Type, status string) {
	b.Id("c").Dot("JSON").Call(jen.Qual(httpPkg, status), jen.Id("New"+t.SerializerName()).Call(jen.Id("m")).Dot("ToRepresentation").Call())
}

// findAll emits the query loading q into items, answering 500 on failure.
func findAll(b *jen.Group, t *gen.Type, q *jen.Statement) {
	b.Var().Id("items").Index().Id(t.Name)
	b.If(jen.Err().Op(":=").Add(q).Dot("Find").Call(jen.Op("&").Id("items")).Dot("Error"), jen.Err().Op("!=").Nil()).Block(
		jen.Id("fail").Call(jen.Id("c"), jen.Qual(httpPkg, "StatusInternalServerError"), jen.Err()),
		jen.Return(),
	)
}

// respondAll writes the representations of items with the given serializer.
func respondAll(b *jen.Group, serializer string) {
	b.Id("out").Op(":=").Make(jen.Index().Map(jen.String()).Any(), jen.Len(jen.Id("items")))
	b.For(jen.Id("i").Op(":=").Range().Id("items")).Block(
		jen.Id("out").Index(jen.Id("i")).Op("=").Id("New" + serializer).Call(jen.Op("&").Id("items").Index(jen.Id("i"))).Dot("ToRepresentation").Call(),
	)
	b.Id("c").Dot("JSON").Call(jen.Qual(httpPkg, "StatusOK"), jen.Id("out"))
}

func genListAction(b *jen.Group, t *gen.Type, s serializers) {
	findAll(b, t, jen.Id("v").Dot("queryset").Call())
	respondAll(b, s.list)
}

func genRetrieveAction(b *jen.Group, t *gen.Type, _ serializers) {
	b.List(jen.Id("m"), jen.Id("ok")).Op(":=").Id("v").Dot("object").Call(jen.Id("c"))
	b.If(jen.Op("!").Id("ok")).Block(jen.Return())
	respond(b, t, "StatusOK")
}

func genCreateAction(b *jen.Group, t *gen.Type, s serializers) {
	b.Id("in").Op(":=").Op("&").Id(s.input).Values()
	bindAndValidate(b)
	b.Var().Id("m").Id(t.Name)
	b.Id("in").Dot("ApplyTo").Call(jen.Op("&").Id("m"))
	checkUnique(b, t, jen.Op("&").Id("m"))
	b.If(jen.Err().Op(":=").Id("v").Dot("DB").Dot("Create").Call(jen.Op("&").Id("m")).Dot("Error"), jen.Err().Op("!=").Nil()).Block(
		jen.Id("fail").Call(jen.Id("c"), jen.Qual(httpPkg, "StatusBadRequest"), jen.Err()),
		jen.Return(),
	)
	b.Id("c").Dot("JSON").Call(jen.Qual(httpPkg, "StatusCreated"), jen.Id("New"+t.SerializerName()).Call(jen.Op("&").Id("m")).Dot("ToRepresentation").Call())
}

// genUpdateAction generates Update or, when partial is set, PartialUpdate.
// A partial update starts from the current record so that omitted members
// keep their value.
func genUpdateAction(partial bool) func(*jen.Group, *gen.Type, serializers) {
	return func(b *jen.Group, t *gen.Type, s serializers) {
		b.List(jen.Id("m"), jen.Id("ok")).Op(":=").Id("v").Dot("object").Call(jen.Id("c"))
		b.If(jen.Op("!").Id("ok")).Block(jen.Return())
		if partial {
			b.Id("in").Op(":=").Id("New" + s.input).Call(jen.Id("m"))
		} else {
			b.Id("in").Op(":=").Op("&").Id(s.input).Values()
		}
		bindAndValidate(b)
		b.Id("in").Dot("ApplyTo").Call(jen.Id("m"))
		checkUnique(b, t, jen.Id("m"))
		b.If(jen.Err().Op(":=").Id("v").Dot("DB").Dot("Save").Call(jen.Id("m")).Dot("Error"), jen.Err().Op("!=").Nil()).Block(
			jen.Id("fail").Call(jen.Id("c"), jen.Qual(httpPkg, "StatusBadRequest"), jen.Err()),
			jen.Return(),
		)
		respond(b, t, "StatusOK")
	}
}

func genDestroyAction(b *jen.Group, _ *gen.Type, _ serializers) {
	b.List(jen.Id("m"), jen.Id("ok")).Op(":=").Id("v").Dot("object").Call(jen.Id("c"))
	b.If(jen.Op("!").Id("ok")).Block(jen.Return())
	b.If(jen.Err().Op(":=").Id("v").Dot("DB").Dot("Delete").Call(jen.Id("m")).Dot("Error"), jen.Err().Op("!=").Nil()).Block(
		jen.Id("fail").Call(jen.Id("c"), jen.Qual(httpPkg, "StatusInternalServerError"), jen.Err()),
		jen.Return(),
	)
	b.Id("c").Dot("Status").Call(jen.Qual(httpPkg, "StatusNoContent"))
}

// genAuxActions generates the recent, stats, export, timeline and search
// actions. They use the default serializer.
func genAuxActions(f *jen.File, t *gen.Type, recent int) {
	recv := func() *jen.Statement { return jen.Id("v").Op("*").Id(t.ViewSetName()) }
	ctx := func() *jen.Statement { return jen.Id("c").Op("*").Qual(ginPkg, "Context") }
	output := t.SerializerName()

	f.Commentf("Recent returns the %d most recent records.", recent)
	f.Func().Params(recv()).Id("Recent").Params(ctx()).BlockFunc(func(b *jen.Group) {
		b.List(jen.Id("items"), jen.Err()).Op(":=").Id("Recent"+t.PluralName()).Call(jen.Id("v").Dot("base").Call(), jen.Lit(recent))
		b.If(jen.Err().Op("!=").Nil()).Block(
			jen.Id("fail").Call(jen.Id("c"), jen.Qual(httpPkg, "StatusInternalServerError"), jen.Err()),
			jen.Return(),
		)
		respondAll(b, output)
	})

	f.Comment("Stats returns the record count.")
	f.Func().Params(recv()).Id("Stats").Params(ctx()).Block(
		jen.Var().Id("n").Int64(),
		jen.If(
			jen.Err().Op(":=").Id("v").Dot("DB").Dot("Model").Call(jen.Op("&").Id(t.Name).Values()).Dot("Count").Call(jen.Op("&").Id("n")).Dot("Error"),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.Id("fail").Call(jen.Id("c"), jen.Qual(httpPkg, "StatusInternalServerError"), jen.Err()),
			jen.Return(),
		),
		jen.Id("c").Dot("JSON").Call(jen.Qual(httpPkg, "StatusOK"), jen.Qual(ginPkg, "H").Values(jen.Dict{jen.Lit("count"): jen.Id("n")})),
	)

	f.Comment("Export returns every record.")
	f.Func().Params(recv()).Id("Export").Params(ctx()).BlockFunc(func(b *jen.Group) {
		findAll(b, t, jen.Id("v").Dot("queryset").Call())
		respondAll(b, output)
	})

	f.Comment("Timeline returns every record, oldest first.")
	f.Func().Params(recv()).Id("Timeline").Params(ctx()).BlockFunc(func(b *jen.Group) {
		findAll(b, t, jen.Id("v").Dot("base").Call().Dot("Order").Call(jen.Lit("id asc")))
		respondAll(b, output)
	})

	// Ids are matched in Go, textual casts differ between SQL dialects.
	f.Comment("Search returns the records whose id contains the q parameter.")
	f.Func().Params(recv()).Id("Search").Params(ctx()).BlockFunc(func(b *jen.Group) {
		b.Id("q").Op(":=").Id("c").Dot("Query").Call(jen.Lit("q"))
		b.Var().Id("ids").Index().Uint()
		b.If(
			jen.Err().Op(":=").Id("v").Dot("DB").Dot("Model").Call(jen.Op("&").Id(t.Name).Values()).Dot("Pluck").Call(jen.Lit("id"), jen.Op("&").Id("ids")).Dot("Error"),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.Id("fail").Call(jen.Id("c"), jen.Qual(httpPkg, "StatusInternalServerError"), jen.Err()),
			jen.Return(),
		)
		b.Id("matched").Op(":=").Make(jen.Index().Uint(), jen.Lit(0), jen.Len(jen.Id("ids")))
		b.For(jen.List(jen.Id("_"), jen.Id("id")).Op(":=").Range().Id("ids")).Block(
			jen.If(jen.Qual("strings", "Contains").Call(
				jen.Qual("strconv", "FormatUint").Call(jen.Uint64().Call(jen.Id("id")), jen.Lit(10)),
				jen.Id("q"),
			)).Block(
				jen.Id("matched").Op("=").Append(jen.Id("matched"), jen.Id("id")),
			),
		)
		findAll(b, t, jen.Id("v").Dot("queryset").Call().Dot("Where").Call(jen.Lit("id IN ?"), jen.Id("matched")))
		respondAll(b, output)
	})
}

// genFail generates the error response helper.
func genFail(f *jen.File) {
	f.Comment("fail writes err as the error response.")
	f.Func().Id("fail").Params(
		jen.Id("c").Op("*").Qual(ginPkg, "Context"),
		jen.Id("status").Int(),
		jen.Err().Error(),
	).Block(
		jen.Id("c").Dot("JSON").Call(jen.Id("status"), errorResponse(jen.Err().Dot("Error").Call())),
	)
}
