package rest

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/gen"
)

// endpoint is one auxiliary or standard route of a model.
type endpoint struct {
	field  string
	suffix string
}

// endpoints are the directory entries of a model, in display order.
var endpoints = []endpoint{
	{"Collection", ""},
	{"Detail", "{pk}/"},
	{"Recent", "recent/"},
	{"Stats", "stats/"},
	{"Export", "export/"},
	{"Timeline", "timeline/"},
	{"Search", "search/"},
}

// genRoutes generates the routing file (routes.go).
func genRoutes(g *gen.Graph) *jen.File {
	f := newFile(g)
	status := g.HasFeature(gen.FeatureStatus.Name)

	f.Comment("APIPrefix is the prefix Mount registers the routes under.")
	f.Const().Id("APIPrefix").Op("=").Lit(g.APIPrefix)
	f.Comment("ServiceName is reported by the health and status endpoints.")
	f.Const().Id("ServiceName").Op("=").Lit(g.ServiceName)

	f.Comment("RegisterRoutes registers the routes of every model on r.")
	f.Func().Id("RegisterRoutes").Params(
		jen.Id("r").Qual(ginPkg, "IRouter"),
		jen.Id("db").Op("*").Qual(gormPkg, "DB"),
	).BlockFunc(func(b *jen.Group) {
		for _, t := range g.Order() {
			b.Id("register" + t.Name + "Routes").Call(jen.Id("r"), jen.Id("db"))
		}
		b.Id("r").Dot("GET").Call(jen.Lit("/health"), jen.Id("Health").Call(jen.Id("db")))
		if status {
			b.Id("r").Dot("GET").Call(jen.Lit("/status"), jen.Id("Status"))
		}
	})

	f.Comment("Mount registers the routes on engine under APIPrefix.")
	f.Func().Id("Mount").Params(
		jen.Id("engine").Op("*").Qual(ginPkg, "Engine"),
		jen.Id("db").Op("*").Qual(gormPkg, "DB"),
	).Block(
		jen.Id("RegisterRoutes").Call(jen.Id("engine").Dot("Group").Call(jen.Id("APIPrefix")), jen.Id("db")),
	)

	for _, t := range g.Order() {
		genModelRoutes(f, t)
	}
	genHealth(f, g)
	if status {
		f.Comment("Status reports that the service is running.")
		f.Func().Id("Status").Params(jen.Id("c").Op("*").Qual(ginPkg, "Context")).Block(
			jen.Id("c").Dot("JSON").Call(jen.Qual(httpPkg, "StatusOK"), jen.Qual(ginPkg, "H").Values(jen.Dict{
				jen.Lit("status"):  jen.Lit("running"),
				jen.Lit("service"): jen.Id("ServiceName"),
			})),
		)
	}
	genEndpoints(f, g)
	return f
}

// genModelRoutes generates the route registration of one model.
func genModelRoutes(f *jen.File, t *gen.Type) {
	name := "register" + t.Name + "Routes"
	f.Commentf("%s registers the %s routes under /%s.", name, t.Name, t.Route())
	f.Func().Id(name).Params(
		jen.Id("r").Qual(ginPkg, "IRouter"),
		jen.Id("db").Op("*").Qual(gormPkg, "DB"),
	).BlockFunc(func(b *jen.Group) {
		b.Id("v").Op(":=").Id("New" + t.ViewSetName()).Call(jen.Id("db"))
		b.Id("g").Op(":=").Id("r").Dot("Group").Call(jen.Lit("/" + t.Route()))
		for _, route := range []struct{ method, path, action string }{
			{"GET", "", "List"},
			{"POST", "", "Create"},
			{"GET", "/recent", "Recent"},
			{"GET", "/stats", "Stats"},
			{"GET", "/export", "Export"},
			{"GET", "/timeline", "Timeline"},
			{"GET", "/search", "Search"},
			{"GET", "/:pk", "Retrieve"},
			{"PUT", "/:pk", "Update"},
			{"PATCH", "/:pk", "PartialUpdate"},
			{"DELETE", "/:pk", "Destroy"},
		} {
			b.Id("g").Dot(route.method).Call(jen.Lit(route.path), jen.Id("v").Dot(route.action))
		}
	})
}

// genHealth generates the health endpoint, reporting the record count of
// every model or "unavailable" when it cannot be obtained.
func genHealth(f *jen.File, g *gen.Graph) {
	names := make([]string, 0, len(g.Nodes))
	for _, t := range g.Nodes {
		names = append(names, t.Name)
	}
	f.Comment("Health reports the record count of every model and the endpoint directory.")
	f.Func().Id("Health").Params(jen.Id("db").Op("*").Qual(gormPkg, "DB")).Qual(ginPkg, "HandlerFunc").Block(
		jen.Return(jen.Func().Params(jen.Id("c").Op("*").Qual(ginPkg, "Context")).BlockFunc(func(b *jen.Group) {
			b.Id("counts").Op(":=").Map(jen.String()).Any().Values(jen.DictFunc(func(d jen.Dict) {
				for _, t := range g.Order() {
					d[jen.Lit(t.Route())] = jen.Id("modelCount").Call(jen.Id("db"), jen.Op("&").Id(t.Name).Values())
				}
			}))
			b.Id("directory").Op(":=").Make(jen.Map(jen.String()).String(), jen.Len(jen.Id("Endpoints")))
			b.For(jen.List(jen.Id("route"), jen.Id("e")).Op(":=").Range().Id("Endpoints")).Block(
				jen.Id("directory").Index(jen.Id("route")).Op("=").Id("e").Dot("Collection"),
			)
			b.Id("c").Dot("JSON").Call(jen.Qual(httpPkg, "StatusOK"), jen.Qual(ginPkg, "H").Values(jen.Dict{
				jen.Lit("status"):            jen.Lit("ok"),
				jen.Lit("service"):           jen.Id("ServiceName"),
				jen.Lit("configured_models"): stringsLit(names),
				jen.Lit("model_counts"):      jen.Id("counts"),
				jen.Lit("endpoints"):         jen.Id("directory"),
			}))
		})),
	)

	f.Comment("modelCount returns the record count of model, or \"unavailable\".")
	f.Func().Id("modelCount").Params(jen.Id("db").Op("*").Qual(gormPkg, "DB"), jen.Id("model").Any()).Any().Block(
		jen.If(jen.Id("db").Op("==").Nil()).Block(jen.Return(jen.Lit("unavailable"))),
		jen.Var().Id("n").Int64(),
		jen.If(
			jen.Err().Op(":=").Id("db").Dot("Model").Call(jen.Id("model")).Dot("Count").Call(jen.Op("&").Id("n")).Dot("Error"),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Lit("unavailable"))),
		jen.Return(jen.Id("n")),
	)
}

// genEndpoints generates the static endpoint directory.
func genEndpoints(f *jen.File, g *gen.Graph) {
	f.Comment("EndpointSet lists the endpoint paths of one model.")
	f.Type().Id("EndpointSet").StructFunc(func(group *jen.Group) {
		for _, e := range endpoints {
			group.Id(e.field).String().Tag(tags("json", strings.ToLower(e.field)))
		}
	})
	f.Comment("Endpoints is the directory of the generated endpoints, by route.")
	f.Var().Id("Endpoints").Op("=").Map(jen.String()).Id("EndpointSet").Values(jen.DictFunc(func(d jen.Dict) {
		for _, t := range g.Order() {
			base := g.Route(t.Route())
			d[jen.Lit(t.Route())] = jen.Values(jen.DictFunc(func(set jen.Dict) {
				for _, e := range endpoints {
					set[jen.Id(e.field)] = jen.Lit(base + e.suffix)
				}
			}))
		}
	}))
}
