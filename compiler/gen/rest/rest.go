// Package rest generates a gin and GORM CRUD API from an analyzed graph.
//
// Usage:
//
//	import (
//	    "github.com/syssam/crudgen/compiler/gen"
//	    "github.com/syssam/crudgen/compiler/gen/rest"
//	)
//
//	cfg, err := gen.NewConfig(gen.WithGenerator(rest.New()))
//	graph, err := gen.NewGraph(cfg, schema)
//	report, err := graph.Gen()
//
// Generated code structure:
//
//	{target}/
//	├── entities.go     # GORM models, ModelMeta, Recent accessors, AllModels
//	├── serializers.go  # <M>Serializer and the list, nested and create/update variants
//	├── handlers.go     # <M>ViewSet with CRUD and auxiliary actions
//	├── routes.go       # RegisterRoutes, Mount, Health, Status, Endpoints
//	└── admin.go        # ModelAdmin registry and Site
//
// The generated code only uses the standard library, gin and GORM. Nothing
// in this package links against gin or GORM; they are referenced by import
// path only.
package rest

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/gen"
)

// Import paths referenced by the generated code.
const (
	ginPkg  = "github.com/gin-gonic/gin"
	gormPkg = "gorm.io/gorm"
	httpPkg = "net/http"
)

// Generator implements gen.Generator and gen.AdminGenerator.
type Generator struct{}

// New returns the REST generator.
func New() *Generator { return &Generator{} }

// Name returns the generator name.
func (*Generator) Name() string { return "rest" }

// GenEntities generates entities.go.
func (*Generator) GenEntities(g *gen.Graph) *jen.File { return genEntities(g) }

// GenSerializers generates serializers.go.
func (*Generator) GenSerializers(g *gen.Graph) *jen.File { return genSerializers(g) }

// GenHandlers generates handlers.go.
func (*Generator) GenHandlers(g *gen.Graph) *jen.File { return genHandlers(g) }

// GenRoutes generates routes.go.
func (*Generator) GenRoutes(g *gen.Graph) *jen.File { return genRoutes(g) }

// GenAdmin generates admin.go.
func (*Generator) GenAdmin(g *gen.Graph) *jen.File { return genAdmin(g) }

// identifiers are the package-level identifiers the artifacts declare
// besides the per-model ones.
var identifiers = []string{
	// entities.go
	"ModelMeta", "IndexMeta", "AllModels", "slugify", "slugPattern",
	// serializers.go
	"representations", "required",
	// handlers.go
	"fail",
	// routes.go
	"APIPrefix", "ServiceName", "RegisterRoutes", "Mount", "Health", "Status",
	"modelCount", "EndpointSet", "Endpoints",
	// admin.go
	"AdminSite", "ModelAdmin", "Fieldset", "Site", "ExportSelectedAsJSON",
}

// Identifiers returns the package-level identifiers that do not derive
// from a model name.
func (*Generator) Identifiers() []string { return identifiers }

var (
	_ gen.Generator           = (*Generator)(nil)
	_ gen.AdminGenerator      = (*Generator)(nil)
	_ gen.IdentifierGenerator = (*Generator)(nil)
)

// newFile creates a new Jennifer file with the configured package and header.
func newFile(g *gen.Graph) *jen.File {
	f := jen.NewFile(g.Package)
	if g.Header != "" {
		f.HeaderComment(g.Header)
	}
	f.ImportName(ginPkg, "gin")
	f.ImportName(gormPkg, "gorm")
	return f
}

// stringsLit returns a []string literal.
func stringsLit(values []string) *jen.Statement {
	return jen.Index().String().ValuesFunc(func(group *jen.Group) {
		for _, v := range values {
			group.Lit(v)
		}
	})
}

// errorResponse returns gin.H{"error": msg}.
func errorResponse(msg jen.Code) *jen.Statement {
	return jen.Qual(ginPkg, "H").Values(jen.Dict{jen.Lit("error"): msg})
}

// addAll appends each statement to the group.
func addAll(g *jen.Group, stmts []jen.Code) {
	for _, s := range stmts {
		g.Add(s)
	}
}
