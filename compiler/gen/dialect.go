package gen

import "github.com/dave/jennifer/jen"

// =============================================================================
// Generator interfaces
// =============================================================================

// ModelGenerator generates the artifacts every run produces. Each method
// is called once per run with the analyzed graph.
type ModelGenerator interface {
	// GenEntities generates the persistence models (entities.go)
	GenEntities(g *Graph) *jen.File
	// GenSerializers generates the serialization schemas (serializers.go)
	GenSerializers(g *Graph) *jen.File
	// GenHandlers generates the request handlers (handlers.go)
	GenHandlers(g *Graph) *jen.File
	// GenRoutes generates the routing table (routes.go)
	GenRoutes(g *Graph) *jen.File
}

// AdminGenerator generates the admin registry. It is optional: the admin
// artifact is produced only when the generator implements it and the admin
// feature is enabled.
type AdminGenerator interface {
	// GenAdmin generates the admin registry (admin.go)
	GenAdmin(g *Graph) *jen.File
}

// IdentifierGenerator is implemented by generators declaring package-level
// identifiers that do not derive from a model name. Models colliding with
// them are skipped by the analysis.
type IdentifierGenerator interface {
	// Identifiers returns the fixed package-level identifiers.
	Identifiers() []string
}

// Generator is the interface a code generator must implement.
type Generator interface {
	// Name returns the generator name (e.g., "rest")
	Name() string
	ModelGenerator
}

// Artifact names, in emission order.
const (
	ArtifactEntities    = "entities"
	ArtifactSerializers = "serializers"
	ArtifactHandlers    = "handlers"
	ArtifactRoutes      = "routes"
	ArtifactAdmin       = "admin"
)
