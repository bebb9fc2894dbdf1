// Package gen analyzes crudgen schemas and writes the generated artifacts.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Schema document (config/entities.json)
//	        ↓
//	   load.Schema (ordered models, parsed field declarations)
//	        ↓
//	   Graph (classified fields, relations, resolved order, diagnostics)
//	        ↓
//	   Generator (jennifer files, one per artifact)
//	        ↓
//	   Writer (format-only validation, raw text kept on failure)
//
// # Key Types
//
//   - Graph: Holds all Type definitions, the emission order and diagnostics
//   - Type: Represents a model with fields, relations, indexes and options
//   - Field: Field with its parsed declaration and classifications
//   - Relation: Target of a foreign key, one-to-one or many-to-many field
//   - Config: Global configuration for code generation
//   - Report: Per-artifact outcomes of a run
//
// # Interface Hierarchy
//
//	Generator
//	├── Name() string
//	└── ModelGenerator
//	    └── GenEntities, GenSerializers, GenHandlers, GenRoutes
//
//	AdminGenerator (optional, detected at runtime)
//	└── GenAdmin
//
// # Error Handling
//
// Schema content never fails the analysis: problems are recorded as
// Diagnostics and the graph falls back to best-effort defaults. Failures of
// single artifacts are reported as *SyntaxError or *WriteError in the
// Report; both match their sentinel with errors.Is:
//
//	report, err := graph.Gen()
//	if err != nil {
//	    // invalid configuration, nothing was written
//	}
//	for _, o := range report.Outcomes {
//	    if errors.Is(o.Err, gen.ErrOutputSyntax) {
//	        // o.Path holds the raw text
//	    }
//	}
//
// # Usage
//
//	import (
//	    "github.com/syssam/crudgen/compiler/gen"
//	    "github.com/syssam/crudgen/compiler/gen/rest"
//	)
//
//	cfg, err := gen.NewConfig(gen.WithTarget("api"), gen.WithGenerator(rest.New()))
//	graph, err := gen.NewGraph(cfg, schema)
//	report, err := graph.Gen()
//
// # Generated Output
//
//	{target}/
//	├── entities.go     // GORM models, metadata, AllModels
//	├── serializers.go  // Serializers and their variants
//	├── handlers.go     // gin viewsets
//	├── routes.go       // RegisterRoutes, health, status, Endpoints
//	└── admin.go        // Admin registry (feature "admin")
package gen
