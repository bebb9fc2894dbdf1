package gen

import "github.com/dave/jennifer/jen"

// Artifact is one generated file of a run.
type Artifact struct {
	// Name is the artifact name, e.g. "entities".
	Name string
	// File is the file name relative to the target directory.
	File string
	// Code is the constructed file.
	Code *jen.File
}

// Artifacts constructs the artifacts of the graph with the configured
// generator, in emission order. Nothing is rendered or written.
func (g *Graph) Artifacts() ([]*Artifact, error) {
	if g.Config == nil || g.Generator == nil {
		return nil, NewConfigError("Generator", nil, "no generator set: use WithGenerator")
	}
	gen := g.Generator
	steps := []struct {
		name string
		fn   func(*Graph) *jen.File
	}{
		{ArtifactEntities, gen.GenEntities},
		{ArtifactSerializers, gen.GenSerializers},
		{ArtifactHandlers, gen.GenHandlers},
		{ArtifactRoutes, gen.GenRoutes},
	}
	if ag, ok := gen.(AdminGenerator); ok && g.HasFeature(FeatureAdmin.Name) {
		steps = append(steps, struct {
			name string
			fn   func(*Graph) *jen.File
		}{ArtifactAdmin, ag.GenAdmin})
	}
	artifacts := make([]*Artifact, 0, len(steps))
	for _, s := range steps {
		f := s.fn(g)
		if f == nil {
			continue
		}
		artifacts = append(artifacts, &Artifact{Name: s.name, File: s.name + ".go", Code: f})
	}
	return artifacts, nil
}

// Gen generates the artifacts and writes them to the target directory.
// A failing artifact never prevents the others from being written; the
// per-artifact outcomes are returned in the report. The error is non-nil
// only when generation could not start.
func (g *Graph) Gen() (*Report, error) {
	if g.Config == nil || g.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory in config")
	}
	return g.run(NewWriter(g.Target).Write)
}

// Check renders and validates the artifacts without writing them.
func (g *Graph) Check() (*Report, error) {
	target := ""
	if g.Config != nil {
		target = g.Target
	}
	return g.run(NewWriter(target).Check)
}

func (g *Graph) run(emit func(*Artifact) Outcome) (*Report, error) {
	artifacts, err := g.Artifacts()
	if err != nil {
		return nil, err
	}
	r := &Report{
		Order:       g.OrderNames(),
		Diagnostics: g.Diagnostics.All(),
	}
	for _, a := range artifacts {
		r.Outcomes = append(r.Outcomes, emit(a))
	}
	return r, nil
}
