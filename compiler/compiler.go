// Package compiler runs the crudgen pipeline: it loads a schema document,
// analyzes it into a graph and writes or checks the generated artifacts.
package compiler

import (
	"errors"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/compiler/gen/rest"
	"github.com/syssam/crudgen/compiler/load"
)

type (
	// Option configures a pipeline run.
	Option func(*options)

	options struct {
		allowMissing bool
		dryRun       bool
	}
)

// AllowMissing treats a missing schema document as an empty schema
// instead of failing the run.
func AllowMissing(allow bool) Option {
	return func(o *options) { o.allowMissing = allow }
}

// DryRun renders and validates the artifacts without writing them.
func DryRun(dry bool) Option {
	return func(o *options) { o.dryRun = dry }
}

// Load reads the schema document at path. With AllowMissing, a document
// that does not exist yields an empty schema.
func Load(path string, opts ...Option) (*load.Schema, error) {
	o := newOptions(opts)
	s, err := load.LoadFile(path)
	if err != nil {
		if o.allowMissing && errors.Is(err, load.ErrConfigNotFound) {
			return &load.Schema{Path: path}, nil
		}
		return nil, err
	}
	return s, nil
}

// LoadGraph loads the schema document at path and analyzes it with the
// given configuration. A nil configuration means gen.DefaultConfig, a nil
// generator means the REST generator.
func LoadGraph(path string, cfg *gen.Config, opts ...Option) (*gen.Graph, error) {
	s, err := Load(path, opts...)
	if err != nil {
		return nil, err
	}
	return gen.NewGraph(prepare(cfg), s)
}

// Generate runs the whole pipeline for the schema configured in cfg and
// returns the per-artifact report. The error is non-nil only when the run
// could not start: a missing or malformed schema or an invalid config.
// Artifact failures are reported in the report.
func Generate(cfg *gen.Config, opts ...Option) (*gen.Report, error) {
	cfg = prepare(cfg)
	g, err := LoadGraph(cfg.Schema, cfg, opts...)
	if err != nil {
		return nil, err
	}
	if newOptions(opts).dryRun {
		return g.Check()
	}
	return g.Gen()
}

func prepare(cfg *gen.Config) *gen.Config {
	if cfg == nil {
		cfg = gen.DefaultConfig()
	}
	if cfg.Generator == nil {
		c := *cfg
		c.Generator = rest.New()
		cfg = &c
	}
	return cfg
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
