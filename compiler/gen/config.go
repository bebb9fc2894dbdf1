package gen

import "strings"

const (
	defaultHeader      = "Code generated by crudgen, DO NOT EDIT."
	defaultPackage     = "api"
	defaultTarget      = "api"
	defaultSchema      = "config/entities.json"
	defaultAPIPrefix   = "/api"
	defaultRecentLimit = 10
	defaultService     = "crudgen-api"
)

// Config holds the global codegen configuration. It is threaded through
// every emitter; there is no package-level state.
type Config struct {
	// Schema is the path of the schema document.
	Schema string
	// Target is the directory the artifacts are written to.
	Target string
	// Package is the Go package name of the generated files.
	Package string
	// Header is the comment written at the top of each generated file.
	Header string
	// APIPrefix is the URL prefix the routes are mounted under.
	APIPrefix string
	// RecentLimit is the number of records returned by the recent action.
	RecentLimit int
	// ServiceName is reported by the health and status endpoints.
	ServiceName string
	// AdminSite configures the generated admin registry.
	AdminSite AdminSite
	// Features are the enabled feature-flags.
	Features []Feature
	// Generator renders the artifacts. It must be set before Gen is called.
	Generator Generator
}

// AdminSite holds the site-wide admin texts.
type AdminSite struct {
	Header     string `yaml:"header"`
	Title      string `yaml:"title"`
	IndexTitle string `yaml:"index_title"`
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Schema:      defaultSchema,
		Target:      defaultTarget,
		Package:     defaultPackage,
		Header:      defaultHeader,
		APIPrefix:   defaultAPIPrefix,
		RecentLimit: defaultRecentLimit,
		ServiceName: defaultService,
		AdminSite: AdminSite{
			Header:     "Administration",
			Title:      "Admin Portal",
			IndexTitle: "Welcome to the Admin Portal",
		},
		Features: DefaultFeatures(),
	}
}

// FeatureEnabled reports if the given feature name is enabled.
// It returns an error for unknown features.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	if _, ok := LookupFeature(name); !ok {
		return false, NewConfigError("Features", name, "unknown feature")
	}
	return c.HasFeature(name), nil
}

// HasFeature reports if the given feature name is enabled.
func (c *Config) HasFeature(name string) bool {
	for _, f := range c.Features {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Route joins the API prefix with a route segment, with a trailing slash.
func (c *Config) Route(segment string) string {
	prefix := strings.TrimRight(c.APIPrefix, "/")
	return prefix + "/" + strings.Trim(segment, "/") + "/"
}
