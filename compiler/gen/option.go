package gen

import (
	"errors"
	"go/token"
	"slices"
	"strings"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the package name of the generated files.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package name cannot be empty")
		}
		if !token.IsIdentifier(pkg) || token.IsKeyword(pkg) {
			return NewConfigError("Package", pkg, "package name must be a Go identifier")
		}
		c.Package = pkg
		return nil
	}
}

// WithSchema sets the schema document path.
func WithSchema(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("Schema", nil, "schema path cannot be empty")
		}
		c.Schema = path
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithAPIPrefix sets the URL prefix of the generated routes.
func WithAPIPrefix(prefix string) Option {
	return func(c *Config) error {
		if !strings.HasPrefix(prefix, "/") {
			return NewConfigError("APIPrefix", prefix, "prefix must start with /")
		}
		c.APIPrefix = strings.TrimRight(prefix, "/")
		return nil
	}
}

// WithRecentLimit sets the number of records of the recent action.
func WithRecentLimit(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("RecentLimit", n, "limit must be positive")
		}
		c.RecentLimit = n
		return nil
	}
}

// WithServiceName sets the service name reported by health and status.
func WithServiceName(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("ServiceName", nil, "service name cannot be empty")
		}
		c.ServiceName = name
		return nil
	}
}

// WithAdminSite sets the admin site texts. Empty values keep the current ones.
func WithAdminSite(site AdminSite) Option {
	return func(c *Config) error {
		if site.Header != "" {
			c.AdminSite.Header = site.Header
		}
		if site.Title != "" {
			c.AdminSite.Title = site.Title
		}
		if site.IndexTitle != "" {
			c.AdminSite.IndexTitle = site.IndexTitle
		}
		return nil
	}
}

// WithFeatures enables a list of features.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if !c.HasFeature(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithoutFeatures disables a list of features.
func WithoutFeatures(features ...Feature) Option {
	return func(c *Config) error {
		c.Features = slices.DeleteFunc(c.Features, func(f Feature) bool {
			return slices.ContainsFunc(features, func(d Feature) bool { return d.Name == f.Name })
		})
		return nil
	}
}

// WithFeatureNames enables or disables features by name. A leading "-"
// disables the feature.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			disable := strings.HasPrefix(name, "-")
			f, ok := LookupFeature(strings.TrimPrefix(name, "-"))
			if !ok {
				return NewConfigError("Features", name, "unknown feature")
			}
			var err error
			if disable {
				err = WithoutFeatures(f)(c)
			} else {
				err = WithFeatures(f)(c)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}
}

// WithGenerator sets the artifact generator.
func WithGenerator(g Generator) Option {
	return func(c *Config) error {
		if g == nil {
			return NewConfigError("Generator", nil, "generator cannot be nil")
		}
		c.Generator = g
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config from the defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
