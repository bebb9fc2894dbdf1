package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/syssam/crudgen/compiler"
	"github.com/syssam/crudgen/compiler/gen"
)

const (
	envPrefix     = "CRUDGEN_"
	defaultConfig = "crudgen.yaml"
)

// fileConfig is the layout of the optional crudgen.yaml file.
type fileConfig struct {
	Schema       string        `yaml:"schema"`
	Target       string        `yaml:"target"`
	Package      string        `yaml:"package"`
	Header       *string       `yaml:"header"`
	APIPrefix    string        `yaml:"api_prefix"`
	RecentLimit  int           `yaml:"recent_limit"`
	ServiceName  string        `yaml:"service_name"`
	Features     []string      `yaml:"features"`
	AllowMissing *bool         `yaml:"allow_missing"`
	Admin        gen.AdminSite `yaml:"admin"`
}

// readFileConfig reads the config file at path. A missing file is an error
// only when required.
func readFileConfig(path string, required bool) (*fileConfig, error) {
	fc := &fileConfig{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !required:
		return fc, nil
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// options returns the generator options of the file.
func (fc *fileConfig) options() []gen.Option {
	var opts []gen.Option
	if fc.Schema != "" {
		opts = append(opts, gen.WithSchema(fc.Schema))
	}
	if fc.Target != "" {
		opts = append(opts, gen.WithTarget(fc.Target))
	}
	if fc.Package != "" {
		opts = append(opts, gen.WithPackage(fc.Package))
	}
	if fc.Header != nil {
		opts = append(opts, gen.WithHeader(*fc.Header))
	}
	if fc.APIPrefix != "" {
		opts = append(opts, gen.WithAPIPrefix(fc.APIPrefix))
	}
	if fc.RecentLimit != 0 {
		opts = append(opts, gen.WithRecentLimit(fc.RecentLimit))
	}
	if fc.ServiceName != "" {
		opts = append(opts, gen.WithServiceName(fc.ServiceName))
	}
	if len(fc.Features) > 0 {
		opts = append(opts, gen.WithFeatureNames(fc.Features...))
	}
	return append(opts, gen.WithAdminSite(fc.Admin))
}

// buildConfig layers the defaults, the config file and the command flags.
// Flags read their CRUDGEN_* environment variable when not given.
func buildConfig(cmd *cli.Command) (*gen.Config, []compiler.Option, error) {
	fc, err := readFileConfig(cmd.String("config"), cmd.IsSet("config"))
	if err != nil {
		return nil, nil, err
	}
	opts := fc.options()
	for _, f := range []struct {
		flag string
		opt  func(string) gen.Option
	}{
		{"schema", gen.WithSchema},
		{"target", gen.WithTarget},
		{"package", gen.WithPackage},
		{"header", gen.WithHeader},
		{"api-prefix", gen.WithAPIPrefix},
		{"service-name", gen.WithServiceName},
	} {
		if cmd.IsSet(f.flag) {
			opts = append(opts, f.opt(cmd.String(f.flag)))
		}
	}
	if features := cmd.StringSlice("feature"); len(features) > 0 {
		opts = append(opts, gen.WithFeatureNames(features...))
	}
	c := gen.DefaultConfig()
	if err := c.ApplyAll(opts...); err != nil {
		return nil, nil, err
	}

	allowMissing := fc.AllowMissing != nil && *fc.AllowMissing
	if cmd.IsSet("allow-missing") {
		allowMissing = cmd.Bool("allow-missing")
	}
	return c, []compiler.Option{compiler.AllowMissing(allowMissing)}, nil
}

// configFlags are the flags shared by every command.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: defaultConfig, Usage: "optional YAML config file", Sources: env("CONFIG")},
		&cli.StringFlag{Name: "schema", Aliases: []string{"s"}, Usage: "schema document (default \"config/entities.json\")", Sources: env("SCHEMA")},
		&cli.StringFlag{Name: "target", Aliases: []string{"o"}, Usage: "output directory (default \"api\")", Sources: env("TARGET")},
		&cli.StringFlag{Name: "package", Aliases: []string{"p"}, Usage: "package name of the generated files (default \"api\")", Sources: env("PACKAGE")},
		&cli.StringFlag{Name: "header", Usage: "header comment of the generated files", Sources: env("HEADER")},
		&cli.StringFlag{Name: "api-prefix", Usage: "URL prefix of the routes (default \"/api\")", Sources: env("API_PREFIX")},
		&cli.StringFlag{Name: "service-name", Usage: "service name reported by health and status", Sources: env("SERVICE_NAME")},
		&cli.StringSliceFlag{Name: "feature", Aliases: []string{"f"}, Usage: "enable a feature, or disable it with a leading \"-\"", Sources: env("FEATURES")},
		&cli.BoolFlag{Name: "allow-missing", Usage: "treat a missing schema document as empty", Sources: env("ALLOW_MISSING")},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log every artifact outcome", Sources: env("VERBOSE")},
	}
}

func env(name string) cli.ValueSourceChain {
	return cli.EnvVars(envPrefix + name)
}
