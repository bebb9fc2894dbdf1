// crudgen generates the entities, serializers, handlers, routes and admin
// registry of a gin+GORM CRUD API from a schema document.
//
// Usage:
//
//	crudgen generate --schema config/entities.json --target api
//	crudgen check --feature serializer/validators
//	crudgen order
//	crudgen inspect --model Player
//	crudgen watch
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/syssam/crudgen/compiler"
	"github.com/syssam/crudgen/compiler/gen"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "crudgen:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "crudgen",
		Usage: "Generate a CRUD REST API from a schema document",
		Commands: []*cli.Command{
			generateCommand(),
			checkCommand(),
			orderCommand(),
			inspectCommand(),
			watchCommand(),
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:   "generate",
		Usage:  "Write the artifacts to the target directory",
		Flags:  configFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error { return run(cmd, false) },
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:   "check",
		Usage:  "Render and validate the artifacts without writing them",
		Flags:  configFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error { return run(cmd, true) },
	}
}

func orderCommand() *cli.Command {
	return &cli.Command{
		Name:  "order",
		Usage: "Print the resolved emission order of the models",
		Flags: configFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, opts, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			g, err := compiler.LoadGraph(c.Schema, c, opts...)
			if err != nil {
				return err
			}
			logDiagnostics(newLogger(cmd), g.Diagnostics.ByCode(gen.CodeDependencyCycle))
			w := stdout(cmd)
			for _, name := range g.OrderNames() {
				fmt.Fprintln(w, name)
			}
			return nil
		},
	}
}

// run generates, or checks when dry, and logs the report.
func run(cmd *cli.Command, dry bool) error {
	c, opts, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	report, err := compiler.Generate(c, append(opts, compiler.DryRun(dry))...)
	if err != nil {
		return err
	}
	logReport(newLogger(cmd), report)
	return report.Err()
}

func newLogger(cmd *cli.Command) *slog.Logger {
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr(cmd), &slog.HandlerOptions{Level: level}))
}

func logDiagnostics(logger *slog.Logger, diags []gen.Diagnostic) {
	for _, d := range diags {
		attrs := []any{"kind", d.Kind.String(), "code", d.Code}
		if d.Model != "" {
			attrs = append(attrs, "model", d.Model)
		}
		if d.Field != "" {
			attrs = append(attrs, "field", d.Field)
		}
		logger.Warn(d.Message, attrs...)
	}
}

// logReport logs one record per diagnostic and per artifact outcome, then
// the run summary.
func logReport(logger *slog.Logger, r *gen.Report) {
	logDiagnostics(logger, r.Diagnostics)
	for _, o := range r.Outcomes {
		if o.Err != nil {
			logger.Error("artifact failed", "artifact", o.Artifact, "path", o.Path, "status", o.Status.String(), "err", o.Err)
			continue
		}
		logger.Debug("artifact", "artifact", o.Artifact, "path", o.Path, "status", o.Status.String(), "bytes", o.Bytes)
	}
	if r.OK() {
		logger.Info(r.Summary())
	} else {
		logger.Error(r.Summary())
	}
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
