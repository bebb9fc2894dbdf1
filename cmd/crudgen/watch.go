package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/crudgen/compiler"
	"github.com/syssam/crudgen/compiler/gen"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Generate, then regenerate whenever the schema document changes",
		Flags: configFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, opts, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, newLogger(cmd), c, opts...)
		},
	}
}

// watch runs the pipeline once and again after every change of the schema
// document, until ctx is done. Runs never overlap and a failed run does not
// stop watching.
func watch(ctx context.Context, logger *slog.Logger, c *gen.Config, opts ...compiler.Option) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	// Editors often replace the file on save, watch its directory.
	schema := filepath.Clean(c.Schema)
	if err := w.Add(filepath.Dir(schema)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(schema), err)
	}

	generate := func() {
		report, err := compiler.Generate(c, opts...)
		if err != nil {
			logger.Error("generation failed", "schema", c.Schema, "err", err)
			return
		}
		logReport(logger, report)
	}
	generate()
	logger.Info("watching", "schema", c.Schema)

	changes := make(chan struct{}, 1)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != schema || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
					// A run is already pending.
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				return fmt.Errorf("watch %s: %w", c.Schema, err)
			}
		}
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-changes:
				logger.Info("schema changed", "schema", c.Schema)
				generate()
			}
		}
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
