package main

import (
	"context"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v3"

	"github.com/syssam/crudgen/compiler"
	"github.com/syssam/crudgen/compiler/gen"
)

type (
	// modelView is the analyzed form of a model as dumped by inspect.
	modelView struct {
		Name         string
		Table        string
		Route        string
		Display      string
		Depth        int
		Permissions  []string
		Dependencies []string
		Ordering     []string
		Fields       []fieldView
		Admin        *gen.AdminSpec
	}

	fieldView struct {
		Name      string
		Decl      string
		Type      string
		Target    string
		OnDelete  string
		ReadOnly  bool
		WriteOnly bool
		Nested    bool
		Rules     []string
	}
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Dump the analyzed models and the diagnostics",
		Flags: append(configFlags(),
			&cli.StringSliceFlag{Name: "model", Aliases: []string{"m"}, Usage: "restrict the dump to the given models"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, opts, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			g, err := compiler.LoadGraph(c.Schema, c, opts...)
			if err != nil {
				return err
			}
			views, err := inspect(g, cmd.StringSlice("model"))
			if err != nil {
				return err
			}
			w := stdout(cmd)
			for _, v := range views {
				dumper.Fdump(w, v)
			}
			for _, d := range g.Diagnostics.All() {
				fmt.Fprintln(w, d.String())
			}
			return nil
		},
	}
}

// inspect returns the views of the named models, or of all models in
// emission order when names is empty.
func inspect(g *gen.Graph, names []string) ([]modelView, error) {
	types := g.Order()
	if len(names) > 0 {
		types = nil
		for _, name := range names {
			t, ok := g.Type(name)
			if !ok {
				return nil, fmt.Errorf("unknown model %q", name)
			}
			types = append(types, t)
		}
	}
	views := make([]modelView, 0, len(types))
	for _, t := range types {
		v := modelView{
			Name:         t.Name,
			Table:        t.Table(),
			Route:        t.Route(),
			Depth:        t.Depth,
			Permissions:  t.Permissions.Names(),
			Dependencies: t.Dependencies(),
			Ordering:     t.Ordering,
			Admin:        t.Admin,
		}
		if t.DisplayField != nil {
			v.Display = t.DisplayField.Name
		}
		for _, f := range t.Fields {
			fv := fieldView{
				Name:      f.Name,
				Decl:      f.Decl(),
				Type:      f.Type.String(),
				ReadOnly:  t.ReadOnly(f),
				WriteOnly: t.WriteOnly(f),
				Nested:    t.Nests(f),
				Rules:     f.ValidatorRules(),
			}
			if f.Rel != nil {
				fv.Target, fv.OnDelete = f.Rel.Target, f.Rel.OnDelete
			}
			v.Fields = append(v.Fields, fv)
		}
		views = append(views, v)
	}
	return views, nil
}
