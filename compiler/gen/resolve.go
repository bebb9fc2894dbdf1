package gen

import "slices"

// ResolveOrder returns a linear order of names such that every name comes
// after its dependencies, wherever this is possible.
//
// Each round appends, in the input order, all remaining names whose
// dependencies were emitted in earlier rounds. When a round selects nothing
// the remaining names form or depend on a cycle; they are appended in input
// order and returned as cyclic. Dependencies that are not part of names are
// ignored.
func ResolveOrder(names []string, deps map[string][]string) (order, cyclic []string) {
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	emitted := make(map[string]bool, len(names))
	remaining := slices.Clone(names)
	for len(remaining) > 0 {
		var batch, rest []string
		for _, n := range remaining {
			ready := true
			for _, d := range deps[n] {
				if d != n && known[d] && !emitted[d] {
					ready = false
					break
				}
			}
			if ready {
				batch = append(batch, n)
			} else {
				rest = append(rest, n)
			}
		}
		if len(batch) == 0 {
			return append(order, remaining...), remaining
		}
		for _, n := range batch {
			emitted[n] = true
		}
		order = append(order, batch...)
		remaining = rest
	}
	return order, nil
}

// resolve orders the graph nodes by their to-one dependencies.
func (g *Graph) resolve() {
	names := make([]string, len(g.Nodes))
	deps := make(map[string][]string, len(g.Nodes))
	for i, t := range g.Nodes {
		names[i] = t.Name
		deps[t.Name] = t.Dependencies()
	}
	order, cyclic := ResolveOrder(names, deps)
	if len(cyclic) > 0 {
		g.Diagnostics.Add(SchemaWarning, CodeDependencyCycle, "", "",
			"foreign key cycle among %v, emitting them in schema order", cyclic)
	}
	g.order = make([]*Type, 0, len(order))
	for _, name := range order {
		t, _ := g.Type(name)
		g.order = append(g.order, t)
	}
}
