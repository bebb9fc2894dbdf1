package gen_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/compiler/gen/rest"
	"github.com/syssam/crudgen/compiler/load"
)

// benchSchema returns a chain of n models, each referencing the previous.
func benchSchema(n int) []byte {
	var b strings.Builder
	b.WriteString("{")
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `"Model%d": {"fields": {"name": "CharField(max_length=50, unique=True)", "body": "TextField(blank=True)", "created": "DateTimeField(auto_now_add=True)"`, i)
		if i > 0 {
			fmt.Fprintf(&b, `, "parent": "ForeignKey('Model%d', on_delete=CASCADE)"`, i-1)
		}
		b.WriteString("}}")
	}
	b.WriteString("}")
	return []byte(b.String())
}

func BenchmarkGraph_Check(b *testing.B) {
	s, err := load.Parse(benchSchema(50))
	require.NoError(b, err)
	c, err := gen.NewConfig(gen.WithGenerator(rest.New()))
	require.NoError(b, err)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g, err := gen.NewGraph(c, s)
		require.NoError(b, err)
		report, err := g.Check()
		require.NoError(b, err)
		require.True(b, report.OK())
	}
}

func BenchmarkResolveOrder(b *testing.B) {
	names := make([]string, 200)
	deps := make(map[string][]string, len(names))
	for i := range names {
		names[len(names)-1-i] = fmt.Sprintf("M%d", i)
		if i > 0 {
			deps[fmt.Sprintf("M%d", i)] = []string{fmt.Sprintf("M%d", i-1)}
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gen.ResolveOrder(names, deps)
	}
}
