package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/compiler/load"
)

func config(t *testing.T, schema string, opts ...gen.Option) *gen.Config {
	t.Helper()
	c, err := gen.NewConfig(append([]gen.Option{gen.WithSchema(schema), gen.WithTarget(t.TempDir())}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestLoad(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "entities.json")

	_, err := Load(missing)
	require.Error(t, err)
	assert.True(t, load.IsNotFound(err))

	s, err := Load(missing, AllowMissing(true))
	require.NoError(t, err)
	assert.Empty(t, s.Models)
	assert.Equal(t, missing, s.Path)

	_, err = Load("load/testdata/failure/entities.json", AllowMissing(true))
	require.Error(t, err)
	assert.True(t, load.IsParseError(err))
}

func TestLoadGraph(t *testing.T) {
	g, err := LoadGraph("load/testdata/valid/entities.json", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Player", "Guild"}, g.OrderNames())
	require.NotNil(t, g.Generator)
	assert.Equal(t, "rest", g.Generator.Name())

	g, err = LoadGraph("load/testdata/cycle/entities.json", gen.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, g.OrderNames())
	assert.Len(t, g.Diagnostics.ByCode(gen.CodeDependencyCycle), 1)
}

func TestGenerate(t *testing.T) {
	t.Run("writes artifacts", func(t *testing.T) {
		c := config(t, "load/testdata/valid/entities.json")
		report, err := Generate(c)
		require.NoError(t, err)
		require.NoError(t, report.Err())
		assert.Equal(t, 5, report.Count(gen.StatusWritten))
		for _, name := range []string{"entities.go", "serializers.go", "handlers.go", "routes.go", "admin.go"} {
			assert.FileExists(t, filepath.Join(c.Target, name))
		}
		assert.Nil(t, c.Generator, "caller config is left untouched")
	})

	t.Run("idempotent", func(t *testing.T) {
		c := config(t, "load/testdata/valid/entities.json")
		_, err := Generate(c)
		require.NoError(t, err)
		first, err := os.ReadFile(filepath.Join(c.Target, "routes.go"))
		require.NoError(t, err)
		_, err = Generate(c)
		require.NoError(t, err)
		second, err := os.ReadFile(filepath.Join(c.Target, "routes.go"))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second))
	})

	t.Run("dry run", func(t *testing.T) {
		c := config(t, "load/testdata/valid/entities.json")
		report, err := Generate(c, DryRun(true))
		require.NoError(t, err)
		assert.Equal(t, 5, report.Count(gen.StatusValid))
		entries, err := os.ReadDir(c.Target)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("missing schema", func(t *testing.T) {
		c := config(t, filepath.Join(t.TempDir(), "nope.json"))
		_, err := Generate(c)
		require.Error(t, err)
		assert.ErrorIs(t, err, load.ErrConfigNotFound)

		report, err := Generate(c, AllowMissing(true))
		require.NoError(t, err)
		assert.True(t, report.OK())
		assert.Empty(t, report.Order)
		assert.Equal(t, 5, report.Count(gen.StatusWritten))
	})

	t.Run("malformed schema", func(t *testing.T) {
		c := config(t, "load/testdata/failure/entities.json")
		_, err := Generate(c)
		require.Error(t, err)
		assert.ErrorIs(t, err, load.ErrConfigParse)
	})

	t.Run("empty schema", func(t *testing.T) {
		c := config(t, "load/testdata/base/entities.json", gen.WithoutFeatures(gen.FeatureAdmin))
		report, err := Generate(c)
		require.NoError(t, err)
		assert.True(t, report.OK())
		assert.Len(t, report.Outcomes, 4)
	})
}
