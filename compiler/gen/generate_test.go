package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/compiler/load"
)

const matchPlayer = `{
  "Match": {"fields": {"winner": "ForeignKey('Player', on_delete=PROTECT)"}},
  "Player": {"fields": {"username": "CharField(max_length=50)"}}
}`

func artifactNames(artifacts []*Artifact) []string {
	names := make([]string, len(artifacts))
	for i, a := range artifacts {
		names[i] = a.Name
	}
	return names
}

func TestGraph_Artifacts(t *testing.T) {
	t.Run("requires generator", func(t *testing.T) {
		s, err := load.Parse([]byte(matchPlayer))
		require.NoError(t, err)
		g, err := NewGraph(DefaultConfig(), s)
		require.NoError(t, err)
		_, err = g.Artifacts()
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("with admin", func(t *testing.T) {
		g := newTestGraph(t, matchPlayer)
		artifacts, err := g.Artifacts()
		require.NoError(t, err)
		assert.Equal(t, []string{"entities", "serializers", "handlers", "routes", "admin"}, artifactNames(artifacts))
		assert.Equal(t, "admin.go", artifacts[4].File)
	})

	t.Run("admin feature disabled", func(t *testing.T) {
		g := newTestGraph(t, matchPlayer, WithoutFeatures(FeatureAdmin))
		artifacts, err := g.Artifacts()
		require.NoError(t, err)
		assert.Len(t, artifacts, 4)
	})

	t.Run("generator without admin", func(t *testing.T) {
		g := newTestGraph(t, matchPlayer, WithGenerator(&stubGenerator{}))
		artifacts, err := g.Artifacts()
		require.NoError(t, err)
		assert.NotContains(t, artifactNames(artifacts), ArtifactAdmin)
	})

	t.Run("skipped artifacts", func(t *testing.T) {
		stub := &stubAdminGenerator{stubGenerator{skip: map[string]bool{ArtifactHandlers: true}}}
		g := newTestGraph(t, matchPlayer, WithGenerator(stub))
		artifacts, err := g.Artifacts()
		require.NoError(t, err)
		assert.Equal(t, []string{"entities", "serializers", "routes", "admin"}, artifactNames(artifacts))
	})
}

func TestGraph_Gen(t *testing.T) {
	t.Run("requires target", func(t *testing.T) {
		_, err := NewConfig(WithTarget(""))
		require.Error(t, err)
		assert.True(t, IsConfigError(err))

		g := newTestGraph(t, matchPlayer)
		g.Target = ""
		_, err = g.Gen()
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("writes every artifact", func(t *testing.T) {
		target := t.TempDir()
		g := newTestGraph(t, matchPlayer, WithTarget(target), WithHeader("// Code generated by crudgen. DO NOT EDIT."))
		report, err := g.Gen()
		require.NoError(t, err)
		require.True(t, report.OK())
		assert.Equal(t, []string{"Player", "Match"}, report.Order)
		assert.Equal(t, 5, report.Count(StatusWritten))

		data, err := os.ReadFile(filepath.Join(target, "entities.go"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "// Code generated by crudgen. DO NOT EDIT.")
		assert.Contains(t, string(data), `var entities = []string{"Player", "Match"}`)
	})

	t.Run("failure is isolated", func(t *testing.T) {
		target := t.TempDir()
		stub := &stubAdminGenerator{stubGenerator{broken: map[string]bool{ArtifactSerializers: true}}}
		g := newTestGraph(t, matchPlayer, WithTarget(target), WithGenerator(stub))
		report, err := g.Gen()
		require.NoError(t, err)
		assert.False(t, report.OK())
		assert.True(t, IsSyntaxError(report.Err()))
		assert.Equal(t, 4, report.Count(StatusWritten))
		assert.Equal(t, 1, report.Count(StatusSyntaxInvalid))

		out, ok := report.Outcome(ArtifactSerializers)
		require.True(t, ok)
		assert.Equal(t, StatusSyntaxInvalid, out.Status)
		assert.FileExists(t, filepath.Join(target, "serializers.go"))
		assert.FileExists(t, filepath.Join(target, "admin.go"))
	})
}

func TestGraph_Check(t *testing.T) {
	target := t.TempDir()
	g := newTestGraph(t, matchPlayer, WithTarget(target))
	report, err := g.Check()
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 5, report.Count(StatusValid))

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReport(t *testing.T) {
	r := &Report{
		Order:       []string{"Player", "Match"},
		Diagnostics: []Diagnostic{{Code: CodeUnquotedTarget}},
		Outcomes: []Outcome{
			{Artifact: ArtifactEntities, Status: StatusWritten},
			{Artifact: ArtifactRoutes, Status: StatusSyntaxInvalid, Err: NewSyntaxError(ArtifactRoutes, "routes.go", nil)},
			{Artifact: ArtifactAdmin, Status: StatusWriteFailed, Err: NewWriteError(ArtifactAdmin, "admin.go", os.ErrPermission)},
		},
	}
	assert.False(t, r.OK())
	err := r.Err()
	assert.True(t, IsSyntaxError(err))
	assert.True(t, IsWriteError(err))
	assert.ErrorIs(t, err, os.ErrPermission)

	_, ok := r.Outcome("missing")
	assert.False(t, ok)
	assert.Equal(t, "2 models, 1/3 artifacts ok, 1 syntax invalid, 1 write failed, 1 warnings", r.Summary())

	empty := &Report{}
	assert.True(t, empty.OK())
	assert.NoError(t, empty.Err())
}
