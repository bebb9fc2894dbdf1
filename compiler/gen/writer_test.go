package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArtifact(name string, build func(f *jen.File)) *Artifact {
	f := jen.NewFile("api")
	build(f)
	return &Artifact{Name: name, File: name + ".go", Code: f}
}

func validArtifact() *Artifact {
	return testArtifact("entities", func(f *jen.File) {
		f.Var().Id("Names").Op("=").Index().String().Values(jen.Lit("a"), jen.Lit("b"))
	})
}

func brokenArtifact() *Artifact {
	return testArtifact("routes", func(f *jen.File) {
		f.Func().Id("broken").Params().Block(jen.Op("}{"))
	})
}

func TestWriter_Render(t *testing.T) {
	w := NewWriter(t.TempDir())

	formatted, raw, err := w.Render(validArtifact())
	require.NoError(t, err)
	assert.Contains(t, string(formatted), "package api")
	assert.Contains(t, string(formatted), `var Names = []string{"a", "b"}`)
	assert.NotEmpty(t, raw)

	formatted, raw, err = w.Render(brokenArtifact())
	require.Error(t, err)
	assert.Nil(t, formatted)
	assert.Contains(t, string(raw), "func broken")
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := NewWriter(dir)

	out := w.Write(validArtifact())
	require.NoError(t, out.Err)
	assert.True(t, out.OK())
	assert.Equal(t, StatusWritten, out.Status)
	assert.Equal(t, filepath.Join(dir, "entities.go"), out.Path)

	data, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	assert.Equal(t, out.Bytes, len(data))
	assert.Contains(t, string(data), "package api")
}

func TestWriter_WriteSyntaxInvalid(t *testing.T) {
	dir := t.TempDir()
	out := NewWriter(dir).Write(brokenArtifact())

	require.Error(t, out.Err)
	assert.False(t, out.OK())
	assert.Equal(t, StatusSyntaxInvalid, out.Status)
	assert.True(t, IsSyntaxError(out.Err))

	var serr *SyntaxError
	require.ErrorAs(t, out.Err, &serr)
	assert.Equal(t, "routes", serr.Artifact)

	data, err := os.ReadFile(filepath.Join(dir, "routes.go"))
	require.NoError(t, err, "raw text is kept for inspection")
	assert.Contains(t, string(data), "func broken")
}

func TestWriter_Check(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	out := w.Check(validArtifact())
	require.NoError(t, out.Err)
	assert.Equal(t, StatusValid, out.Status)
	assert.Positive(t, out.Bytes)

	out = w.Check(brokenArtifact())
	assert.Equal(t, StatusSyntaxInvalid, out.Status)
	assert.True(t, IsSyntaxError(out.Err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriter_WriteFailed(t *testing.T) {
	// The target directory is a regular file.
	target := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	out := NewWriter(target).Write(validArtifact())
	require.Error(t, out.Err)
	assert.Equal(t, StatusWriteFailed, out.Status)
	assert.True(t, IsWriteError(out.Err))
	assert.Zero(t, out.Bytes)
}

func TestWriter_Overwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entities.go")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
	keep := filepath.Join(dir, "custom.go")
	require.NoError(t, os.WriteFile(keep, []byte("package api\n"), 0o644))

	out := NewWriter(dir).Write(validArtifact())
	require.NoError(t, out.Err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(data))
	assert.FileExists(t, keep)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "written", StatusWritten.String())
	assert.Equal(t, "valid", StatusValid.String())
	assert.Equal(t, "syntax-invalid", StatusSyntaxInvalid.String())
	assert.Equal(t, "write-failed", StatusWriteFailed.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
