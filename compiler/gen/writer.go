package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Status is the result of emitting one artifact.
type Status uint8

// Artifact statuses.
const (
	// StatusWritten means the formatted artifact was written.
	StatusWritten Status = iota
	// StatusValid means the artifact was rendered and validated, not written.
	StatusValid
	// StatusSyntaxInvalid means the artifact failed validation. Gen still
	// writes the raw text so it can be inspected.
	StatusSyntaxInvalid
	// StatusWriteFailed means the artifact could not be written.
	StatusWriteFailed
)

var statusNames = [...]string{
	StatusWritten:       "written",
	StatusValid:         "valid",
	StatusSyntaxInvalid: "syntax-invalid",
	StatusWriteFailed:   "write-failed",
}

// String returns the status name.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", s)
}

// Outcome reports what happened to one artifact.
type Outcome struct {
	Artifact string
	Path     string
	Status   Status
	// Bytes is the size of the written or rendered text.
	Bytes int
	// Err is a *SyntaxError or a *WriteError, nil on success.
	Err error
}

// OK reports whether the artifact is valid Go and, for Gen, was written.
func (o Outcome) OK() bool { return o.Err == nil }

// Writer renders artifacts and writes them to a directory.
type Writer struct {
	Dir string
}

// NewWriter returns a writer for the given directory.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// Path returns the output path of the artifact.
func (w *Writer) Path(a *Artifact) string {
	return filepath.Join(w.Dir, a.File)
}

// Render renders the artifact and validates it as Go source. The raw text
// is always returned; the formatted text only when validation succeeds.
func (w *Writer) Render(a *Artifact) (formatted, raw []byte, err error) {
	var buf bytes.Buffer
	a.Code.NoFormat = true
	if err := a.Code.Render(&buf); err != nil {
		return nil, buf.Bytes(), fmt.Errorf("render: %w", err)
	}
	raw = buf.Bytes()
	formatted, err = imports.Process(w.Path(a), raw, &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, raw, err
	}
	return formatted, raw, nil
}

// Check renders and validates the artifact without writing it.
func (w *Writer) Check(a *Artifact) Outcome {
	out := Outcome{Artifact: a.Name, Path: w.Path(a), Status: StatusValid}
	formatted, raw, err := w.Render(a)
	if err != nil {
		out.Status, out.Bytes = StatusSyntaxInvalid, len(raw)
		out.Err = NewSyntaxError(a.Name, out.Path, err)
		return out
	}
	out.Bytes = len(formatted)
	return out
}

// Write renders, validates and writes the artifact. Text that fails
// validation is written unformatted and reported as a *SyntaxError. A
// *WriteError affects this artifact only. Existing files are overwritten,
// never removed.
func (w *Writer) Write(a *Artifact) Outcome {
	out := Outcome{Artifact: a.Name, Path: w.Path(a), Status: StatusWritten}
	data, raw, err := w.Render(a)
	if err != nil {
		out.Status = StatusSyntaxInvalid
		out.Err = NewSyntaxError(a.Name, out.Path, err)
		data = raw
	}
	if len(data) == 0 {
		// Nothing was rendered.
		return out
	}
	if err := os.MkdirAll(filepath.Dir(out.Path), dirPerm); err != nil {
		return w.failed(out, err)
	}
	if err := os.WriteFile(out.Path, data, filePerm); err != nil {
		return w.failed(out, err)
	}
	out.Bytes = len(data)
	return out
}

func (w *Writer) failed(out Outcome, err error) Outcome {
	out.Status = StatusWriteFailed
	out.Err = NewWriteError(out.Artifact, out.Path, err)
	return out
}
