package gen

import (
	"errors"
	"fmt"
)

// Report summarizes a generation run.
type Report struct {
	// Order is the resolved emission order of the models.
	Order []string
	// Diagnostics are the warnings of the analysis.
	Diagnostics []Diagnostic
	// Outcomes are the per-artifact results, in emission order.
	Outcomes []Outcome
}

// OK reports whether every artifact succeeded.
func (r *Report) OK() bool { return r.Err() == nil }

// Err joins the errors of the failed artifacts.
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errors.Join(errs...)
}

// Outcome returns the outcome of the named artifact.
func (r *Report) Outcome(artifact string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Artifact == artifact {
			return o, true
		}
	}
	return Outcome{}, false
}

// Count returns the number of outcomes with the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Summary returns a one-line summary of the run.
func (r *Report) Summary() string {
	ok := r.Count(StatusWritten) + r.Count(StatusValid)
	return fmt.Sprintf("%d models, %d/%d artifacts ok, %d syntax invalid, %d write failed, %d warnings",
		len(r.Order), ok, len(r.Outcomes), r.Count(StatusSyntaxInvalid), r.Count(StatusWriteFailed), len(r.Diagnostics))
}
