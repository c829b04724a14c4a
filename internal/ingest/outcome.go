package ingest

import (
	"time"

	"AfriQuoteFeed/internal/collector"
	"AfriQuoteFeed/internal/model"
)

const (
	KindStock    = "stock"
	KindCurrency = "currency"

	ModeBatch  = "batch"
	ModeSingle = "single"
)

// Outcome is the result of fetching one symbol: a series or the reason there is none.
type Outcome struct {
	Symbol  model.Symbol
	Kind    string
	Series  *model.Series
	Err     error
	Elapsed time.Duration
}

func (o Outcome) OK() bool { return o.Err == nil && o.Series != nil }

// Failure classifies Err; it is empty for a successful outcome.
func (o Outcome) Failure() collector.FailureKind { return collector.Classify(o.Err) }

// Report describes a finished run, including what the snapshot file omits.
type Report struct {
	RunID        string
	Mode         string
	StartedAt    time.Time
	FinishedAt   time.Time
	Outcomes     []Outcome
	SnapshotPath string
	SaveErr      error
	ExportPaths  []string
	ExportErr    error
}

// Fetched counts successful outcomes.
func (r *Report) Fetched() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failures returns the outcomes that yielded no series.
func (r *Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Saved reports whether the snapshot reached disk.
func (r *Report) Saved() bool { return r.SnapshotPath != "" && r.SaveErr == nil }
