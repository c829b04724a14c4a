package recorder

import (
	"encoding/json"
	"time"

	"AfriQuoteFeed/internal/model"
)

// RunRecord summarises one ingestion run.
type RunRecord struct {
	RunID        string
	Mode         string // "batch" or "single"
	StartedAt    time.Time
	FinishedAt   time.Time
	Fetched      int
	Failed       int
	SnapshotPath string
	SaveError    string
}

// OutcomeRecord holds the result of fetching one symbol within a run.
type OutcomeRecord struct {
	RunID     string
	Symbol    model.Symbol
	Kind      string // "stock" or "currency"
	Points    int
	LastClose *float64
	Change    *float64
	Meta      json.RawMessage
	Failure   string // empty on success
	Message   string
	Duration  time.Duration
}

// Recorder persists ingestion history for later inspection.
type Recorder interface {
	RecordRun(run *RunRecord) error
	RecordOutcome(out *OutcomeRecord) error
	Close() error
}
