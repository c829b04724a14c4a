package recorder

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AfriQuoteFeed/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "ingest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	r := openTestRecorder(t)
	start := time.Unix(1710540000, 0)

	run := &RunRecord{
		RunID:        "run-1",
		Mode:         "batch",
		StartedAt:    start,
		FinishedAt:   start.Add(16 * time.Second),
		Fetched:      14,
		Failed:       1,
		SnapshotPath: "data/yahoo_finance_2024-03-15.json",
	}
	require.NoError(t, r.RecordRun(run))

	// same run id replaces the row
	run.SaveError = "disk full"
	require.NoError(t, r.RecordRun(run))

	var count, fetched int
	var saveErr string
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*), MAX(fetched), MAX(save_error) FROM ingest_runs`).Scan(&count, &fetched, &saveErr))
	assert.Equal(t, 1, count)
	assert.Equal(t, 14, fetched)
	assert.Equal(t, "disk full", saveErr)
}

func TestSQLiteRecorder_RecordOutcome(t *testing.T) {
	r := openTestRecorder(t)

	require.NoError(t, r.RecordOutcome(&OutcomeRecord{
		RunID:     "run-1",
		Symbol:    "EURXOF=X",
		Kind:      "currency",
		Points:    5,
		LastClose: model.Float(655.957),
		Change:    model.Float(0.01),
		Meta:      json.RawMessage(`{"currency":"XOF","exchangeName":"CCY","regularMarketPrice":655.957}`),
		Duration:  420 * time.Millisecond,
	}))
	require.NoError(t, r.RecordOutcome(&OutcomeRecord{
		RunID:   "run-1",
		Symbol:  "XXXX.CI",
		Kind:    "stock",
		Failure: "provider",
		Message: "Not Found",
	}))

	var currency, exchange string
	var last sql.NullFloat64
	require.NoError(t, r.db.QueryRow(`SELECT currency, exchange, last_close FROM symbol_outcomes WHERE symbol = ?`, "EURXOF=X").Scan(&currency, &exchange, &last))
	assert.Equal(t, "XOF", currency)
	assert.Equal(t, "CCY", exchange)
	assert.True(t, last.Valid)
	assert.Equal(t, 655.957, last.Float64)

	var failure string
	require.NoError(t, r.db.QueryRow(`SELECT failure, last_close FROM symbol_outcomes WHERE symbol = ?`, "XXXX.CI").Scan(&failure, &last))
	assert.Equal(t, "provider", failure)
	assert.False(t, last.Valid)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	assert.NoError(t, rec.RecordRun(&RunRecord{}))
	assert.NoError(t, rec.RecordOutcome(&OutcomeRecord{}))
	assert.NoError(t, rec.Close())
}
