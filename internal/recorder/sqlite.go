package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so a dashboard can read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ingest_runs (
			run_id        TEXT PRIMARY KEY,
			mode          TEXT NOT NULL,
			started_at    INTEGER NOT NULL,
			finished_at   INTEGER NOT NULL,
			fetched       INTEGER,
			failed        INTEGER,
			snapshot_path TEXT,
			save_error    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON ingest_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS symbol_outcomes (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			symbol        TEXT NOT NULL,
			kind          TEXT NOT NULL,
			points        INTEGER,
			last_close    REAL,
			change_pct    REAL,
			currency      TEXT,
			exchange      TEXT,
			failure       TEXT,
			message       TEXT,
			duration_ms   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run ON symbol_outcomes(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_symbol ON symbol_outcomes(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT OR REPLACE INTO ingest_runs
		(run_id, mode, started_at, finished_at, fetched, failed, snapshot_path, save_error)
		VALUES (?,?,?,?,?,?,?,?)`,
		run.RunID, run.Mode, run.StartedAt.Unix(), run.FinishedAt.Unix(),
		run.Fetched, run.Failed, run.SnapshotPath, run.SaveError,
	)
	return err
}

func (r *SQLiteRecorder) RecordOutcome(out *OutcomeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var currency, exchange string
	if len(out.Meta) > 0 {
		meta := gjson.ParseBytes(out.Meta)
		currency = meta.Get("currency").String()
		exchange = meta.Get("exchangeName").String()
	}

	_, err := r.db.Exec(`INSERT INTO symbol_outcomes
		(run_id, symbol, kind, points, last_close, change_pct, currency, exchange, failure, message, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		out.RunID, string(out.Symbol), out.Kind, out.Points,
		nullFloat(out.LastClose), nullFloat(out.Change),
		currency, exchange, out.Failure, out.Message, out.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
