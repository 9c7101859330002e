package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/etnz/dcps"
	"github.com/google/uuid"
)

// Run status values.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one ingestion, from the portal or from a statement, recorded in the
// runs table. It is a Sink: facts upserted through it are counted.
type Run struct {
	ID     string
	Source string

	l       *Ledger
	started time.Time

	mu   sync.Mutex
	rows int
}

// RunInfo is a recorded run.
type RunInfo struct {
	ID       string
	Source   string
	Started  time.Time
	Finished time.Time // zero while running
	Rows     int
	Status   string
	Error    string
}

// StartRun records the start of an ingestion from source.
func (l *Ledger) StartRun(ctx context.Context, source string) (*Run, error) {
	r := &Run{ID: uuid.NewString(), Source: source, l: l, started: time.Now()}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, started_unix, status) VALUES (?, ?, ?, ?)`,
		r.ID, source, r.started.Unix(), StatusRunning)
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	return r, nil
}

// Upsert stores facts in the ledger and counts them against the run.
func (r *Run) Upsert(ctx context.Context, kind dcps.Kind, facts ...dcps.Fact) error {
	if err := r.l.Upsert(ctx, kind, facts...); err != nil {
		return err
	}
	r.mu.Lock()
	r.rows += len(facts)
	r.mu.Unlock()
	return nil
}

// Rows returns the number of facts upserted so far.
func (r *Run) Rows() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows
}

// Finish records the outcome of the run. A nil cause marks it succeeded.
func (r *Run) Finish(ctx context.Context, cause error) error {
	status, msg := StatusSucceeded, sql.NullString{}
	if cause != nil {
		status, msg = StatusFailed, sql.NullString{String: cause.Error(), Valid: true}
	}
	_, err := r.l.db.ExecContext(ctx,
		`UPDATE runs SET finished_unix = ?, row_count = ?, status = ?, error = ? WHERE id = ?`,
		time.Now().Unix(), r.Rows(), status, msg, r.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", r.ID, err)
	}
	return nil
}

// Runs lists the recorded runs, most recent first.
func (l *Ledger) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := l.db.QueryContext(ctx, `
SELECT id, source, started_unix, finished_unix, row_count, status, error
FROM runs ORDER BY started_unix DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	return scanAll(rows, func(rows *sql.Rows) (ri RunInfo, err error) {
		var started int64
		var finished sql.NullInt64
		var msg sql.NullString
		if err = rows.Scan(&ri.ID, &ri.Source, &started, &finished, &ri.Rows, &ri.Status, &msg); err != nil {
			return ri, err
		}
		ri.Started = time.Unix(started, 0)
		if finished.Valid {
			ri.Finished = time.Unix(finished.Int64, 0)
		}
		ri.Error = msg.String
		return ri, nil
	})
}
