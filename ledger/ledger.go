// Package ledger persists the facts in a local SQLite file.
//
// Each Kind has its own table whose UNIQUE constraint is the natural key of
// the fact. Writes use the engine's REPLACE conflict resolution: ingesting an
// identical fact is a no-op, ingesting a fact with a known key but other
// values replaces the stored row. The table layout is the one historical
// databases already use, so existing files open unchanged.
package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/etnz/dcps"
	"github.com/etnz/dcps/logger"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath is the database file used when none is given.
const DefaultPath = "dcps.sqlite3.db"

// Ledger owns the persisted facts. It holds a single long-lived connection:
// there is never more than one writer.
type Ledger struct {
	db *sql.DB
}

// Open opens (or creates) the database file at path and bootstraps its schema.
func Open(ctx context.Context, path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	l, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.FromContext(ctx).Debug().Str("path", path).Msg("ledger opened")
	return l, nil
}

// New wraps an open database, creating the missing tables.
func New(ctx context.Context, db *sql.DB) (*Ledger, error) {
	if err := applyMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the database.
func (l *Ledger) Close() error { return l.db.Close() }

// applyMigrations creates the tables if absent. It is safe on every start.
func applyMigrations(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS contributions (
  date text, date_unix integer, currency text, opcode text, amount real,
  UNIQUE(date, currency, opcode, amount) ON CONFLICT REPLACE
);

CREATE TABLE IF NOT EXISTS balance_now (
  date text, date_unix integer, currency text, fund text, amount real, total_units real, price_per_unit real,
  UNIQUE(date, currency, fund, amount) ON CONFLICT REPLACE
);

CREATE TABLE IF NOT EXISTS balance_year (
  date text, date_unix integer, currency text, fund text, amount real, total_units real, price_per_unit real,
  UNIQUE(date, currency, fund, amount) ON CONFLICT REPLACE
);

CREATE TABLE IF NOT EXISTS contributions_detail (
  date_operation text, date_operation_unix integer, date_nav text, date_nav_unix integer, fund text,
  exchange_rate real, amount_gross real, fees real, amount_net real, units real, price_per_unit real,
  UNIQUE(date_operation, fund, units) ON CONFLICT REPLACE
);

CREATE TABLE IF NOT EXISTS runs (
  id text PRIMARY KEY, source text NOT NULL, started_unix integer NOT NULL, finished_unix integer,
  row_count integer NOT NULL DEFAULT 0, status text NOT NULL, error text
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// tableOf returns the table storing kind.
func tableOf(kind dcps.Kind) (string, error) {
	switch kind {
	case dcps.Contributions:
		return "contributions", nil
	case dcps.ContributionDetails:
		return "contributions_detail", nil
	case dcps.PriorYearBalance:
		return "balance_year", nil
	case dcps.CurrentBalance:
		return "balance_now", nil
	}
	return "", fmt.Errorf("unknown fact kind %d", kind)
}
