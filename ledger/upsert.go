package ledger

import (
	"context"
	"fmt"

	"github.com/etnz/dcps"
)

// Upsert inserts or replaces facts of one kind, by natural key, in a single
// transaction: either every fact is stored or none.
func (l *Ledger) Upsert(ctx context.Context, kind dcps.Kind, facts ...dcps.Fact) error {
	table, err := tableOf(kind)
	if err != nil {
		return err
	}
	query := insertQueries[table]

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i, f := range facts {
		args, err := values(kind, f)
		if err != nil {
			return fmt.Errorf("fact #%d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

var insertQueries = map[string]string{
	"contributions":        `INSERT OR REPLACE INTO contributions VALUES (?, ?, ?, ?, ?)`,
	"contributions_detail": `INSERT OR REPLACE INTO contributions_detail VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	"balance_year":         `INSERT OR REPLACE INTO balance_year VALUES (?, ?, ?, ?, ?, ?, ?)`,
	"balance_now":          `INSERT OR REPLACE INTO balance_now VALUES (?, ?, ?, ?, ?, ?, ?)`,
}

// values returns the column values of f, checking it belongs to kind.
// Each date is stored twice, as DD/MM/YYYY text and as its epoch.
func values(kind dcps.Kind, f dcps.Fact) ([]any, error) {
	switch v := f.(type) {
	case dcps.ContributionSummary:
		if kind == dcps.Contributions {
			return []any{v.ReferenceDate.String(), v.ReferenceDate.Unix(), v.Currency, v.OperationCode, v.TotalAmount}, nil
		}
	case dcps.ContributionDetail:
		if kind == dcps.ContributionDetails {
			return []any{
				v.OperationDate.String(), v.OperationDate.Unix(),
				v.NavDate.String(), v.NavDate.Unix(),
				v.Fund, v.ExchangeRate, v.GrossAmount, v.Fees, v.NetAmount, v.Units, v.PricePerUnit,
			}, nil
		}
	case dcps.BalanceSnapshot:
		if kind == dcps.PriorYearBalance || kind == dcps.CurrentBalance {
			return []any{v.Date.String(), v.Date.Unix(), v.Currency, v.Fund, v.Amount, v.TotalUnits, v.PricePerUnit}, nil
		}
	}
	return nil, fmt.Errorf("%T is not a %s fact", f, kind)
}
