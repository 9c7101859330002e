package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/etnz/dcps"
	"github.com/etnz/dcps/date"
)

// Funds lists the distinct fund names of the current balance, sorted.
func (l *Ledger) Funds(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT DISTINCT fund FROM balance_now ORDER BY fund`)
	if err != nil {
		return nil, fmt.Errorf("failed to query funds: %w", err)
	}
	defer rows.Close()
	var funds []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		funds = append(funds, f)
	}
	return funds, rows.Err()
}

// ContributionsTotal returns the sum of every contribution summary amount,
// rounded to two decimals. It is zero on an empty ledger.
func (l *Ledger) ContributionsTotal(ctx context.Context) (float64, error) {
	var total float64
	err := l.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM contributions`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum contributions: %w", err)
	}
	return dcps.Round2(total), nil
}

// LatestBalance returns the sum, over funds, of the current balance amount at
// the most recent snapshot date, rounded to two decimals. When a fund has
// several rows on that date the last one written counts. It is zero on an
// empty ledger.
func (l *Ledger) LatestBalance(ctx context.Context) (float64, error) {
	const query = `
SELECT COALESCE(SUM(amount), 0) FROM balance_now WHERE rowid IN (
  SELECT MAX(rowid) FROM balance_now
  WHERE date_unix = (SELECT MAX(date_unix) FROM balance_now)
  GROUP BY fund
)`
	var total float64
	if err := l.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to compute latest balance: %w", err)
	}
	return dcps.Round2(total), nil
}

// Count returns the number of stored facts of kind.
func (l *Ledger) Count(ctx context.Context, kind dcps.Kind) (int, error) {
	table, err := tableOf(kind)
	if err != nil {
		return 0, err
	}
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// Contributions lists the stored contribution summaries by reference date.
//
// Dates are read back from the DD/MM/YYYY columns, the epoch columns depend
// on the timezone of the writer.
func (l *Ledger) Contributions(ctx context.Context) ([]dcps.ContributionSummary, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT date, currency, opcode, amount FROM contributions ORDER BY date_unix, opcode, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributions: %w", err)
	}
	return scanAll(rows, func(rows *sql.Rows) (c dcps.ContributionSummary, err error) {
		var d string
		if err = rows.Scan(&d, &c.Currency, &c.OperationCode, &c.TotalAmount); err != nil {
			return c, err
		}
		c.ReferenceDate, err = date.Parse(d)
		return c, err
	})
}

// ContributionDetails lists the stored contribution details by operation date.
func (l *Ledger) ContributionDetails(ctx context.Context) ([]dcps.ContributionDetail, error) {
	rows, err := l.db.QueryContext(ctx, `
SELECT date_operation, date_nav, fund, exchange_rate, amount_gross, fees, amount_net, units, price_per_unit
FROM contributions_detail ORDER BY date_operation_unix, fund, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contribution details: %w", err)
	}
	return scanAll(rows, func(rows *sql.Rows) (c dcps.ContributionDetail, err error) {
		var op, nav string
		if err = rows.Scan(&op, &nav, &c.Fund, &c.ExchangeRate, &c.GrossAmount, &c.Fees, &c.NetAmount, &c.Units, &c.PricePerUnit); err != nil {
			return c, err
		}
		if c.OperationDate, err = date.Parse(op); err != nil {
			return c, err
		}
		c.NavDate, err = date.Parse(nav)
		return c, err
	})
}

// Balances lists the stored snapshots of a balance kind by date then fund.
func (l *Ledger) Balances(ctx context.Context, kind dcps.Kind) ([]dcps.BalanceSnapshot, error) {
	if kind != dcps.PriorYearBalance && kind != dcps.CurrentBalance {
		return nil, fmt.Errorf("%s is not a balance", kind)
	}
	table, _ := tableOf(kind)
	rows, err := l.db.QueryContext(ctx, `
SELECT date, currency, fund, amount, total_units, price_per_unit
FROM `+table+` ORDER BY date_unix, fund, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return scanAll(rows, func(rows *sql.Rows) (b dcps.BalanceSnapshot, err error) {
		var d string
		if err = rows.Scan(&d, &b.Currency, &b.Fund, &b.Amount, &b.TotalUnits, &b.PricePerUnit); err != nil {
			return b, err
		}
		b.Date, err = date.Parse(d)
		return b, err
	})
}

func scanAll[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()
	var list []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
