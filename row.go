package dcps

import (
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/dcps/date"
)

// Column labels shared by the portal tables and the rebuilt statement rows.
const (
	ColReferenceDate  = "Reference Date"
	ColCurrency       = "Currency"
	ColOperationCode  = "Operation Code"
	ColTotalAmount    = "Total Amount"
	ColOperationDate  = "Operation Date"
	ColNavDate        = "Nav Date"
	ColFund           = "Fund"
	ColExchangeRate   = "Exchange Rate"
	ColGrossAmount    = "Gross Amount Inv/Dis"
	ColFees           = "Fees (*)"
	ColNetAmount      = "Net Amount Inv/Dis"
	ColUnits          = "No. of Units"
	ColPricePerUnit   = "Price per Unit"
	ColBalanceNavDate = "NAV date"
	ColAmount         = "Amount"
	ColTotalUnits     = "Total Units"
	ColBalancePrice   = "Price per UNIT"
)

// NumericColumns is the allow-list of columns converted to numbers.
// Any other column is kept as text, so extra columns never break normalization.
var NumericColumns = map[string]bool{
	ColAmount:       true,
	ColExchangeRate: true,
	ColFees:         true,
	ColGrossAmount:  true,
	ColNetAmount:    true,
	ColUnits:        true,
	ColPricePerUnit: true,
	ColBalancePrice: true,
	ColTotalAmount:  true,
	ColTotalUnits:   true,
}

// Row is one extracted table row: column label to trimmed cell text.
type Row map[string]string

// Record is a normalized Row: allow-listed columns as numbers, the rest as text.
type Record struct {
	Numbers map[string]float64
	Text    map[string]string
}

// Normalize converts the numeric columns of row using style.
func Normalize(row Row, style DecimalStyle) (Record, error) {
	rec := Record{Numbers: make(map[string]float64), Text: make(map[string]string)}
	// sorted for a deterministic first error
	for _, col := range slices.Sorted(maps.Keys(row)) {
		if !NumericColumns[col] {
			rec.Text[col] = row[col]
			continue
		}
		v, err := ParseNumber(row[col], style)
		if err != nil {
			return Record{}, fmt.Errorf("column %q: %w", col, err)
		}
		rec.Numbers[col] = v
	}
	return rec, nil
}

// Number returns a numeric column. A missing column means the table layout changed.
func (r Record) Number(col string) (float64, error) {
	v, ok := r.Numbers[col]
	if !ok {
		return 0, fmt.Errorf("%w: missing numeric column %q", ErrStructuralChange, col)
	}
	return v, nil
}

// String returns a text column.
func (r Record) String(col string) (string, error) {
	v, ok := r.Text[col]
	if !ok {
		return "", fmt.Errorf("%w: missing column %q", ErrStructuralChange, col)
	}
	return v, nil
}

// Date returns a text column parsed as a DD/MM/YYYY date.
func (r Record) Date(col string) (date.Date, error) {
	s, err := r.String(col)
	if err != nil {
		return date.Date{}, err
	}
	d, err := ParseDate(s)
	if err != nil {
		return date.Date{}, fmt.Errorf("column %q: %w", col, err)
	}
	return d, nil
}
