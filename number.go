package dcps

import (
	"strings"

	"github.com/etnz/dcps/date"
	"github.com/shopspring/decimal"
)

// DecimalStyle tells which mark separates decimals in a source number.
// The other mark is a thousands separator and is stripped.
type DecimalStyle int

const (
	DecimalPoint DecimalStyle = iota // 1,234.56 as rendered by the portal
	DecimalComma                     // 1.234,56 as printed in statements
)

func (s DecimalStyle) String() string {
	if s == DecimalComma {
		return "decimal comma"
	}
	return "decimal point"
}

// ParseNumber converts a locale formatted number to a float64.
//
// Grouping marks are stripped, the residue must be a plain decimal. No
// rounding happens besides the conversion to the nearest float64.
func ParseNumber(raw string, style DecimalStyle) (float64, error) {
	s := strings.TrimSpace(raw)
	switch style {
	case DecimalComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	default:
		s = strings.ReplaceAll(s, ",", "")
	}
	if s == "" || strings.ContainsAny(s, "eE") {
		return 0, &FormatError{Value: raw, Want: "number"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, &FormatError{Value: raw, Want: "number", Err: err}
	}
	f, _ := d.Float64()
	return f, nil
}

// ToEpoch converts a DD/MM/YYYY date to the epoch seconds of its local midnight.
func ToEpoch(raw string) (int64, error) {
	d, err := ParseDate(raw)
	if err != nil {
		return 0, err
	}
	return d.Unix(), nil
}

// ParseDate parses a DD/MM/YYYY date, failing with a *FormatError.
func ParseDate(raw string) (date.Date, error) {
	d, err := date.Parse(strings.TrimSpace(raw))
	if err != nil {
		return date.Date{}, &FormatError{Value: raw, Want: "DD/MM/YYYY date", Err: err}
	}
	return d, nil
}

// Round2 rounds x to two decimal places, half away from zero.
func Round2(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}
