// Package renderer formats the facts as markdown tables for the console.
package renderer

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/etnz/dcps/date"
)

// Amount formats a monetary amount in its currency, e.g. "€1,100.00".
// Currencies unknown to go-money fall back to a plain rendering.
func Amount(value float64, currency string) string {
	if money.GetCurrency(currency) == nil {
		return fmt.Sprintf("%.2f %s", value, currency)
	}
	return money.NewFromFloat(value, currency).Display()
}

// Units formats a number of fund units.
func Units(v float64) string { return fmt.Sprintf("%.3f", v) }

// Price formats a price per unit.
func Price(v float64) string { return fmt.Sprintf("%.4f", v) }

// Rate formats an exchange rate.
func Rate(v float64) string { return fmt.Sprintf("%.4f", v) }

func day(d date.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
