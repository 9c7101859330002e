// Package statement imports the contribution details of the yearly
// individual statements, the documents the provider published before the
// portal had history.
//
// Statements have no table structure once turned into text: rows are
// rebuilt with positional regular expressions tied to one known document
// layout. Parsing is best effort, a page that does not match the layout
// contributes nothing.
package statement

import (
	"regexp"
)

// Layout describes one revision of the statement document.
type Layout struct {
	Name string

	SummaryMarker string // pages holding this text are skipped
	DetailMarker  string // pages holding this text are parsed

	// Boilerplate is removed from detail pages before splitting rows.
	Boilerplate []*regexp.Regexp
	// Row captures, in order: operation code, operation date, fund, total
	// amount, currency, amount invested, total units, price per unit.
	Row *regexp.Regexp

	TotalPrefix string // residual total lines start with it
	Header      string // residual column header line
}

// header2017 is the column header repeated on every detail page.
const header2017 = "Operation CodeFundInvestmentTotal AmountCurrencyTransactionAmount Invested /Disinvested / AccruedPrice per Unit(NAV)ReferenceDateTotal Units"

// Layout2017 is the statement layout in use from 2017.
var Layout2017 = &Layout{
	Name:          "2017",
	SummaryMarker: "Holdings (SUMMARY)",
	DetailMarker:  "Holdings (DETAIL)",
	Boilerplate: []*regexp.Regexp{
		regexp.MustCompile(`^.*Holdings \(DETAIL\)`),
		// text extraction glues the header to the first row
		regexp.MustCompile(regexp.QuoteMeta(header2017)),
		regexp.MustCompile(`TransactionInvestment`),
		regexp.MustCompile(`\x0c`),
		regexp.MustCompile(`TOTAL([0-9]{2}/[0-9]{2}/[0-9]{4})([A-Z]{3}[a-zA-Z ]+\([A-Z]{3}\))(-?[0-9.]+,[0-9]{3})`),
	},
	Row: regexp.MustCompile(
		`([a-zA-Z \(\)\*]+)` + // operation code
			`([0-9]{2}/[0-9]{2}/[0-9]{4})` + // operation date
			`([A-Z]{3}[a-zA-Z ]+\([A-Z]{3}\))` + // fund (currency)
			`(-?[0-9.]+,[0-9]{2})` + // total amount
			`([A-Z]{3})` + // currency
			`(-?[0-9.]+,[0-9]{2})` + // amount invested
			`(-?[0-9.]+,[0-9]{3})` + // total units
			`([0-9.]+,[0-9]{4})`), // price per unit
	TotalPrefix: "TOTAL",
	Header:      header2017,
}

// rowTemplate lays out the Row captures one per line, tab separated.
// The document renders the price before the units: they are swapped back.
const rowTemplate = "${1}\t${2}\t${3}\t${4}\t${5}\t${6}\t${8}\t${7}\n"
