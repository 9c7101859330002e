package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/dcps"
	md "github.com/nao1215/markdown"
)

// Section titles, in harvest order.
const (
	TitlePriorYear     = "BALANCE PREVIOUS YEAR"
	TitleContributions = "CURRENT YEAR CONTRIBUTIONS - SUMMARY"
	TitleDetails       = "CURRENT YEAR CONTRIBUTIONS - DETAILS"
	TitleCurrent       = "CURRENT BALANCE"
)

// HarvestMarkdown renders the four regions of a harvest.
func HarvestMarkdown(h *dcps.Harvest) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	balances(doc, TitlePriorYear, h.PriorYear)
	contributions(doc, TitleContributions, h.Contributions)
	details(doc, TitleDetails, h.Details)
	balances(doc, TitleCurrent, h.Current)
	return doc.String()
}

// BalancesMarkdown renders balance snapshots under title.
func BalancesMarkdown(title string, list []dcps.BalanceSnapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	balances(doc, title, list)
	return doc.String()
}

// ContributionsMarkdown renders contribution summaries under title.
func ContributionsMarkdown(title string, list []dcps.ContributionSummary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	contributions(doc, title, list)
	return doc.String()
}

// DetailsMarkdown renders contribution details under title.
func DetailsMarkdown(title string, list []dcps.ContributionDetail) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	details(doc, title, list)
	return doc.String()
}

func empty(doc *md.Markdown, n int) bool {
	if n == 0 {
		doc.PlainText(md.Italic("no rows"))
		return true
	}
	return false
}

func balances(doc *md.Markdown, title string, list []dcps.BalanceSnapshot) {
	doc.H2(title)
	if empty(doc, len(list)) {
		return
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"NAV date", "Fund", "Amount", "Total Units", "Price per Unit"},
	}
	totals := make(map[string]float64)
	var currencies []string
	for _, b := range list {
		table.Rows = append(table.Rows, []string{day(b.Date), b.Fund, Amount(b.Amount, b.Currency), Units(b.TotalUnits), Price(b.PricePerUnit)})
		if _, ok := totals[b.Currency]; !ok {
			currencies = append(currencies, b.Currency)
		}
		totals[b.Currency] += b.Amount
	}
	for _, cur := range currencies {
		table.Rows = append(table.Rows, []string{md.Bold("Total"), "", md.Bold(Amount(dcps.Round2(totals[cur]), cur)), "", ""})
	}
	doc.Table(table)
}

func contributions(doc *md.Markdown, title string, list []dcps.ContributionSummary) {
	doc.H2(title)
	if empty(doc, len(list)) {
		return
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight},
		Header:    []string{"Reference Date", "Operation Code", "Total Amount"},
	}
	for _, c := range list {
		table.Rows = append(table.Rows, []string{day(c.ReferenceDate), c.OperationCode, Amount(c.TotalAmount, c.Currency)})
	}
	doc.Table(table)
}

func details(doc *md.Markdown, title string, list []dcps.ContributionDetail) {
	doc.H2(title)
	if empty(doc, len(list)) {
		return
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight,
			md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{
			"Operation Date", "Nav Date", "Fund", "Exchange Rate",
			"Gross Amount", "Fees", "Net Amount", "Units", "Price per Unit",
		},
	}
	for _, d := range list {
		table.Rows = append(table.Rows, []string{
			day(d.OperationDate), day(d.NavDate), d.Fund, Rate(d.ExchangeRate),
			fmt.Sprintf("%.2f", d.GrossAmount), fmt.Sprintf("%.2f", d.Fees), fmt.Sprintf("%.2f", d.NetAmount),
			Units(d.Units), Price(d.PricePerUnit),
		})
	}
	doc.Table(table)
}
