package table

import (
	"regexp"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/etnz/dcps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const balanceTable = `<html><body>
<table>
 <tr><th>NAV date</th><th>Currency</th><th>Fund</th><th>Amount</th></tr>
 <tr><td colspan="2">Total</td><td></td><td>3,000.00</td></tr>
 <tr><td> 31/12/2019 </td><td>EUR</td><td>Equity Fund (EUR)</td><td>1,000.00</td></tr>
 <tr><td>31/12/2019</td><td>EUR</td><td>Bond Fund (EUR)</td><td>2,000.00</td></tr>
</table>
</body></html>`

func TestExtract(t *testing.T) {
	doc := parse(t, balanceTable)

	rows := Extract(doc.Find("table"))

	require.Len(t, rows, 2)
	assert.Equal(t, dcps.Row{
		"NAV date": "31/12/2019",
		"Currency": "EUR",
		"Fund":     "Equity Fund (EUR)",
		"Amount":   "1,000.00",
	}, rows[0])
	assert.Equal(t, "Bond Fund (EUR)", rows[1]["Fund"])
}

func TestHeadersOrder(t *testing.T) {
	doc := parse(t, balanceTable)
	assert.Equal(t, []string{"NAV date", "Currency", "Fund", "Amount"}, Headers(doc.Find("table")))
}

func TestExtractDegradesByOmission(t *testing.T) {
	doc := parse(t, `<table>
 <tr><th>A</th><th>B</th></tr>
 <tr></tr>
 <tr><td>1</td><td>2</td><td>extra</td></tr>
 <tr><td>3</td></tr>
 <tr><td colspan="1">5</td><td>6</td></tr>
 <tr><td colspan="x">total</td></tr>
</table>`)

	rows := Extract(doc.Find("table"))

	assert.Equal(t, []dcps.Row{
		{"A": "1", "B": "2"},
		{"A": "3"},
		{"A": "5", "B": "6"},
	}, rows)
}

func TestExtractWithoutHeaders(t *testing.T) {
	doc := parse(t, `<table><tr><td>1</td></tr></table>`)
	assert.Empty(t, Extract(doc.Find("table")))
}

func TestFindCellsInnermost(t *testing.T) {
	doc := parse(t, `<table><tr><td>
  <table id="prior"><tr><td colspan="2">Balance at 31/12/2019</td></tr></table>
  <table id="now"><tr><td colspan="2"><b>Balance at</b> 15/03/2020</td></tr></table>
  <table id="other"><tr><td>Balance at nothing</td></tr></table>
</td></tr></table>`)

	cells := FindCells(doc.Selection, "td", regexp.MustCompile("Balance at"), 2)

	require.Len(t, cells, 2)
	assert.Equal(t, "prior", Enclosing(cells[0]).AttrOr("id", ""))
	assert.Equal(t, "now", Enclosing(cells[1]).AttrOr("id", ""))

	assert.Len(t, FindCells(doc.Selection, "td", regexp.MustCompile("Balance at"), 0), 3)
	assert.Empty(t, FindCells(doc.Selection, "td", regexp.MustCompile("Current Year Details"), 0))
}

func TestLinks(t *testing.T) {
	doc := parse(t, `<table>
<tr><td><a href="/d?id=2">x</a></td><td><a href="/d?id=1">y</a></td></tr>
<tr><td><a href="/d?id=2">again</a></td><td><a>no href</a></td><td><a href=" ">blank</a></td></tr>
</table>`)
	assert.Equal(t, []string{"/d?id=2", "/d?id=1"}, Links(doc.Find("table")))
}
