// Package table turns the markup tables of the portal into Rows.
//
// The portal has no stable identifiers: tables are located through landmark
// cells (FindCells, Enclosing) and read by header position (Extract).
package table

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/etnz/dcps"
)

// Headers returns the trimmed labels of every header cell of t, left to right.
func Headers(t *goquery.Selection) []string {
	var headers []string
	t.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})
	return headers
}

// Extract converts the data rows of t into Rows keyed by the header labels.
//
// Header rows and total rows (leading cell spanning several columns) are
// skipped. Cells are mapped to headers by position; cells beyond the last
// header are dropped and rows yielding no field are discarded. Extract never
// fails: a malformed row degrades by omission.
func Extract(t *goquery.Selection) []dcps.Row {
	headers := Headers(t)
	var rows []dcps.Row
	t.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Find("th").Length() > 0 || isTotal(tr) {
			return
		}
		row := make(dcps.Row)
		tr.Find("td").Each(func(i int, td *goquery.Selection) {
			if i >= len(headers) {
				return
			}
			row[headers[i]] = strings.TrimSpace(td.Text())
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})
	return rows
}

// isTotal reports whether the leading data cell of tr spans several columns.
func isTotal(tr *goquery.Selection) bool {
	span, ok := tr.Find("td").First().Attr("colspan")
	if !ok || strings.TrimSpace(span) == "" {
		return false
	}
	n, err := strconv.Atoi(strings.TrimSpace(span))
	return err != nil || n > 1
}

// FindCells returns the innermost cells named tag (td or th) whose text
// matches re, in document order. At most limit cells are returned, limit <= 0
// means no limit.
func FindCells(s *goquery.Selection, tag string, re *regexp.Regexp, limit int) []*goquery.Selection {
	var cells []*goquery.Selection
	s.Find(tag).EachWithBreak(func(_ int, c *goquery.Selection) bool {
		// layout cells wrap whole tables, only keep the cell holding the text.
		if c.Find("td, th").Length() > 0 || !re.MatchString(c.Text()) {
			return true
		}
		cells = append(cells, c)
		return limit <= 0 || len(cells) < limit
	})
	return cells
}

// Enclosing returns the table holding cell.
func Enclosing(cell *goquery.Selection) *goquery.Selection {
	return cell.Closest("table")
}

// Links returns the distinct href values found inside s, in document order.
func Links(s *goquery.Selection) []string {
	seen := make(map[string]bool)
	var links []string
	s.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || seen[href] {
			return
		}
		seen[href] = true
		links = append(links, href)
	})
	return links
}
