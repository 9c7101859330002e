package renderer

import (
	"bytes"
	"fmt"
	"time"

	md "github.com/nao1215/markdown"
)

// Report gathers the ledger figures of the report command.
type Report struct {
	Funds              []string
	ContributionsTotal float64
	LatestBalance      float64
	Currency           string
	Counts             map[string]int // stored rows per kind
}

// ReportMarkdown renders a ledger report.
func ReportMarkdown(r *Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Pension Scheme Report")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Latest Balance"), md.Bold(Amount(r.LatestBalance, r.Currency))},
		Rows: [][]string{
			{"Contributions", Amount(r.ContributionsTotal, r.Currency)},
			{"Funds", fmt.Sprint(len(r.Funds))},
		},
	})
	if len(r.Funds) > 0 {
		doc.H2("Funds")
		doc.BulletList(r.Funds...)
	}
	if len(r.Counts) > 0 {
		doc.H2("Stored Facts")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Kind", "Rows"},
		}
		for _, kind := range countOrder {
			if n, ok := r.Counts[kind]; ok {
				table.Rows = append(table.Rows, []string{kind, fmt.Sprint(n)})
			}
		}
		doc.Table(table)
	}
	return doc.String()
}

// countOrder is the display order of Report.Counts keys.
var countOrder = []string{"prior-year balance", "contributions", "contribution details", "current balance"}

// Run is a recorded ingestion, as listed by the runs command.
type Run struct {
	ID       string
	Source   string
	Started  time.Time
	Finished time.Time
	Rows     int
	Status   string
	Error    string
}

// RunsMarkdown renders the ingestion history.
func RunsMarkdown(runs []Run) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Runs")
	if len(runs) == 0 {
		doc.PlainText(md.Italic("no runs"))
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Started", "Source", "Duration", "Rows", "Status", "Error"},
	}
	for _, r := range runs {
		duration := ""
		if !r.Finished.IsZero() {
			duration = r.Finished.Sub(r.Started).String()
		}
		table.Rows = append(table.Rows, []string{
			r.Started.Format(time.DateTime), r.Source, duration, fmt.Sprint(r.Rows), r.Status, r.Error,
		})
	}
	doc.Table(table)
	return doc.String()
}
