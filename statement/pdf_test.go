package statement

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/dcps"
	"github.com/etnz/dcps/date"
	"github.com/etnz/dcps/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfEscaper = strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)

// writeStatement writes a PDF document with one page per element of pages.
// Each page shows its lines top down, the cells of a line, separated by '|',
// as one text run each.
func writeStatement(t *testing.T, pages ...[]string) string {
	t.Helper()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, once the kids are known
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	var kids []string
	for _, lines := range pages {
		var content strings.Builder
		content.WriteString("BT /F1 9 Tf 40 800 Td\n")
		for i, line := range lines {
			if i > 0 {
				content.WriteString("0 -12 Td\n")
			}
			for _, cell := range strings.Split(line, "|") {
				fmt.Fprintf(&content, "(%s) Tj\n", pdfEscaper.Replace(cell))
			}
		}
		content.WriteString("ET")

		n := len(objects) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", n))
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", n+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()))
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "statement.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// statement2017 is a two pages statement: the holdings summary then the
// details of one contribution split between two funds.
func statement2017(t *testing.T) string {
	return writeStatement(t,
		[]string{
			"Individual Statement 2017",
			"Holdings (SUMMARY)",
			"Bond Fund (EUR)|617,28",
		},
		[]string{
			"Individual Statement 2017 |Holdings (DETAIL)",
			"Operation Code|Fund|Investment|Total Amount|Currency|Transaction|Amount Invested /|Disinvested / Accrued|Price per Unit|(NAV)|Reference|Date|Total Units",
			"Contribution|15/01/2017|EUR|Bond Fund (EUR)|1.234,56|EUR|617,28|5,000|123,4560",
			"Contribution|15/01/2017|EUR|Equity Fund (EUR)|1.234,56|EUR|617,28|2,500|246,9120",
			"TOTAL|15/01/2017|EUR|Bond Fund (EUR)|5,000",
		},
	)
}

func TestReadPages(t *testing.T) {
	pages, err := ReadPages(statement2017(t))
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Contains(t, pages[0], "Holdings (SUMMARY)")
	// line moves do not break lines, the header runs into the first row
	assert.Contains(t, pages[1], "Holdings (DETAIL)"+header+"Contribution15/01/2017")
}

func TestImportFile(t *testing.T) {
	ctx := context.Background()
	l, err := ledger.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer l.Close()

	res, err := ImportFile(ctx, Layout2017, statement2017(t), l)
	require.NoError(t, err)
	require.Len(t, res.Details, 2)
	assert.Equal(t, []dcps.ContributionSummary{{
		ReferenceDate: date.MustParse("15/01/2017"),
		Currency:      "EUR",
		OperationCode: "Contribution",
		TotalAmount:   2469.12,
	}}, res.Contributions)

	contributions, err := l.Contributions(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Contributions, contributions)

	details, err := l.ContributionDetails(ctx)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, dcps.ContributionDetail{
		OperationDate: date.MustParse("15/01/2017"),
		NavDate:       date.MustParse("15/01/2017"),
		Fund:          "EURBond Fund (EUR)",
		ExchangeRate:  1,
		GrossAmount:   617.28,
		NetAmount:     617.28,
		Units:         5,
		PricePerUnit:  123.456,
	}, details[0])
	assert.Equal(t, "EUREquity Fund (EUR)", details[1].Fund)
	assert.Equal(t, 2.5, details[1].Units)
}
