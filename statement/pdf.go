package statement

import (
	"fmt"
	"os"

	"github.com/dslipak/pdf"
)

// ReadPages returns the plain text of every page of the PDF document at path.
// Pages without content yield an empty string.
func ReadPages(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open statement: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cannot stat statement: %w", err)
	}
	r, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("cannot read pdf %s: %w", path, err)
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("cannot extract text of page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
