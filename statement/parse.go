package statement

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/dcps"
	"github.com/etnz/dcps/logger"
)

// Transaction is one statement row: a contribution detail together with the
// summary fields the statement prints alongside it.
type Transaction struct {
	Code     string  // operation code
	Currency string  // transaction currency
	Total    float64 // total amount of the operation
	Detail   dcps.ContributionDetail
}

// rebuilt row fields, after the price and units swap.
const (
	fieldCode = iota
	fieldDate
	fieldFund
	fieldTotal
	fieldCurrency
	fieldInvested
	fieldPrice
	fieldUnits
	fieldCount
)

// ParsePage extracts the transactions of one page of text.
//
// Pages that are not detail pages yield nothing. An error means the page is
// a detail page that does not match the layout.
func (l *Layout) ParsePage(text string) ([]Transaction, error) {
	if strings.Contains(text, l.SummaryMarker) || !strings.Contains(text, l.DetailMarker) {
		return nil, nil
	}
	for _, re := range l.Boilerplate {
		text = re.ReplaceAllString(text, "")
	}
	text = l.Row.ReplaceAllString(text, rowTemplate)
	text = strings.Trim(text, "\n")

	var txs []Transaction
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, l.TotalPrefix) || line == l.Header {
			continue
		}
		tx, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func parseRow(line string) (tx Transaction, err error) {
	f := strings.Split(line, "\t")
	if len(f) != fieldCount {
		return tx, fmt.Errorf("%d fields in %q, want %d", len(f), line, fieldCount)
	}
	number := func(i int) float64 {
		v, e := dcps.ParseNumber(f[i], dcps.DecimalComma)
		if err == nil {
			err = e
		}
		return v
	}
	op, err := dcps.ParseDate(f[fieldDate])
	if err != nil {
		return tx, err
	}
	invested := number(fieldInvested)
	tx = Transaction{
		Code:     strings.TrimSpace(f[fieldCode]),
		Currency: f[fieldCurrency],
		Total:    number(fieldTotal),
		Detail: dcps.ContributionDetail{
			OperationDate: op,
			NavDate:       op, // statements print a single date
			Fund:          f[fieldFund],
			ExchangeRate:  1,
			GrossAmount:   invested,
			Fees:          0,
			NetAmount:     invested,
			Units:         number(fieldUnits),
			PricePerUnit:  number(fieldPrice),
		},
	}
	return tx, err
}

// Parse extracts the transactions of every page. Pages that do not match
// the layout are logged and skipped.
func (l *Layout) Parse(ctx context.Context, pages []string) []Transaction {
	log := logger.FromContext(ctx)
	var txs []Transaction
	for i, text := range pages {
		page, err := l.ParsePage(text)
		if err != nil {
			log.Warn().Err(err).Int("page", i+1).Str("layout", l.Name).Msg("page skipped")
			continue
		}
		log.Debug().Int("page", i+1).Int("transactions", len(page)).Msg("page parsed")
		txs = append(txs, page...)
	}
	return txs
}

// Details returns the contribution detail of each transaction.
func Details(txs []Transaction) []dcps.ContributionDetail {
	details := make([]dcps.ContributionDetail, len(txs))
	for i, tx := range txs {
		details[i] = tx.Detail
	}
	return details
}

// Summarize aggregates transactions by operation date and code into
// contribution summaries, in order of first appearance. A group carries the
// currency of its last transaction; its total is rounded once summed.
func Summarize(txs []Transaction) []dcps.ContributionSummary {
	type key struct {
		date string
		code string
	}
	index := make(map[key]int)
	var sums []dcps.ContributionSummary
	for _, tx := range txs {
		k := key{tx.Detail.OperationDate.String(), tx.Code}
		i, ok := index[k]
		if !ok {
			i = len(sums)
			index[k] = i
			sums = append(sums, dcps.ContributionSummary{ReferenceDate: tx.Detail.OperationDate, OperationCode: tx.Code})
		}
		sums[i].Currency = tx.Currency
		sums[i].TotalAmount += tx.Total
	}
	for i := range sums {
		sums[i].TotalAmount = dcps.Round2(sums[i].TotalAmount)
	}
	return sums
}
