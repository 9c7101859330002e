package portal

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"github.com/PuerkitoBio/goquery"
	"github.com/etnz/dcps"
	"github.com/etnz/dcps/logger"
	"github.com/etnz/dcps/table"
)

// Harvester collects the four regions of the holdings page.
type Harvester struct {
	Session *Session
	Sink    Sink
}

// regions are the tables located on the holdings page.
type regions struct {
	priorYear *goquery.Selection
	current   *goquery.Selection
	summary   *goquery.Selection
}

// Harvest navigates to the holdings page, extracts the prior-year balance,
// the contributions summary, every contribution detail page and the current
// balance, and forwards each region to the Sink as soon as it is complete.
//
// A missing landmark on the holdings page aborts the harvest with
// dcps.ErrStructuralChange before anything is forwarded, and a region is only
// forwarded once complete. The returned Harvest holds every normalized fact.
func (h *Harvester) Harvest(ctx context.Context) (*dcps.Harvest, error) {
	log := logger.FromContext(ctx)

	holdings, err := h.openHoldings(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := locate(holdings.Doc)
	if err != nil {
		return nil, err
	}

	var res dcps.Harvest

	res.PriorYear, err = decodeTable(reg.priorYear, dcps.DecodeBalanceSnapshot)
	if err != nil {
		return nil, fmt.Errorf("prior-year balance: %w", err)
	}
	if err := h.forward(ctx, dcps.PriorYearBalance, dcps.Facts(res.PriorYear)); err != nil {
		return nil, err
	}

	res.Contributions, err = decodeTable(reg.summary, dcps.DecodeContributionSummary)
	if err != nil {
		return nil, fmt.Errorf("contributions summary: %w", err)
	}
	if err := h.forward(ctx, dcps.Contributions, dcps.Facts(res.Contributions)); err != nil {
		return nil, err
	}

	links, err := detailLinks(holdings, reg.summary)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("pages", len(links)).Msg("contribution detail pages found")
	for _, link := range links {
		details, err := h.details(ctx, link)
		if err != nil {
			return nil, err
		}
		res.Details = append(res.Details, details...)
	}
	if err := h.forward(ctx, dcps.ContributionDetails, dcps.Facts(res.Details)); err != nil {
		return nil, err
	}

	res.Current, err = decodeTable(reg.current, dcps.DecodeBalanceSnapshot)
	if err != nil {
		return nil, fmt.Errorf("current balance: %w", err)
	}
	if err := h.forward(ctx, dcps.CurrentBalance, dcps.Facts(res.Current)); err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *Harvester) forward(ctx context.Context, kind dcps.Kind, facts []dcps.Fact) error {
	logger.FromContext(ctx).Info().Stringer("kind", kind).Int("rows", len(facts)).Msg("harvested")
	if h.Sink == nil {
		return nil
	}
	if err := h.Sink.Upsert(ctx, kind, facts...); err != nil {
		return fmt.Errorf("cannot store %s: %w", kind, err)
	}
	return nil
}

// openHoldings posts the holdings menu form found on the landing page.
func (h *Harvester) openHoldings(ctx context.Context) (*page, error) {
	landing := h.Session.landing
	input := landing.Doc.Find(`input[value="` + holdingsMenuToken + `"]`).First()
	if input.Length() == 0 {
		return nil, fmt.Errorf("%w: no holdings menu on landing page", dcps.ErrStructuralChange)
	}
	action, ok := input.Closest("form").Attr("action")
	if !ok {
		return nil, fmt.Errorf("%w: holdings menu has no form action", dcps.ErrStructuralChange)
	}
	u, err := landing.resolve(action)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dcps.ErrStructuralChange, err)
	}
	return postForm(ctx, h.Session.client, u.String(), url.Values{
		"f-token": {holdingsMenuToken},
		"c-token": {holdingsContentToken},
		"a-token": {"null"},
	})
}

// locate finds the three tables of the holdings page. By convention the
// first "Balance at" table is the prior year, the second the current balance.
func locate(doc *goquery.Document) (regions, error) {
	balances := table.FindCells(doc.Selection, "td", balanceLandmark, 2)
	if len(balances) < 2 {
		return regions{}, fmt.Errorf("%w: found %d of 2 %q tables", dcps.ErrStructuralChange, len(balances), balanceLandmark)
	}
	details := table.FindCells(doc.Selection, "td", yearDetailsLandmark, 1)
	if len(details) == 0 {
		return regions{}, fmt.Errorf("%w: no %q table", dcps.ErrStructuralChange, yearDetailsLandmark)
	}
	return regions{
		priorYear: table.Enclosing(balances[0]),
		current:   table.Enclosing(balances[1]),
		summary:   table.Enclosing(details[0]),
	}, nil
}

// detailLinks returns the distinct absolute URLs linked from the summary table, sorted.
func detailLinks(holdings *page, summary *goquery.Selection) ([]string, error) {
	seen := make(map[string]bool)
	var links []string
	for _, href := range table.Links(summary) {
		u, err := holdings.resolve(href)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", dcps.ErrStructuralChange, err)
		}
		if s := u.String(); !seen[s] {
			seen[s] = true
			links = append(links, s)
		}
	}
	slices.Sort(links)
	return links, nil
}

// details fetches one transaction page and decodes its detail table.
func (h *Harvester) details(ctx context.Context, link string) ([]dcps.ContributionDetail, error) {
	p, err := get(ctx, h.Session.client, link)
	if err != nil {
		return nil, fmt.Errorf("contribution detail %s: %w", link, err)
	}
	cells := table.FindCells(p.Doc.Selection, "th", operationDateLandmark, 1)
	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: no %q table in %s", dcps.ErrStructuralChange, operationDateLandmark, link)
	}
	details, err := decodeTable(table.Enclosing(cells[0]), dcps.DecodeContributionDetail)
	if err != nil {
		return nil, fmt.Errorf("contribution detail %s: %w", link, err)
	}
	return details, nil
}

// decodeTable extracts, normalizes and decodes every row of t.
func decodeTable[T any](t *goquery.Selection, decode func(dcps.Record) (T, error)) ([]T, error) {
	var out []T
	for _, row := range table.Extract(t) {
		rec, err := dcps.Normalize(row, dcps.DecimalPoint)
		if err != nil {
			return nil, err
		}
		v, err := decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
