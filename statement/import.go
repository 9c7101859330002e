package statement

import (
	"context"
	"fmt"

	"github.com/etnz/dcps"
	"github.com/etnz/dcps/logger"
)

// Sink receives the imported facts, one call per kind.
type Sink interface {
	Upsert(ctx context.Context, kind dcps.Kind, facts ...dcps.Fact) error
}

// Result holds what a statement yielded.
type Result struct {
	Details       []dcps.ContributionDetail
	Contributions []dcps.ContributionSummary
}

// Import parses pages with layout and stores the details, then the summaries
// computed from them. A statement yielding nothing stores nothing.
func Import(ctx context.Context, layout *Layout, pages []string, sink Sink) (*Result, error) {
	txs := layout.Parse(ctx, pages)
	res := &Result{Details: Details(txs), Contributions: Summarize(txs)}
	logger.FromContext(ctx).Info().
		Int("pages", len(pages)).
		Int("details", len(res.Details)).
		Int("contributions", len(res.Contributions)).
		Msg("statement parsed")
	if len(txs) == 0 || sink == nil {
		return res, nil
	}
	if err := sink.Upsert(ctx, dcps.ContributionDetails, dcps.Facts(res.Details)...); err != nil {
		return nil, fmt.Errorf("cannot store %s: %w", dcps.ContributionDetails, err)
	}
	if err := sink.Upsert(ctx, dcps.Contributions, dcps.Facts(res.Contributions)...); err != nil {
		return nil, fmt.Errorf("cannot store %s: %w", dcps.Contributions, err)
	}
	return res, nil
}

// ImportFile reads the PDF statement at path and imports it.
func ImportFile(ctx context.Context, layout *Layout, path string, sink Sink) (*Result, error) {
	pages, err := ReadPages(path)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug().Str("file", path).Int("pages", len(pages)).Msg("statement read")
	return Import(ctx, layout, pages, sink)
}
