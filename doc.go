// Package dcps holds the facts tracked for a Defined Contribution Pension
// Scheme account: contribution summaries, per-transaction contribution
// details and balance snapshots (prior-year and current).
//
// The facts come from two sources that converge on the same record shapes:
//   - the provider's web portal (package portal), whose tables are turned
//     into Rows by package table;
//   - historical statement documents (package statement), whose run-on text
//     is rebuilt into Rows with positional regular expressions.
//
// Rows are normalized here (Normalize, ParseNumber, ToEpoch) and decoded into
// typed facts that package ledger persists idempotently.
package dcps
