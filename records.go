package dcps

import (
	"errors"

	"github.com/etnz/dcps/date"
)

// Kind identifies one of the four persisted fact tables.
type Kind int

const (
	Contributions       Kind = iota + 1 // contribution summaries
	ContributionDetails                 // per-transaction details
	PriorYearBalance                    // balance at the end of the prior year
	CurrentBalance                      // latest balance
)

// Kinds lists every Kind in harvest order.
var Kinds = []Kind{PriorYearBalance, Contributions, ContributionDetails, CurrentBalance}

func (k Kind) String() string {
	switch k {
	case Contributions:
		return "contributions"
	case ContributionDetails:
		return "contribution details"
	case PriorYearBalance:
		return "prior-year balance"
	case CurrentBalance:
		return "current balance"
	}
	return "unknown"
}

// Fact is a persisted observation: one of ContributionSummary,
// ContributionDetail or BalanceSnapshot.
type Fact interface{ fact() }

func (ContributionSummary) fact() {}
func (ContributionDetail) fact()  {}
func (BalanceSnapshot) fact()     {}

// Facts converts a typed slice to a []Fact.
func Facts[T Fact](s []T) []Fact {
	facts := make([]Fact, len(s))
	for i, v := range s {
		facts[i] = v
	}
	return facts
}

// ContributionSummary is one line of the current year contributions summary.
// Natural key: (ReferenceDate, Currency, OperationCode, TotalAmount).
type ContributionSummary struct {
	ReferenceDate date.Date
	Currency      string
	OperationCode string
	TotalAmount   float64
}

// ContributionDetail is one investment made from a contribution.
// Natural key: (OperationDate, Fund, Units). NavDate is not part of it.
type ContributionDetail struct {
	OperationDate date.Date
	NavDate       date.Date
	Fund          string
	ExchangeRate  float64
	GrossAmount   float64
	Fees          float64
	NetAmount     float64
	Units         float64
	PricePerUnit  float64
}

// BalanceSnapshot is the position held in one fund at a date.
// Natural key: (Date, Currency, Fund, Amount).
type BalanceSnapshot struct {
	Date         date.Date
	Currency     string
	Fund         string
	Amount       float64
	TotalUnits   float64
	PricePerUnit float64
}

// Harvest gathers the four regions collected in one run.
type Harvest struct {
	PriorYear     []BalanceSnapshot
	Contributions []ContributionSummary
	Details       []ContributionDetail
	Current       []BalanceSnapshot
}

// DecodeContributionSummary decodes a normalized summary row.
func DecodeContributionSummary(r Record) (c ContributionSummary, err error) {
	var errs [4]error
	c.ReferenceDate, errs[0] = r.Date(ColReferenceDate)
	c.Currency, errs[1] = r.String(ColCurrency)
	c.OperationCode, errs[2] = r.String(ColOperationCode)
	c.TotalAmount, errs[3] = r.Number(ColTotalAmount)
	return c, errors.Join(errs[:]...)
}

// DecodeContributionDetail decodes a normalized detail row.
func DecodeContributionDetail(r Record) (c ContributionDetail, err error) {
	var errs [9]error
	c.OperationDate, errs[0] = r.Date(ColOperationDate)
	c.NavDate, errs[1] = r.Date(ColNavDate)
	c.Fund, errs[2] = r.String(ColFund)
	c.ExchangeRate, errs[3] = r.Number(ColExchangeRate)
	c.GrossAmount, errs[4] = r.Number(ColGrossAmount)
	c.Fees, errs[5] = r.Number(ColFees)
	c.NetAmount, errs[6] = r.Number(ColNetAmount)
	c.Units, errs[7] = r.Number(ColUnits)
	c.PricePerUnit, errs[8] = r.Number(ColPricePerUnit)
	return c, errors.Join(errs[:]...)
}

// DecodeBalanceSnapshot decodes a normalized balance row.
// The portal labels the price column either "Price per UNIT" or "Price per Unit".
func DecodeBalanceSnapshot(r Record) (b BalanceSnapshot, err error) {
	var errs [6]error
	b.Date, errs[0] = r.Date(ColBalanceNavDate)
	b.Currency, errs[1] = r.String(ColCurrency)
	b.Fund, errs[2] = r.String(ColFund)
	b.Amount, errs[3] = r.Number(ColAmount)
	b.TotalUnits, errs[4] = r.Number(ColTotalUnits)
	b.PricePerUnit, errs[5] = r.Number(ColBalancePrice)
	if _, ok := r.Numbers[ColBalancePrice]; !ok {
		b.PricePerUnit, errs[5] = r.Number(ColPricePerUnit)
	}
	return b, errors.Join(errs[:]...)
}
