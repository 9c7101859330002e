package portal

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/etnz/dcps"
	"github.com/etnz/dcps/date"
	"github.com/etnz/dcps/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func login(t *testing.T, f *fakePortal) *Session {
	t.Helper()
	a, err := NewAuthenticator(nil)
	require.NoError(t, err)
	s, err := a.Login(context.Background(), f.Credentials())
	require.NoError(t, err)
	return s
}

func TestHarvest(t *testing.T) {
	f := newFakePortal(t)
	sink := &memorySink{}
	h := &Harvester{Session: login(t, f), Sink: sink}

	res, err := h.Harvest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []dcps.Kind{dcps.PriorYearBalance, dcps.Contributions, dcps.ContributionDetails, dcps.CurrentBalance}, sink.calls)

	require.Len(t, res.PriorYear, 1)
	assert.Equal(t, dcps.BalanceSnapshot{
		Date: date.MustParse("31/12/2023"), Currency: "EUR", Fund: "Equity Fund",
		Amount: 1000, TotalUnits: 10, PricePerUnit: 100,
	}, res.PriorYear[0])
	require.Len(t, res.Current, 1)
	assert.Equal(t, 1100.0, res.Current[0].Amount)

	assert.Len(t, res.Contributions, 3)
	assert.Equal(t, "Employer", res.Contributions[0].OperationCode)

	// two distinct pages fetched in sorted order
	require.Len(t, res.Details, 2)
	assert.Equal(t, date.MustParse("15/01/2024"), res.Details[0].OperationDate)
	assert.Equal(t, 2.5, res.Details[1].Units)
	assert.Equal(t, []string{
		"POST /signon", "POST /sub/login", "POST /sub/menu", "GET /sub/detail", "GET /sub/detail",
	}, f.Requests())
}

func TestHarvestIntoLedger(t *testing.T) {
	ctx := context.Background()
	l, err := ledger.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer l.Close()

	f := newFakePortal(t)
	h := &Harvester{Session: login(t, f), Sink: l}
	_, err = h.Harvest(ctx)
	require.NoError(t, err)

	var snapshots []dcps.BalanceSnapshot
	for _, kind := range []dcps.Kind{dcps.PriorYearBalance, dcps.CurrentBalance} {
		b, err := l.Balances(ctx, kind)
		require.NoError(t, err)
		snapshots = append(snapshots, b...)
	}
	require.Len(t, snapshots, 2)
	assert.NotEqual(t, snapshots[0].Date.Unix(), snapshots[1].Date.Unix())
	assert.NotEqual(t, snapshots[0].Amount, snapshots[1].Amount)

	balance, err := l.LatestBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1100.0, balance)

	total, err := l.ContributionsTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 750.0, total)

	// harvesting again changes nothing
	h = &Harvester{Session: login(t, f), Sink: l}
	_, err = h.Harvest(ctx)
	require.NoError(t, err)
	for _, kind := range dcps.Kinds {
		n, err := l.Count(ctx, kind)
		require.NoError(t, err)
		assert.Equal(t, map[dcps.Kind]int{
			dcps.PriorYearBalance: 1, dcps.Contributions: 3, dcps.ContributionDetails: 2, dcps.CurrentBalance: 1,
		}[kind], n, kind.String())
	}
}

func TestHarvestStructuralChange(t *testing.T) {
	f := newFakePortal(t)
	f.Holdings = strings.Replace(f.Holdings, "Balance at 01/03/2024", "Position at 01/03/2024", 1)
	sink := &memorySink{}
	h := &Harvester{Session: login(t, f), Sink: sink}

	_, err := h.Harvest(context.Background())
	assert.ErrorIs(t, err, dcps.ErrStructuralChange)
	assert.Empty(t, sink.calls, "nothing forwarded")
}

func TestHarvestMissingDetailTable(t *testing.T) {
	f := newFakePortal(t)
	f.Details["2"] = `<html><body><p>Session expired</p></body></html>`
	sink := &memorySink{}
	h := &Harvester{Session: login(t, f), Sink: sink}

	_, err := h.Harvest(context.Background())
	assert.ErrorIs(t, err, dcps.ErrStructuralChange)
	// regions completed before the failure were forwarded, no partial details
	assert.Equal(t, []dcps.Kind{dcps.PriorYearBalance, dcps.Contributions}, sink.calls)
}

func TestHarvestBadNumber(t *testing.T) {
	f := newFakePortal(t)
	f.Holdings = holdingsPage("1,000.00", "n/a")
	h := &Harvester{Session: login(t, f)}

	_, err := h.Harvest(context.Background())
	var ferr *dcps.FormatError
	assert.ErrorAs(t, err, &ferr)
	assert.Equal(t, "n/a", ferr.Value)
}

func TestHarvestSinkFailure(t *testing.T) {
	f := newFakePortal(t)
	boom := errors.New("disk full")
	h := &Harvester{Session: login(t, f), Sink: &memorySink{err: boom}}

	_, err := h.Harvest(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestHarvestNoHoldingsMenu(t *testing.T) {
	f := newFakePortal(t)
	s := login(t, f)
	s.landing.Doc.Find("input").Remove()

	_, err := (&Harvester{Session: s}).Harvest(context.Background())
	assert.ErrorIs(t, err, dcps.ErrStructuralChange)
}

func TestRecorder(t *testing.T) {
	f := newFakePortal(t)
	dir := t.TempDir()
	a, err := NewAuthenticator(&Recorder{Dir: dir})
	require.NoError(t, err)
	_, err = a.Login(context.Background(), f.Credentials())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "001-POST-"))
	content, err := os.ReadFile(dir + "/" + entries[1].Name())
	require.NoError(t, err)
	assert.Contains(t, string(content), "f-token")
}
