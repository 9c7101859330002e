package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/etnz/dcps"
)

const (
	testID       = "12345"
	testPassword = "secret"
	testToken    = "abc-123"
)

// fakePortal serves a minimal rendition of the provider's portal.
type fakePortal struct {
	*httptest.Server

	NoToken       bool   // front door omits the hidden token
	PasswordReset bool   // landing page asks for a new password
	Holdings      string // holdings page body
	Details       map[string]string

	mu       sync.Mutex
	requests []string
}

func newFakePortal(t *testing.T) *fakePortal {
	t.Helper()
	f := &fakePortal{
		Holdings: holdingsPage("1,000.00", "1,100.00"),
		Details: map[string]string{
			"1": detailPage(detailRow("15/01/2024", "Equity Fund", "500.00", "5.000", "100.00")),
			"2": detailPage(detailRow("15/02/2024", "Equity Fund", "250.00", "2.500", "100.00")),
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /signon", f.signon)
	mux.HandleFunc("POST /sub/login", f.login)
	mux.HandleFunc("POST /sub/menu", f.menu)
	mux.HandleFunc("GET /sub/detail", f.detail)
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakePortal) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakePortal) Credentials() Credentials {
	return Credentials{URL: f.URL + "/signon", ID: testID, Password: testPassword}
}

func (f *fakePortal) signon(w http.ResponseWriter, r *http.Request) {
	if r.PostFormValue("id") != testID || r.PostFormValue("pw") != testPassword || r.PostFormValue("submit") != "SIGN ON" {
		fmt.Fprint(w, `<html><body><p>Invalid credentials</p></body></html>`)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "front", Value: "1", Path: "/"})
	if f.NoToken {
		fmt.Fprint(w, `<html><body><form action="/sub/login" method="post"><input type="submit"></form></body></html>`)
		return
	}
	fmt.Fprintf(w, `<html><body><form action="/sub/login" method="post">
<input type="hidden" name="token-authentication" value="%s">
<input type="submit" name="ecol" value="Go To My Dcps">
</form></body></html>`, testToken)
}

func (f *fakePortal) login(w http.ResponseWriter, r *http.Request) {
	if r.PostFormValue(tokenField) != testToken || r.PostFormValue("ecol") != "Go To My Dcps" {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if c, err := r.Cookie("front"); err != nil || c.Value != "1" {
		http.Error(w, "no session", http.StatusForbidden)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "sub", Value: "1", Path: "/sub"})
	if f.PasswordReset {
		fmt.Fprint(w, `<html><body><p>Your TEMPORARY first-access password has expired.</p></body></html>`)
		return
	}
	fmt.Fprintf(w, `<html><body><form action="menu" method="post">
<input type="hidden" name="f-token" value="%s">
</form></body></html>`, holdingsMenuToken)
}

func (f *fakePortal) menu(w http.ResponseWriter, r *http.Request) {
	if r.PostFormValue("f-token") != holdingsMenuToken || r.PostFormValue("c-token") != holdingsContentToken || r.PostFormValue("a-token") != "null" {
		http.Error(w, "bad menu", http.StatusBadRequest)
		return
	}
	if _, err := r.Cookie("sub"); err != nil {
		http.Error(w, "no session", http.StatusForbidden)
		return
	}
	fmt.Fprint(w, f.Holdings)
}

func (f *fakePortal) detail(w http.ResponseWriter, r *http.Request) {
	body, ok := f.Details[r.URL.Query().Get("id")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	fmt.Fprint(w, body)
}

func balanceTable(title, day, amount, price string) string {
	return `<table>
<tr><td colspan="6">` + title + `</td></tr>
<tr><th>NAV date</th><th>Currency</th><th>Fund</th><th>Amount</th><th>Total Units</th><th>Price per UNIT</th></tr>
<tr><td>` + day + `</td><td>EUR</td><td>Equity Fund</td><td>` + amount + `</td><td>10.000</td><td>` + price + `</td></tr>
<tr><td colspan="3">Total</td><td>` + amount + `</td><td></td><td></td></tr>
</table>`
}

// holdingsPage renders the holdings page, wrapped in a layout table.
func holdingsPage(prior, current string) string {
	return `<html><body><table><tr><td>
` + balanceTable("Balance at 31/12/2023", "31/12/2023", prior, "100.00") + `
<table>
<tr><td colspan="4">Current Year Details</td></tr>
<tr><th>Reference Date</th><th>Currency</th><th>Operation Code</th><th>Total Amount</th></tr>
<tr><td><a href="detail?id=2">31/01/2024</a></td><td>EUR</td><td>Employer</td><td>250.00</td></tr>
<tr><td><a href="detail?id=1">15/01/2024</a></td><td>EUR</td><td>Employee</td><td>500.00</td></tr>
<tr><td><a href="detail?id=1">15/01/2024</a></td><td>EUR</td><td>Transfer</td><td>0.00</td></tr>
</table>
` + balanceTable("Balance at 01/03/2024", "01/03/2024", current, "110.00") + `
</td></tr></table></body></html>`
}

func detailRow(op, fund, amount, units, price string) string {
	return `<tr><td>` + op + `</td><td>` + op + `</td><td>` + fund + `</td><td>1.0000</td><td>` + amount +
		`</td><td>0.00</td><td>` + amount + `</td><td>` + units + `</td><td>` + price + `</td></tr>`
}

func detailPage(rows ...string) string {
	return `<html><body><table>
<tr><th>Operation Date</th><th>Nav Date</th><th>Fund</th><th>Exchange Rate</th><th>Gross Amount Inv/Dis</th><th>Fees (*)</th><th>Net Amount Inv/Dis</th><th>No. of Units</th><th>Price per Unit</th></tr>
` + strings.Join(rows, "\n") + `
</table></body></html>`
}

// memorySink records every Upsert call.
type memorySink struct {
	calls []dcps.Kind
	facts map[dcps.Kind][]dcps.Fact
	err   error
}

func (s *memorySink) Upsert(_ context.Context, kind dcps.Kind, facts ...dcps.Fact) error {
	if s.err != nil {
		return s.err
	}
	if s.facts == nil {
		s.facts = make(map[dcps.Kind][]dcps.Fact)
	}
	s.calls = append(s.calls, kind)
	s.facts[kind] = append(s.facts[kind], facts...)
	return nil
}
