package portal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/etnz/dcps"
	"github.com/etnz/dcps/logger"
	"golang.org/x/net/publicsuffix"
)

const (
	tokenField        = "token-authentication"
	passwordResetMark = "Your TEMPORARY first-access password"
)

// State of the authentication handshake.
type State int

const (
	Unauthenticated         State = iota
	PendingSubTokenExchange       // front door accepted, token not exchanged yet
	Authenticated                 // terminal
	Rejected                      // terminal
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case PendingSubTokenExchange:
		return "pending sub-token exchange"
	case Authenticated:
		return "authenticated"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// Credentials to sign on the portal front door.
type Credentials struct {
	URL      string // portal front door, the only hardcoded address
	ID       string
	Password string
}

// Validate checks that every credential is set.
func (c Credentials) Validate() error {
	var missing []string
	if c.URL == "" {
		missing = append(missing, "url")
	}
	if c.ID == "" {
		missing = append(missing, "id")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return errors.New("missing credentials: " + strings.Join(missing, ", "))
	}
	if _, err := url.ParseRequestURI(c.URL); err != nil {
		return fmt.Errorf("invalid portal url %q: %w", c.URL, err)
	}
	return nil
}

// Handoff is what the front door hands over to sign on the sub-site: the
// hidden token and the form action it must be posted to.
type Handoff struct {
	Token  string
	Action *url.URL
}

// DiscoverHandoff finds the hidden authentication token and its form action
// in a front door response served from base.
func DiscoverHandoff(base *url.URL, body io.Reader) (Handoff, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return Handoff{}, fmt.Errorf("%w: cannot parse front door response: %w", dcps.ErrAuthentication, err)
	}
	return discoverHandoff(&page{URL: base, Doc: doc})
}

func discoverHandoff(p *page) (Handoff, error) {
	input := p.Doc.Find(`input[name="` + tokenField + `"]`).First()
	token := strings.TrimSpace(input.AttrOr("value", ""))
	if input.Length() == 0 || token == "" {
		return Handoff{}, fmt.Errorf("%w: no authentication token in front door response", dcps.ErrAuthentication)
	}
	action, ok := input.Closest("form").Attr("action")
	if !ok || strings.TrimSpace(action) == "" {
		return Handoff{}, fmt.Errorf("%w: authentication token has no form action", dcps.ErrAuthentication)
	}
	u, err := p.resolve(action)
	if err != nil {
		return Handoff{}, fmt.Errorf("%w: %w", dcps.ErrAuthentication, err)
	}
	return Handoff{Token: token, Action: u}, nil
}

// CheckLanding rejects a sub-site landing page that mandates a password change.
func CheckLanding(body []byte) error {
	if bytes.Contains(body, []byte(passwordResetMark)) {
		return dcps.ErrPasswordReset
	}
	return nil
}

// Authenticator runs the two-hop sign on. It is single use: one
// Authenticator per run, no retry.
type Authenticator struct {
	client *http.Client
	state  State
}

// NewAuthenticator creates an Authenticator whose session cookies go
// through transport (http.DefaultTransport if nil). The http client keeps
// its default, absent, timeout.
func NewAuthenticator(transport http.RoundTripper) (*Authenticator, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cannot create cookie jar: %w", err)
	}
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Authenticator{client: &http.Client{Jar: jar, Transport: transport}}, nil
}

// State returns the current handshake state.
func (a *Authenticator) State() State { return a.state }

// Login signs on the front door, then exchanges the discovered token on the
// sub-site. Any deviation rejects the Authenticator for good.
func (a *Authenticator) Login(ctx context.Context, creds Credentials) (*Session, error) {
	if a.state != Unauthenticated {
		return nil, fmt.Errorf("%w: login already attempted (%s)", dcps.ErrAuthentication, a.state)
	}
	if err := creds.Validate(); err != nil {
		a.state = Rejected
		return nil, fmt.Errorf("%w: %w", dcps.ErrAuthentication, err)
	}
	log := logger.FromContext(ctx)

	front, err := postForm(ctx, a.client, creds.URL, url.Values{
		"id":     {creds.ID},
		"pw":     {creds.Password},
		"submit": {"SIGN ON"},
	})
	if err != nil {
		a.state = Rejected
		return nil, fmt.Errorf("%w: %w", dcps.ErrAuthentication, err)
	}
	handoff, err := discoverHandoff(front)
	if err != nil {
		a.state = Rejected
		return nil, err
	}
	a.state = PendingSubTokenExchange
	log.Debug().Str("action", handoff.Action.String()).Msg("front door accepted credentials")

	landing, err := postForm(ctx, a.client, handoff.Action.String(), url.Values{
		tokenField: {handoff.Token},
		"ecol":     {"Go To My Dcps"},
	})
	if err != nil {
		a.state = Rejected
		return nil, fmt.Errorf("%w: %w", dcps.ErrAuthentication, err)
	}
	if err := CheckLanding(landing.Body); err != nil {
		a.state = Rejected
		return nil, err
	}
	a.state = Authenticated
	log.Info().Str("landing", landing.URL.String()).Msg("authenticated")
	return &Session{client: a.client, landing: landing}, nil
}

// Session is an authenticated client bound to the landing page, whose URL
// resolves the relative links found later on.
type Session struct {
	client  *http.Client
	landing *page
}

// URL returns the landing page URL.
func (s *Session) URL() *url.URL { return s.landing.URL }
