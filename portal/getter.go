package portal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/etnz/dcps/logger"
	"golang.org/x/net/html/charset"
)

// page is a fetched portal page.
type page struct {
	URL  *url.URL // final URL, after redirects
	Body []byte   // utf-8 body
	Doc  *goquery.Document
}

// resolve returns ref resolved against the page URL.
func (p *page) resolve(ref string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, fmt.Errorf("invalid link %q: %w", ref, err)
	}
	return p.URL.ResolveReference(u), nil
}

// get little helper to retrieve a page.
func get(ctx context.Context, client *http.Client, uri string) (*page, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create http request %q: %w", uri, err)
	}
	return do(client, r)
}

// postForm submits a url-encoded form and retrieves the resulting page.
func postForm(ctx context.Context, client *http.Client, uri string, form url.Values) (*page, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("cannot create http request %q: %w", uri, err)
	}
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(client, r)
}

func do(client *http.Client, r *http.Request) (*page, error) {
	log := logger.FromContext(r.Context())
	log.Debug().Str("method", r.Method).Str("url", r.URL.String()).Msg("querying")

	resp, err := client.Do(r)
	if err != nil {
		return nil, fmt.Errorf("cannot execute http request: %w", err)
	}
	defer resp.Body.Close()
	log.Debug().Str("url", resp.Request.URL.String()).Str("status", resp.Status).Msg("received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cannot http %s %v/%v: %v", r.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("cannot decode http body: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return nil, fmt.Errorf("cannot read receiving http body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("cannot parse html from %v: %w", resp.Request.URL, err)
	}
	return &page{URL: resp.Request.URL, Body: buf.Bytes(), Doc: doc}, nil
}
