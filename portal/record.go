package portal

import (
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/etnz/dcps/logger"
)

// Recorder is a RoundTripper dumping every response to Dir, to inspect the
// pages when the portal layout drifts. It never replays anything.
type Recorder struct {
	Base http.RoundTripper // http.DefaultTransport if nil
	Dir  string

	n atomic.Int64
}

func (r *Recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	base := r.Base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	// a failure to record never fails the request.
	if err := r.put(req, resp); err != nil {
		logger.FromContext(req.Context()).Warn().Err(err).Msg("cannot record response (ignored)")
	}
	return resp, nil
}

// put stores a response to disk, prefixed by its sequence number.
func (r *Recorder) put(req *http.Request, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%s %s", req.Method, req.URL.String())
	name := fmt.Sprintf("%03d-%s-%x.http", r.n.Add(1), req.Method, sha1.Sum([]byte(key)))
	if err := os.MkdirAll(r.Dir, 0o700); err != nil {
		return err
	}
	file := filepath.Join(r.Dir, name)
	logger.FromContext(req.Context()).Debug().Str("file", file).Msg("recorded response")
	return os.WriteFile(file, content, 0o600)
}
