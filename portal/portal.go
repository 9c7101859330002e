// Package portal harvests the pension scheme holdings from the provider's web
// portal.
//
// The portal publishes no API: every URL but the front door is discovered in
// the responses. Authenticator performs the two-hop sign on, Harvester walks
// the holdings page and its transaction detail pages. Requests are strictly
// sequential, the server keeps navigational state in the session.
package portal

import (
	"context"
	"regexp"

	"github.com/etnz/dcps"
)

// Holdings menu tokens, as posted by the portal's own navigation form.
const (
	holdingsMenuToken    = "MAIN-APP-I-I-IOM"
	holdingsContentToken = "MAIN-APP-I-I-IWP-WEP"
)

// Landmark cells locating the tables.
var (
	balanceLandmark       = regexp.MustCompile("Balance at")
	yearDetailsLandmark   = regexp.MustCompile("Current Year Details")
	operationDateLandmark = regexp.MustCompile("Operation Date")
)

// Sink receives the harvested facts, one call per region.
type Sink interface {
	Upsert(ctx context.Context, kind dcps.Kind, facts ...dcps.Fact) error
}
