// Package opener provides the navigation capability used by the scan gate.
// Page hands the URL to the station page over the event stream; Browser
// opens it on the station host
package opener

import (
	"context"

	"qrgate/internal/core/gate"
	perr "qrgate/internal/platform/errors"
	"qrgate/internal/platform/logger"
	"qrgate/internal/services/station/events"

	"github.com/pkg/browser"
)

// Kinds accepted by New
const (
	KindPage    = "page"
	KindBrowser = "browser"
)

// Kinds lists the opener names
func Kinds() []string { return []string{KindPage, KindBrowser} }

// New returns the opener for kind
func New(kind string, hub *events.Hub) (gate.Opener, error) {
	switch kind {
	case KindPage, "":
		return NewPage(hub), nil
	case KindBrowser:
		return Browser{}, nil
	default:
		return nil, perr.InvalidArgf("unknown opener %q", kind)
	}
}

// Page publishes a navigate event; the hub hands it to one scanner page,
// which calls window.open with it. Observers such as the console banner
// see the event too but do not count as a page
type Page struct {
	hub *events.Hub
}

// NewPage builds a page opener on hub
func NewPage(hub *events.Hub) *Page { return &Page{hub: hub} }

// Open fails with ErrorCodeUnavailable when no scanner page received it
func (p *Page) Open(ctx context.Context, nav gate.Navigation) error {
	ev := events.New(events.KindNavigate, gate.StateDisarmed)
	ev.Navigation = &nav
	if n := p.hub.Publish(ctx, ev); n == 0 {
		return perr.Unavailablef("no scanner page connected to open %s", nav.URL)
	}
	return nil
}

// openURL is the host browser seam
var openURL = browser.OpenURL

// Browser opens navigations in the host's default browser. Target and
// window features only apply to the page opener
type Browser struct{}

// Open launches the URL
func (Browser) Open(ctx context.Context, nav gate.Navigation) error {
	logger.C(ctx).Debug().Str("url", nav.URL).Msg("opening in host browser")
	if err := openURL(nav.URL); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "open %s", nav.URL)
	}
	return nil
}
