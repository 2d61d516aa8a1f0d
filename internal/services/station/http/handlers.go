// Package http provides http transport for the scan station
package http

import (
	stderrs "errors"
	stdhttp "net/http"

	"qrgate/internal/modkit/httpkit"
	"qrgate/internal/platform/net/http/bind"
	"qrgate/internal/services/station/domain"
)

// Deps are the handler dependencies
type Deps struct {
	Listener domain.Listener
	Page     domain.PageConfig
}

// Register mounts the station API routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{l: d.Listener, page: d.Page}
	httpkit.Get(r, "/state", h.state)
	httpkit.Get(r, "/config", h.config)
	httpkit.PostJSON[domain.ScanRequest](r, "/scan", h.scan)
	httpkit.PostJSON[domain.ErrorRequest](r, "/error", h.scanError)
	r.Post("/rearm", httpkit.Handle(h.rearm))
}

type handlers struct {
	l    domain.Listener
	page domain.PageConfig
}

// state returns the snapshot with its counters
func (h *handlers) state(r *stdhttp.Request) (any, error) {
	return h.l.Snapshot(r.Context())
}

func (h *handlers) config(_ *stdhttp.Request) (any, error) {
	return h.page, nil
}

// scan feeds one decoded payload to the gate; empty text is a no-op
func (h *handlers) scan(r *stdhttp.Request, in domain.ScanRequest) (any, error) {
	return h.l.Result(r.Context(), in.Text)
}

// scanError reports a scanner failure, which never changes the gate state
func (h *handlers) scanError(r *stdhttp.Request, in domain.ErrorRequest) (any, error) {
	if err := h.l.Error(r.Context(), stderrs.New(in.Message)); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// rearm takes an optional body; a missing source counts as api
func (h *handlers) rearm(r *stdhttp.Request) httpkit.Response {
	in, err := bind.ParseJSON[domain.RearmRequest](r, bind.JSONOptions{
		MaxBytes:        4 << 10,
		DisallowUnknown: true,
		AllowEmptyBody:  true,
	})
	if err != nil {
		return httpkit.Error(err)
	}
	if in.Source == "" {
		in.Source = domain.SourceAPI
	}
	snap, err := h.l.Rearm(r.Context(), in.Source)
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.OK(snap)
}
