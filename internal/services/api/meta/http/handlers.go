// Package http serves the meta endpoints: health, readiness, version and uptime
package http

import (
	stdctx "context"
	"net/http"
	"sync"
	"time"

	"qrgate/internal/core/version"
	"qrgate/internal/modkit/httpkit"
)

// CheckTimeout bounds each readiness check
const CheckTimeout = 2 * time.Second

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(stdctx.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx stdctx.Context) error { return f(ctx) }

// Check is one named readiness dependency; a nil Pinger is skipped
type Check struct {
	Name   string
	Pinger Pinger
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Checks      []Check
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
}

// ReadyCheck is the outcome of one check: ok, fail or skipped
type ReadyCheck struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// ReadyResponse is ok only when no check failed
type ReadyResponse struct {
	Status string       `json:"status"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ServiceResponse describes the running process
type ServiceResponse struct {
	Name    string `json:"name"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// ready runs every check concurrently; results keep the registration order
func (h *handlers) ready(r *http.Request) (any, error) {
	checks := make([]ReadyCheck, len(h.deps.Checks))
	var wg sync.WaitGroup
	for i, c := range h.deps.Checks {
		if c.Pinger == nil {
			checks[i] = ReadyCheck{Name: c.Name, Status: "skipped"}
			continue
		}
		wg.Add(1)
		go func(i int, c Check) {
			defer wg.Done()
			ctx, cancel := stdctx.WithTimeout(r.Context(), CheckTimeout)
			defer cancel()
			start := time.Now()
			rc := ReadyCheck{Name: c.Name, Status: "ok"}
			if err := c.Pinger.Ping(ctx); err != nil {
				rc.Status, rc.Error = "fail", err.Error()
			}
			rc.ElapsedMs = time.Since(start).Milliseconds()
			checks[i] = rc
		}(i, c)
	}
	wg.Wait()

	overall := "ok"
	for _, c := range checks {
		if c.Status == "fail" {
			overall = "fail"
		}
	}
	return ReadyResponse{
		Status: overall,
		Checks: checks,
		Now:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}
