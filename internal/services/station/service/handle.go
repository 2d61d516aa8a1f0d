package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"qrgate/internal/core/gate"
	perr "qrgate/internal/platform/errors"
	"qrgate/internal/platform/logger"
	"qrgate/internal/services/station/domain"

	"github.com/google/uuid"
)

// Handle is one attached event source. Calls after Release fail with
// ErrorCodeUnavailable and never reach the gate
type Handle struct {
	id    uuid.UUID
	kind  string
	name  string
	since time.Time
	svc   *Svc

	released atomic.Bool
	once     sync.Once
}

var _ domain.Listener = (*Handle)(nil)

// ID returns the listener id
func (h *Handle) ID() uuid.UUID { return h.id }

// Kind returns the listener kind
func (h *Handle) Kind() string { return h.kind }

// Released reports whether Release has been called
func (h *Handle) Released() bool { return h.released.Load() }

// Result delivers a decoded payload
func (h *Handle) Result(ctx context.Context, text string) (gate.Decision, error) {
	if h.released.Load() {
		return gate.Decision{}, perr.Unavailablef("station: listener released")
	}
	r, err := h.svc.submit(ctx, command{kind: cmdResult, handle: h.id, text: text})
	return r.decision, err
}

// Error delivers a scanner failure
func (h *Handle) Error(ctx context.Context, cause error) error {
	if h.released.Load() {
		return perr.Unavailablef("station: listener released")
	}
	_, err := h.svc.submit(ctx, command{kind: cmdError, handle: h.id, err: cause})
	return err
}

// Rearm arms the gate again; source names the control that asked for it
func (h *Handle) Rearm(ctx context.Context, source string) (domain.Snapshot, error) {
	if h.released.Load() {
		return domain.Snapshot{}, perr.Unavailablef("station: listener released")
	}
	if source == "" {
		source = h.kind
	}
	r, err := h.svc.submit(ctx, command{kind: cmdRearm, handle: h.id, source: source})
	return r.snap, err
}

// Snapshot reads the station state through the loop
func (h *Handle) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	if h.released.Load() {
		return domain.Snapshot{}, perr.Unavailablef("station: listener released")
	}
	r, err := h.svc.submit(ctx, command{kind: cmdSnapshot, handle: h.id})
	return r.snap, err
}

// Release detaches the listener. Safe to call more than once
func (h *Handle) Release() {
	h.once.Do(func() {
		h.released.Store(true)
		h.svc.detach(h.id)
		logger.Named("station").Debug().
			Str("listener", h.kind).
			Str("listener_name", h.name).
			Dur("attached_for", time.Since(h.since)).
			Msg("listener released")
	})
}
