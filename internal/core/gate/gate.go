// Package gate turns a stream of decoded scan payloads into at most one
// navigation per arm cycle.
//
// A Gate starts armed. The first non-empty payload seen while armed builds
// a destination URL, disarms the gate and hands the URL to the Opener. Every
// payload after that is dropped until Rearm is called. Scanner failures go
// through OnError, which reports them and leaves the state alone.
//
// A Gate is not safe for concurrent use; callers serialise access (see the
// station service event loop).
package gate

import (
	"context"
	"fmt"
	"time"

	"qrgate/internal/core/urltmpl"
	perr "qrgate/internal/platform/errors"
	"qrgate/internal/platform/logger"

	"github.com/google/uuid"
)

// State is the arm state of a Gate
type State uint8

const (
	// StateArmed means the next non-empty decode is acted upon
	StateArmed State = iota
	// StateDisarmed means decodes are dropped until Rearm
	StateDisarmed
)

// String returns armed or disarmed
func (s State) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateDisarmed:
		return "disarmed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// MarshalText renders the state name in JSON payloads
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a state name
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "armed":
		*s = StateArmed
	case "disarmed":
		*s = StateDisarmed
	default:
		return perr.InvalidArgf("unknown gate state %q", string(b))
	}
	return nil
}

// Decision reasons
const (
	ReasonAccepted = "accepted"
	ReasonEmpty    = "empty"
	ReasonDisarmed = "disarmed"
)

// Navigation is one accepted decode turned into a URL to open
type Navigation struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	URL      string    `json:"url"`
	Target   string    `json:"target"`
	Features string    `json:"features,omitempty"`
	Variant  string    `json:"variant"`
	At       time.Time `json:"at"`
}

// Decision reports what OnResult did with a payload
type Decision struct {
	Accepted   bool        `json:"accepted"`
	Reason     string      `json:"reason"`
	State      State       `json:"state"`
	Navigation *Navigation `json:"navigation,omitempty"`
}

// Opener is the navigation capability
type Opener interface {
	Open(ctx context.Context, nav Navigation) error
}

// OpenerFunc adapts a function to Opener
type OpenerFunc func(ctx context.Context, nav Navigation) error

// Open calls f
func (f OpenerFunc) Open(ctx context.Context, nav Navigation) error { return f(ctx, nav) }

// Notifier surfaces errors to the user
type Notifier interface {
	Notify(ctx context.Context, err *ScanError)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, err *ScanError)

// Notify calls f
func (f NotifierFunc) Notify(ctx context.Context, err *ScanError) { f(ctx, err) }

// ScanError is any failure reported by the scanner capability, or a failed
// attempt to open an accepted navigation
type ScanError struct {
	Source string
	Err    error
}

// Error implements error
func (e *ScanError) Error() string {
	if e.Source == "" {
		return "scan error: " + errString(e.Err)
	}
	return "scan error (" + e.Source + "): " + errString(e.Err)
}

// Unwrap returns the cause
func (e *ScanError) Unwrap() error { return e.Err }

func errString(err error) string {
	if err == nil {
		return "unknown"
	}
	return err.Error()
}

// Config wires a Gate
type Config struct {
	BaseURL  string
	Variant  urltmpl.Variant
	Opener   Opener
	Notifier Notifier
	// Clock defaults to time.Now
	Clock func() time.Time
}

// Gate is the scan debounce and single-shot redirect state machine
type Gate struct {
	state  State
	base   string
	tmpl   urltmpl.Variant
	open   Opener
	notify Notifier
	now    func() time.Time
}

// New builds an armed Gate
func New(cfg Config) (*Gate, error) {
	if cfg.BaseURL == "" {
		return nil, perr.InvalidArgf("gate: base url is required")
	}
	if cfg.Variant.URL == nil {
		return nil, perr.InvalidArgf("gate: url template is required")
	}
	if cfg.Opener == nil {
		return nil, perr.InvalidArgf("gate: opener is required")
	}
	g := &Gate{
		state:  StateArmed,
		base:   cfg.BaseURL,
		tmpl:   cfg.Variant,
		open:   cfg.Opener,
		notify: cfg.Notifier,
		now:    cfg.Clock,
	}
	if g.notify == nil {
		g.notify = NotifierFunc(func(context.Context, *ScanError) {})
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g, nil
}

// State returns the current state
func (g *Gate) State() State { return g.state }

// Variant returns the configured URL template
func (g *Gate) Variant() urltmpl.Variant { return g.tmpl }

// BaseURL returns the configured base URL
func (g *Gate) BaseURL() string { return g.base }

// OnResult handles one decoded payload
func (g *Gate) OnResult(ctx context.Context, text string) Decision {
	if g.state != StateArmed {
		return Decision{Reason: ReasonDisarmed, State: g.state}
	}
	if text == "" {
		return Decision{Reason: ReasonEmpty, State: g.state}
	}

	nav := Navigation{
		ID:       uuid.New(),
		Text:     text,
		URL:      g.tmpl.Build(g.base, text),
		Target:   g.tmpl.Target,
		Features: g.tmpl.Features,
		Variant:  g.tmpl.Name,
		At:       g.now().UTC(),
	}

	// flip before the side effect so a re-entrant decode cannot open twice
	g.state = StateDisarmed

	if err := g.open.Open(ctx, nav); err != nil {
		logger.C(ctx).Warn().Err(err).Str("url", nav.URL).Msg("open navigation failed")
		g.OnError(ctx, &ScanError{Source: "opener", Err: err})
	}

	return Decision{Accepted: true, Reason: ReasonAccepted, State: g.state, Navigation: &nav}
}

// Rearm sets the gate armed; calling it while armed is a no-op
func (g *Gate) Rearm() State {
	g.state = StateArmed
	return g.state
}

// OnError reports a scanner failure without touching the arm state
func (g *Gate) OnError(ctx context.Context, err error) {
	se, ok := err.(*ScanError)
	if !ok {
		se = &ScanError{Source: "scanner", Err: err}
	}
	defer func() {
		if v := recover(); v != nil {
			logger.C(ctx).Error().Interface("panic", v).Msg("scan error notifier panicked")
		}
	}()
	g.notify.Notify(ctx, se)
}
