// Package service runs the station event loop that owns the scan gate
package service

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"qrgate/internal/core/gate"
	"qrgate/internal/core/urltmpl"
	perr "qrgate/internal/platform/errors"
	"qrgate/internal/platform/logger"
	"qrgate/internal/services/station/domain"
	"qrgate/internal/services/station/events"

	"github.com/google/uuid"
)

// Config configures the station
type Config struct {
	BaseURL   string
	Variant   urltmpl.Variant
	QueueSize int
}

type cmdKind uint8

const (
	cmdResult cmdKind = iota
	cmdError
	cmdRearm
	cmdSnapshot
)

type command struct {
	kind   cmdKind
	handle uuid.UUID
	text   string
	err    error
	source string
	reply  chan reply
}

type reply struct {
	decision gate.Decision
	snap     domain.Snapshot
	err      error
}

// Svc serialises every station event onto one goroutine. Handles may be
// used from any goroutine; only Run touches the gate
type Svc struct {
	gate *gate.Gate
	hub  *events.Hub

	cmds    chan command
	done    chan struct{}
	running atomic.Bool
	stopped atomic.Bool

	mu      sync.Mutex
	handles map[uuid.UUID]*Handle

	// loop-owned
	navigations uint64
	suppressed  uint64
	errs        uint64
	last        *gate.Navigation
	since       time.Time
}

// New builds a station around an opener. Events are published on hub
func New(cfg Config, hub *events.Hub, opener gate.Opener) (*Svc, error) {
	if hub == nil {
		return nil, perr.InvalidArgf("station: hub is required")
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	s := &Svc{
		hub:     hub,
		cmds:    make(chan command, cfg.QueueSize),
		done:    make(chan struct{}),
		handles: map[uuid.UUID]*Handle{},
		since:   time.Now().UTC(),
	}
	g, err := gate.New(gate.Config{
		BaseURL:  cfg.BaseURL,
		Variant:  cfg.Variant,
		Opener:   opener,
		Notifier: gate.NotifierFunc(s.alert),
	})
	if err != nil {
		return nil, err
	}
	s.gate = g
	return s, nil
}

// Run processes events until ctx is done, then releases every attached handle
func (s *Svc) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return perr.Conflictf("station: already running")
	}
	log := logger.Named("station")
	log.Info().
		Str("state", s.gate.State().String()).
		Str("variant", s.gate.Variant().Name).
		Str("base_url", s.gate.BaseURL()).
		Msg("station loop started")

	defer func() {
		s.stopped.Store(true)
		close(s.done)
		s.releaseAll()
		log.Info().Msg("station loop stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-s.cmds:
			c.reply <- s.apply(ctx, c)
		}
	}
}

func (s *Svc) apply(ctx context.Context, c command) reply {
	h, ok := s.lookup(c.handle)
	if !ok {
		return reply{err: perr.Unavailablef("station: listener detached")}
	}
	log := logger.C(ctx).With().Str("listener", h.kind).Str("listener_name", h.name).Logger()

	switch c.kind {
	case cmdResult:
		d := s.gate.OnResult(ctx, c.text)
		if d.Accepted {
			s.navigations++
			s.last = d.Navigation
			log.Info().Str("url", d.Navigation.URL).Str("nav_id", d.Navigation.ID.String()).Msg("decode accepted")
			ev := events.New(events.KindState, d.State)
			ev.Navigation = d.Navigation
			ev.Source = h.kind
			s.hub.Publish(ctx, ev)
		} else {
			s.suppressed++
			log.Debug().Str("reason", d.Reason).Msg("decode suppressed")
		}
		return reply{decision: d}

	case cmdError:
		s.gate.OnError(ctx, &gate.ScanError{Source: h.kind, Err: c.err})
		return reply{}

	case cmdRearm:
		before := s.gate.State()
		after := s.gate.Rearm()
		log.Info().Str("source", c.source).Str("from", before.String()).Msg("rearm")
		if before != after {
			ev := events.New(events.KindState, after)
			ev.Source = c.source
			s.hub.Publish(ctx, ev)
		}
		return reply{snap: s.snapshot()}

	case cmdSnapshot:
		return reply{snap: s.snapshot()}
	}
	return reply{err: perr.Internalf("station: unknown command %d", c.kind)}
}

// alert is the gate notifier; it runs on the loop goroutine
func (s *Svc) alert(ctx context.Context, se *gate.ScanError) {
	s.errs++
	logger.C(ctx).Warn().Err(se.Err).Str("source", se.Source).Msg("scan error")
	ev := events.New(events.KindAlert, s.gate.State())
	ev.Message = se.Error()
	ev.Source = se.Source
	s.hub.Publish(ctx, ev)
}

func (s *Svc) snapshot() domain.Snapshot {
	s.mu.Lock()
	ls := make([]domain.ListenerInfo, 0, len(s.handles))
	for _, h := range s.handles {
		ls = append(ls, domain.ListenerInfo{ID: h.id, Kind: h.kind, Name: h.name, Since: h.since})
	}
	s.mu.Unlock()
	sort.Slice(ls, func(i, j int) bool { return ls[i].Since.Before(ls[j].Since) })

	return domain.Snapshot{
		State:          s.gate.State(),
		Variant:        s.gate.Variant().Name,
		BaseURL:        s.gate.BaseURL(),
		Navigations:    s.navigations,
		Suppressed:     s.suppressed,
		Errors:         s.errs,
		LastNavigation: s.last,
		Listeners:      ls,
		Since:          s.since,
	}
}

// Running reports whether the loop is accepting events
func (s *Svc) Running() bool { return s.running.Load() && !s.stopped.Load() }

// Attach registers a listener of the given kind. Release the handle when the
// source stops; handles still attached when Run returns are released then
func (s *Svc) Attach(kind, name string) *Handle {
	h := &Handle{id: uuid.New(), kind: kind, name: name, svc: s, since: time.Now().UTC()}
	s.mu.Lock()
	s.handles[h.id] = h
	s.mu.Unlock()
	if s.stopped.Load() {
		h.Release()
	}
	return h
}

func (s *Svc) lookup(id uuid.UUID) (*Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handles[id]
	return h, ok
}

func (s *Svc) detach(id uuid.UUID) {
	s.mu.Lock()
	delete(s.handles, id)
	s.mu.Unlock()
}

func (s *Svc) releaseAll() {
	s.mu.Lock()
	hs := make([]*Handle, 0, len(s.handles))
	for _, h := range s.handles {
		hs = append(hs, h)
	}
	s.mu.Unlock()
	for _, h := range hs {
		h.Release()
	}
}

func (s *Svc) submit(ctx context.Context, c command) (reply, error) {
	c.reply = make(chan reply, 1)
	select {
	case <-ctx.Done():
		return reply{}, perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "station: submit cancelled")
	case <-s.done:
		return reply{}, perr.Unavailablef("station: stopped")
	case s.cmds <- c:
	}
	select {
	case <-ctx.Done():
		return reply{}, perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "station: reply cancelled")
	case <-s.done:
		// the loop may have answered right before stopping
		select {
		case r := <-c.reply:
			return r, r.err
		default:
			return reply{}, perr.Unavailablef("station: stopped")
		}
	case r := <-c.reply:
		return r, r.err
	}
}
