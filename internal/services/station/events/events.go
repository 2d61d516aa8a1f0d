// Package events fans station events out to page streams and the bus
package events

import (
	"context"
	"slices"
	"sync"
	"time"

	"qrgate/internal/core/gate"
	"qrgate/internal/platform/bus"
	"qrgate/internal/platform/logger"

	"github.com/google/uuid"
)

// Kind names an event
type Kind string

const (
	// KindState is sent whenever the gate changes state
	KindState Kind = "state"
	// KindNavigate asks the station page to open a URL
	KindNavigate Kind = "navigate"
	// KindAlert asks the station page to show a blocking notification
	KindAlert Kind = "alert"
)

// Subject maps a kind to its bus subject
func (k Kind) Subject() string {
	switch k {
	case KindNavigate:
		return bus.SubjectNavigate
	case KindAlert:
		return bus.SubjectAlert
	default:
		return bus.SubjectState
	}
}

// Event is one station event
type Event struct {
	ID         uuid.UUID        `json:"id"`
	Kind       Kind             `json:"kind"`
	State      gate.State       `json:"state"`
	Navigation *gate.Navigation `json:"navigation,omitempty"`
	Message    string           `json:"message,omitempty"`
	Source     string           `json:"source,omitempty"`
	At         time.Time        `json:"at"`
}

// New stamps an event with an id and time
func New(kind Kind, state gate.State) Event {
	return Event{ID: uuid.New(), Kind: kind, State: state, At: time.Now().UTC()}
}

// DefaultBuffer is the per-subscriber queue length
const DefaultBuffer = 16

// Role tells the hub what a subscriber does with events
type Role uint8

const (
	// RoleObserver receives every event and never opens navigations
	// (console banner, watch clients, test taps)
	RoleObserver Role = iota
	// RolePage is a scanner page that calls window.open on navigate
	RolePage
)

// ParseRole maps "page" to RolePage; anything else observes
func ParseRole(s string) Role {
	if s == "page" {
		return RolePage
	}
	return RoleObserver
}

type sub struct {
	ch   chan Event
	role Role
}

// Hub delivers events to in-process subscribers and the bus publisher.
// Slow subscribers drop events instead of blocking the station. A navigate
// event reaches every observer but only one page, the most recently
// connected one with room in its buffer
type Hub struct {
	mu   sync.Mutex
	subs map[uint64]sub
	next uint64
	buf  int
	pub  bus.Publisher
}

// NewHub builds a hub; a nil publisher means no bus
func NewHub(pub bus.Publisher, buf int) *Hub {
	if pub == nil {
		pub = bus.Noop{}
	}
	if buf <= 0 {
		buf = DefaultBuffer
	}
	return &Hub{subs: map[uint64]sub{}, buf: buf, pub: pub}
}

// Subscribe registers an observer; the returned func unregisters it and
// closes the channel
func (h *Hub) Subscribe() (<-chan Event, func()) { return h.SubscribeAs(RoleObserver) }

// SubscribePage registers a scanner page
func (h *Hub) SubscribePage() (<-chan Event, func()) { return h.SubscribeAs(RolePage) }

// SubscribeAs registers a subscriber with the given role
func (h *Hub) SubscribeAs(role Role) (<-chan Event, func()) {
	ch := make(chan Event, h.buf)
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = sub{ch: ch, role: role}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			close(ch)
			h.mu.Unlock()
		})
	}
}

// Subscribers returns the number of live subscribers of any role
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Pages returns the number of live page subscribers
func (h *Hub) Pages() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, s := range h.subs {
		if s.role == RolePage {
			n++
		}
	}
	return n
}

// Publish delivers ev and returns how many pages received it. Observers are
// not counted, so a zero means no page saw the event
func (h *Hub) Publish(ctx context.Context, ev Event) int {
	pages := 0
	h.mu.Lock()
	var pageIDs []uint64
	for id, s := range h.subs {
		if s.role == RolePage && ev.Kind == KindNavigate {
			pageIDs = append(pageIDs, id)
			continue
		}
		select {
		case s.ch <- ev:
			if s.role == RolePage {
				pages++
			}
		default:
		}
	}
	// newest page first
	slices.Sort(pageIDs)
	for i := len(pageIDs) - 1; i >= 0 && pages == 0; i-- {
		select {
		case h.subs[pageIDs[i]].ch <- ev:
			pages = 1
		default:
		}
	}
	h.mu.Unlock()

	if err := h.pub.Publish(ctx, ev.Kind.Subject(), ev); err != nil {
		logger.C(ctx).Warn().Err(err).Str("kind", string(ev.Kind)).Msg("bus publish failed")
	}
	return pages
}
