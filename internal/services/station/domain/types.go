package domain

import (
	"time"

	"qrgate/internal/core/gate"

	"github.com/google/uuid"
)

// Rearm sources
const (
	SourceButton   = "button"
	SourceKey      = "key"
	SourceAPI      = "api"
	SourceTerminal = "terminal"
)

// Listener kinds
const (
	KindHTTP  = "http"
	KindLines = "lines"
	KindNATS  = "nats"
	KindKey   = "key"
)

// ListenerInfo describes one attached listener
type ListenerInfo struct {
	ID    uuid.UUID `json:"id"`
	Kind  string    `json:"kind"`
	Name  string    `json:"name"`
	Since time.Time `json:"since"`
}

// Snapshot is a point-in-time view of the station
type Snapshot struct {
	State          gate.State       `json:"state"`
	Variant        string           `json:"variant"`
	BaseURL        string           `json:"base_url"`
	Navigations    uint64           `json:"navigations"`
	Suppressed     uint64           `json:"suppressed"`
	Errors         uint64           `json:"errors"`
	LastNavigation *gate.Navigation `json:"last_navigation,omitempty"`
	Listeners      []ListenerInfo   `json:"listeners"`
	Since          time.Time        `json:"since"`
}

// PageConfig is what the station page needs to drive the camera decoder
type PageConfig struct {
	Variant            string `json:"variant"`
	RearmKey           string `json:"rearm_key"`
	ScanSuccessDelayMs int64  `json:"scan_success_delay_ms"`
	ScanAttemptDelayMs int64  `json:"scan_attempt_delay_ms"`
	Title              string `json:"title"`
	Heading            string `json:"heading"`
	HomeURL            string `json:"home_url"`
}

// ScanRequest carries one decoded payload; empty text is accepted and ignored
type ScanRequest struct {
	Text string `json:"text" validate:"max=8192"`
}

// ErrorRequest carries a scanner failure message
type ErrorRequest struct {
	Message string `json:"message" validate:"required,max=2048"`
}

// RearmRequest carries the re-arm trigger name
type RearmRequest struct {
	Source string `json:"source" validate:"omitempty,oneof=button key api terminal"`
}
