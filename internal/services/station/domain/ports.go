// Package domain holds station types and ports
package domain

import (
	"context"

	"qrgate/internal/core/gate"
)

// Listener is a scoped connection from one event source to the station.
// Calls after Release fail with an unavailable error and never reach the gate
type Listener interface {
	Result(ctx context.Context, text string) (gate.Decision, error)
	Error(ctx context.Context, err error) error
	Rearm(ctx context.Context, source string) (Snapshot, error)
	Snapshot(ctx context.Context) (Snapshot, error)
	Release()
}

// Attacher hands out listeners
type Attacher interface {
	Attach(kind, name string) Listener
}

// Runner owns the station event loop
type Runner interface {
	Run(ctx context.Context) error
}
