// Package modkit provides module wiring and core deps
package modkit

import (
	"qrgate/internal/platform/bus"
	"qrgate/internal/platform/config"
	"qrgate/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	// Bus is nil when no broker is configured
	Bus bus.Publisher
}

// Publisher returns the bus publisher, or a no-op one when none is wired
func (d Deps) Publisher() bus.Publisher {
	if d.Bus == nil {
		return bus.Noop{}
	}
	return d.Bus
}
