package module

import (
	"qrgate/internal/services/station/domain"
	"qrgate/internal/services/station/events"
	"qrgate/internal/services/station/service"
)

// Ports is what the station exposes to the process wiring
type Ports struct {
	Attacher domain.Attacher
	Runner   domain.Runner
	Hub      *events.Hub
	Page     domain.PageConfig
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// attacher adapts the service to the domain Attacher port
type attacher struct{ svc *service.Svc }

func (a attacher) Attach(kind, name string) domain.Listener { return a.svc.Attach(kind, name) }
