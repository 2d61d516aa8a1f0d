// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"qrgate/internal/core/version"
	modkit "qrgate/internal/modkit"
	"qrgate/internal/modkit/httpkit"
	"qrgate/internal/modkit/swaggerkit"
	str "qrgate/internal/platform/strings"

	metahttp "qrgate/internal/services/api/meta/http"
)

// Ports lets the process add readiness checks
type Ports struct {
	Checks []metahttp.Check
}

// Module implements the modkit.Module interface
type Module struct {
	b      modkit.Built
	checks []metahttp.Check
	start  time.Time
}

// New constructs a meta module. The bus is checked when it can be pinged;
// modkit.WithPorts(Ports{...}) adds more checks
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	busCheck := metahttp.Check{Name: "nats"}
	if p, ok := deps.Bus.(metahttp.Pinger); ok {
		busCheck.Pinger = p
	}
	checks := []metahttp.Check{busCheck}
	if p, ok := b.Ports.(Ports); ok {
		checks = append(checks, p.Checks...)
	}
	return &Module{b: b, checks: checks, start: time.Now()}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: version.Service,
			StartedAt:   m.start,
			Checks:      m.checks,
		})
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.b.Name, "meta") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }

// Docs documents the meta routes
func (m *Module) Docs() swaggerkit.SpecMutator { return metahttp.OpenAPI(str.MustPrefix(m.b.Prefix)) }
