// Package module wires the scan station into the API using modkit
package module

import (
	"qrgate/internal/adapters/opener"
	modkit "qrgate/internal/modkit"
	"qrgate/internal/modkit/httpkit"
	"qrgate/internal/modkit/swaggerkit"
	str "qrgate/internal/platform/strings"

	"qrgate/internal/services/station/domain"
	"qrgate/internal/services/station/events"
	stationhttp "qrgate/internal/services/station/http"
	"qrgate/internal/services/station/service"
)

// EventsPath is where the page event stream is mounted on the root router
const EventsPath = "/events"

// Module implements the station API module
type Module struct {
	b     modkit.Built
	opts  Options
	svc   *service.Svc
	hub   *events.Hub
	api   *service.Handle
	ports Ports
}

// New constructs the station module from QRGATE_* config
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	return NewWithOptions(deps, FromConfig(deps.Cfg), opts...)
}

// NewWithOptions constructs the station module from explicit options.
// It panics on an unknown template or opener, like other module constructors
func NewWithOptions(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("station"),
		modkit.WithPrefix("/station"),
	}, opts...)...)

	variant, err := o.Variant()
	if err != nil {
		panic("station module: " + err.Error())
	}
	hub := events.NewHub(deps.Publisher(), o.EventBuffer)
	op, err := opener.New(o.Opener, hub)
	if err != nil {
		panic("station module: " + err.Error())
	}
	svc, err := service.New(service.Config{
		BaseURL:   o.BaseURL,
		Variant:   variant,
		QueueSize: o.QueueSize,
	}, hub, op)
	if err != nil {
		panic("station module: " + err.Error())
	}

	m := &Module{
		b:    b,
		opts: o,
		svc:  svc,
		hub:  hub,
		api:  svc.Attach(domain.KindHTTP, "api"),
	}
	m.ports = Ports{
		Attacher: attacher{svc: svc},
		Runner:   svc,
		Hub:      hub,
		Page:     o.PageConfig(),
	}
	return m
}

// MountRoutes mounts the station API under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		stationhttp.Register(rr, stationhttp.Deps{Listener: m.api, Page: m.ports.Page})
	})
}

// MountPage mounts the scanner page at / and the event stream on r. apiBase
// is where MountRoutes was mounted, e.g. /api/v1
func (m *Module) MountPage(r httpkit.Router, apiBase string) {
	r.Get("/", stationhttp.Page(m.ports.Page, apiBase+m.Prefix(), EventsPath))
	r.Get(EventsPath, stationhttp.Stream(m.hub, m.api))
}

// Docs documents the station routes
func (m *Module) Docs() swaggerkit.SpecMutator { return stationhttp.OpenAPI(m.Prefix()) }

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.b.Name, "station") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }
