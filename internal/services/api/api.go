// Package api provides the HTTP API for the station
package api

import (
	stdctx "context"

	"qrgate/internal/core/version"
	"qrgate/internal/platform/config"
	phttp "qrgate/internal/platform/net/http"

	"qrgate/internal/modkit"
	"qrgate/internal/modkit/httpkit"
	"qrgate/internal/modkit/module"
	"qrgate/internal/modkit/swaggerkit"

	metahttp "qrgate/internal/services/api/meta/http"
	metamod "qrgate/internal/services/api/meta/module"
	stationmod "qrgate/internal/services/station/module"
)

// APIBase is where versioned modules are mounted
const APIBase = httpkit.V1

// Options are the API options
type Options struct {
	Deps           modkit.Deps
	Station        *stationmod.Module
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router. The scanner page and
// its event stream are mounted at the root, outside the versioned stack, so
// timeouts and compression never cut the stream
func Mount(r phttp.Router, opt Options) {
	station := opt.Station
	if station == nil {
		station = stationmod.NewWithOptions(opt.Deps, stationmod.FromConfig(opt.Deps.Cfg))
	}
	sp := module.MustPortsOf[stationmod.Ports](station)

	meta := metamod.New(opt.Deps, modkit.WithPorts(metamod.Ports{
		Checks: []metahttp.Check{{
			Name: "station",
			Pinger: metahttp.PingFunc(func(ctx stdctx.Context) error {
				l := sp.Attacher.Attach("probe", "ready")
				defer l.Release()
				_, err := l.Snapshot(ctx)
				return err
			}),
		}},
	}))

	mods := []module.Module{meta, station}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(corsFrom(opt.Deps.Cfg)), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	// Swagger + profiler
	var docs []swaggerkit.SpecMutator
	for _, m := range mods {
		if d, ok := m.(documented); ok {
			docs = append(docs, d.Docs())
		}
	}
	swaggerkit.Mount(r, opt.EnableSwagger, swaggerkit.Options{
		Title:   version.Service + " API",
		Version: version.Info().Version,
		Server:  APIBase,
	}, docs...)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	station.MountPage(r, APIBase)
}

// documented modules contribute their paths to the API document
type documented interface {
	Docs() swaggerkit.SpecMutator
}

func corsFrom(cfg config.Conf) []string {
	return cfg.Prefix("CORE_API_").MayCSV("CORS_ORIGINS", nil)
}
