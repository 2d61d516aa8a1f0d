package http

import (
	stdhttp "net/http"

	"qrgate/internal/core/version"
	"qrgate/internal/modkit/swaggerkit"
)

// OpenAPI documents the meta routes mounted under prefix
func OpenAPI(prefix string) swaggerkit.SpecMutator {
	return func(s swaggerkit.Spec) {
		s.Add(stdhttp.MethodGet, prefix+"/health", swaggerkit.Operation{
			Tag: "Meta", Summary: "Health check",
			Example: HealthResponse{OK: true, Service: version.Service},
		})
		s.Add(stdhttp.MethodGet, prefix+"/ready", swaggerkit.Operation{
			Tag: "Meta", Summary: "Readiness probe with dependency checks",
			Example: ReadyResponse{Status: "ok", Checks: []ReadyCheck{{Name: "nats", Status: "skipped"}}},
		})
		s.Add(stdhttp.MethodGet, prefix+"/version", swaggerkit.Operation{
			Tag: "Meta", Summary: "Build and version info", Example: version.Info(),
		})
		s.Add(stdhttp.MethodGet, prefix+"/service", swaggerkit.Operation{
			Tag: "Meta", Summary: "Service info and uptime",
			Example: ServiceResponse{Name: version.Service, Uptime: 300},
		})
	}
}
