// Package swaggerkit serves the OpenAPI document and Swagger UI
package swaggerkit

import (
	"encoding/json"
	"net/http"

	"qrgate/internal/platform/logger"
	phttp "qrgate/internal/platform/net/http"

	docs "qrgate/internal/services/api/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Options describe the served document. Empty fields keep the base document values
type Options struct {
	Title   string
	Version string
	Server  string // base url of the documented paths, e.g. /api/v1
}

// docReader is a seam so tests can feed a broken base document
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// Mount the Swagger UI and JSON document if enabled
func Mount(r phttp.Router, enabled bool, opt Options, mutators ...SpecMutator) {
	if !enabled {
		return
	}
	if opt.Title != "" {
		docs.SwaggerInfo.Title = opt.Title
	}
	if opt.Version != "" {
		docs.SwaggerInfo.Version = opt.Version
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(opt.Server, mutators))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}

// serveDocJSON parses the registered base document per request and lets
// modules add their paths before the default failures are filled in
func serveDocJSON(server string, mutators []SpecMutator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec Spec
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			logger.C(r.Context()).Error().Err(err).Msg("parse api document")
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		ensureServers(spec, server)
		for _, m := range mutators {
			if m != nil {
				m(spec)
			}
		}
		addDefault(spec, http.StatusBadRequest, 5, "text is a required field")
		addDefault(spec, http.StatusInternalServerError, 1, "panic recovered")

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}
