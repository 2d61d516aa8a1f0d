package http

import (
	"bytes"
	"embed"
	"html/template"
	stdhttp "net/http"

	"qrgate/internal/platform/logger"
	phttp "qrgate/internal/platform/net/http"
	"qrgate/internal/services/station/domain"
)

//go:embed assets/index.html.tmpl
var assets embed.FS

var pageTmpl = template.Must(template.ParseFS(assets, "assets/index.html.tmpl"))

type pageData struct {
	Page       domain.PageConfig
	APIPrefix  string
	EventsPath string
}

// PageRole is the query the page adds to the event stream url
const PageRole = "role=page"

// Page renders the scanner page. apiPrefix is where the station routes are
// mounted, eventsPath is the event stream
func Page(cfg domain.PageConfig, apiPrefix, eventsPath string) phttp.Handler {
	data := pageData{Page: cfg, APIPrefix: apiPrefix, EventsPath: eventsPath + "?" + PageRole}
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		var buf bytes.Buffer
		if err := pageTmpl.Execute(&buf, data); err != nil {
			logger.C(r.Context()).Error().Err(err).Msg("render scanner page")
			phttp.RespondError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(stdhttp.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}
