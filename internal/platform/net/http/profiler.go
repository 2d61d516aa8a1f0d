package http

import (
	"net"
	stdhttp "net/http"
	"net/netip"

	mw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler mounts pprof under prefix (e.g. "/debug") when enabled.
// Only loopback peers are answered; everyone else gets a 404
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	h := loopbackOnly(stdhttp.StripPrefix(prefix, mw.Profiler()))
	r.Handle(prefix, h)
	r.Handle(prefix+"/*", h)
}

func loopbackOnly(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		addr, err := netip.ParseAddr(host)
		if err != nil || !addr.IsLoopback() {
			stdhttp.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
