package modkit

import (
	"net/http"

	"qrgate/internal/modkit/httpkit"
	str "qrgate/internal/platform/strings"
)

// Built is the resolved option set a module keeps
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// Register is the caller supplied extra routes, never nil
	Register func(httpkit.Router)
}

// Build applies opts over the defaults and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		Register: c.register,
	}
}

// Mount mounts own under the module prefix with its middleware, then the
// caller's extra routes. It panics on an empty prefix
func (b Built) Mount(r httpkit.Router, own func(httpkit.Router)) {
	r.Route(str.MustPrefix(b.Prefix), func(rr httpkit.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		own(rr)
		b.Register(rr)
	})
}
