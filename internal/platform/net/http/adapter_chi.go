package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// chiRouter is Router over a chi mux or one of its sub routers
type chiRouter struct{ chi.Router }

// AdaptChi returns m as a Router
func AdaptChi(m *chi.Mux) Router { return chiRouter{m} }

func (c chiRouter) Get(p string, h Handler)  { c.Method(http.MethodGet, p, http.HandlerFunc(h)) }
func (c chiRouter) Post(p string, h Handler) { c.Method(http.MethodPost, p, http.HandlerFunc(h)) }

func (c chiRouter) Route(pattern string, fn func(Router)) {
	c.Router.Route(pattern, func(sub chi.Router) { fn(chiRouter{sub}) })
}
