package http

import "net/http"

// Handler is the handler func type routes are registered with
type Handler = func(http.ResponseWriter, *http.Request)

// Router is what modules mount against. It serves what was mounted on it
type Router interface {
	http.Handler

	Get(path string, h Handler)
	Post(path string, h Handler)
	Handle(path string, h http.Handler)

	Use(mw ...func(http.Handler) http.Handler)
	Route(pattern string, fn func(Router))
}
