// Package httpkit is what modules mount routes with. It re-exports the
// platform http seam so modules never import it directly
package httpkit

import (
	"net/http"

	phttp "qrgate/internal/platform/net/http"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Response is the return-style response type
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// NoContent returns a 204 response
func NoContent() Response { return phttp.NoContent() }

// Error returns a response that maps an error to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// JSON binds and validates a JSON body, then envelopes the result.
// A returned Response is written as is
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler {
	return phttp.JSONHandler(fn)
}

// Call adapts a handler that takes no body
func Call(fn func(*http.Request) (any, error)) Handler { return phttp.CallHandler(fn) }

// Handle adapts a Response-returning function directly
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }
