package http

import (
	"net/http"

	"qrgate/internal/platform/net/http/bind"
)

// JSONHandler binds and validates a JSON body of type T, then envelopes the
// result. A returned Response is written as is
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		return wrap(fn(r, in))
	})
}

// CallHandler is JSONHandler for routes that take no body
func CallHandler(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response { return wrap(fn(r)) })
}

func wrap(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}
