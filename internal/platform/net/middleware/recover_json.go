package middleware

import (
	stdhttp "net/http"
	"runtime/debug"

	perr "qrgate/internal/platform/errors"
	"qrgate/internal/platform/logger"
	pnet "qrgate/internal/platform/net"
)

// RecoverJSON turns a handler panic into a JSON 500 envelope and logs the stack
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == stdhttp.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(logger.WithRequest(r.Context(), reqID)).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Str("path", r.URL.Path).
				Msg("panic recovered")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			status, body := pnet.Failure(perr.PanicErrf("panic recovered"), reqID)
			pnet.WriteJSON(w, status, body)
		}()
		next.ServeHTTP(w, r)
	})
}
