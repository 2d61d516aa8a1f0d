package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"qrgate/internal/platform/net/middleware"
)

// CommonStack is the middleware applied to the versioned API. origins feeds
// CORS, an empty list keeps the API same-origin
func CommonStack(origins []string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.AccessLog(middleware.AccessLogOptions{Slow: 500 * time.Millisecond}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}
