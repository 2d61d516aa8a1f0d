package httpkit

import (
	"net/http"
	"strings"
)

// V1 is the base path of the current API
const V1 = "/api/v1"

// APIPath returns the base path for a version name, "v2" or "/v2" -> "/api/v2"
func APIPath(version string) string {
	return "/api/" + strings.Trim(version, "/")
}

// MountAPI scopes mw to APIPath(version) and lets mount register routes there.
// Routes mounted on r outside the scope do not see mw
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(APIPath(version), func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}

// MountAPIV1 is MountAPI for V1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
