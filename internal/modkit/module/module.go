// Package module holds the module contract and the port lookups used to
// wire modules together in main
package module

import phttp "qrgate/internal/platform/net/http"

// Module is what the API composes: routes, a name and an optional port set
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
