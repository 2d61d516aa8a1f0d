// Package modkit builds API modules: shared deps, functional options and a
// common way to mount a module under its prefix
package modkit

import "qrgate/internal/modkit/module"

// Module is the surface every API module implements
type Module = module.Module
