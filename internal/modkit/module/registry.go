package module

import (
	"slices"
	"sync"
)

// ports holds each mounted module's port set under its name. The API fills
// it while mounting; entrypoints read it to reach module internals
var ports sync.Map

// Register stores the port set for a module name, replacing any earlier one
func Register(name string, p any) { ports.Store(name, p) }

// PortsAs fetches the port set registered for name as a T
func PortsAs[T any](name string) (T, bool) {
	var zero T
	v, ok := ports.Load(name)
	if !ok {
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}

// Names lists registered module names, sorted
func Names() []string {
	var out []string
	ports.Range(func(k, _ any) bool {
		out = append(out, k.(string))
		return true
	})
	slices.Sort(out)
	return out
}

// Reset clears the registry for tests
func Reset() { ports.Clear() }
