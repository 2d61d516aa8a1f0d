package testkit

import (
	"sync"
	"testing"
)

// seams are package-level vars (x/term hooks, registries) that tests replace
var seamMu sync.Mutex

// Swap sets *target to replacement until the test ends
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// Serial holds a process-wide lock for the rest of the test, for tests that
// touch shared seams
func Serial(t *testing.T) {
	t.Helper()
	seamMu.Lock()
	t.Cleanup(seamMu.Unlock)
}
