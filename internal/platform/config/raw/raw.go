// Package raw reads environment variables during logger bootstrap, before
// the config package (which logs) can be used
package raw

import (
	"os"
	"strings"
)

// Conf is a prefixed view over the environment
type Conf struct{ prefix string }

// New returns a root Conf
func New() Conf { return Conf{} }

// Prefix returns a child view, e.g. New().Prefix("LOG_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) value(key string) string { return strings.TrimSpace(os.Getenv(c.prefix + key)) }

// Get returns the trimmed value or def when unset
func (c Conf) Get(key, def string) string {
	if v := c.value(key); v != "" {
		return v
	}
	return def
}

// Lower is Get folded to lower case
func (c Conf) Lower(key, def string) string { return strings.ToLower(c.Get(key, def)) }

// GetBool accepts 1/true/yes/on and 0/false/no/off; anything else is def
func (c Conf) GetBool(key string, def bool) bool {
	switch strings.ToLower(c.value(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
