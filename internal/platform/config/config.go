// Package config reads station configuration from environment variables,
// optionally overlaid on values from a TOML file
package config

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	perr "qrgate/internal/platform/errors"
	"qrgate/internal/platform/logger"

	"github.com/BurntSushi/toml"
)

// Conf is a namespaced view over environment variables (e.g. "QRGATE_", "CORE_API_")
// Use New() for global access, or Prefix("QRGATE_") for module scopes.
// When built with Load, keys missing from the environment fall back to the file
type Conf struct {
	prefix string
	file   map[string]string
}

// New creates a root Conf (no prefix, environment only)
func New() Conf { return Conf{} }

// Load creates a root Conf backed by the environment and the TOML file at path.
// Tables flatten into upper-case keys joined by "_", so
//
//	[qrgate]
//	base_url = "https://x.test"
//
// is read as QRGATE_BASE_URL. An empty path behaves like New
func Load(path string) (Conf, error) {
	if strings.TrimSpace(path) == "" {
		return New(), nil
	}
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return Conf{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "reading config file %s", path)
	}
	flat := map[string]string{}
	flatten("", raw, flat)
	return Conf{file: flat}, nil
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := strings.ToUpper(k)
		if prefix != "" {
			key = prefix + "_" + key
		}
		switch tv := v.(type) {
		case map[string]any:
			flatten(key, tv, out)
		case []any:
			parts := make([]string, 0, len(tv))
			for _, p := range tv {
				parts = append(parts, fmt.Sprint(p))
			}
			out[key] = strings.Join(parts, ",")
		default:
			out[key] = fmt.Sprint(tv)
		}
	}
}

// Prefix creates a child Conf with an additional prefix, e.g. cfg.Prefix("API_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p, file: c.file} }

// key composes the fully-qualified env var name
func (c Conf) key(k string) string { return c.prefix + k }

// lookup returns the trimmed env value, falling back to the file overlay
func (c Conf) lookup(k string) string {
	full := c.key(k)
	if v := strings.TrimSpace(os.Getenv(full)); v != "" {
		return v
	}
	return strings.TrimSpace(c.file[full])
}

// FileKeys lists the keys provided by the file overlay, sorted
func (c Conf) FileKeys() []string {
	out := make([]string, 0, len(c.file))
	for k := range c.file {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MustString panics if the given key is missing or empty
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required config")
	}
	return v
}

// MustURL panics if the given key is missing, empty, or not a valid absolute URL
func (c Conf) MustURL(key string) *url.URL {
	s := c.MustString(key)
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		logger.Get().Panic().Str("key", c.key(key)).Str("value", s).Msg("invalid absolute URL")
	}
	return u
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayInt(key string, def int) int {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Int("default", def).Msg("invalid int; using default")
	return def
}

// MayBool returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayBool(key string, def bool) bool {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Bool("default", def).Msg("invalid bool; using default")
	return def
}

// MayDuration returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Dur("default", def).Msg("invalid duration; using default")
	return def
}

// MayCSV returns a slice of strings from a comma-separated value; def if missing/empty
func (c Conf) MayCSV(key string, def []string) []string {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	out := make([]string, 0, 4)
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum ensures value is one of allowed; returns def if empty; panics if invalid.
// The matched allowed spelling is returned
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return "" // unreachable
}
