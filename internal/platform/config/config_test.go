package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	perr "qrgate/internal/platform/errors"
	kit "qrgate/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	root := New()
	api := root.Prefix("CORE_")
	if got := api.key("PORT"); got != "CORE_PORT" {
		t.Fatalf("key() = %q, want %q", got, "CORE_PORT")
	}
	nested := api.Prefix("API_")
	if got := nested.key("PORT"); got != "CORE_API_PORT" {
		t.Fatalf("nested key() = %q, want %q", got, "CORE_API_PORT")
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("QRT_")
	t.Setenv("QRT_NAME", "  station ")
	if got := c.MustString("NAME"); got != "station" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMustURL(t *testing.T) {
	c := New().Prefix("QRT_")
	t.Setenv("QRT_BASE", "https://x.test/app")
	if u := c.MustURL("BASE"); u.Host != "x.test" {
		t.Fatalf("MustURL host = %q", u.Host)
	}
	t.Setenv("QRT_BAD1", "://bad")
	kit.MustPanic(t, func() { _ = c.MustURL("BAD1") })
	t.Setenv("QRT_BAD2", "/relative")
	kit.MustPanic(t, func() { _ = c.MustURL("BAD2") })
}

func TestMayValues(t *testing.T) {
	c := New().Prefix("QRT_")

	if got := c.MayString("S", "def"); got != "def" {
		t.Fatalf("MayString default = %q", got)
	}
	t.Setenv("QRT_I", "12")
	t.Setenv("QRT_IBAD", "x")
	if c.MayInt("I", 1) != 12 || c.MayInt("IBAD", 1) != 1 || c.MayInt("NONE", 3) != 3 {
		t.Fatalf("MayInt mismatch")
	}
	t.Setenv("QRT_B", "true")
	t.Setenv("QRT_BBAD", "maybe")
	if !c.MayBool("B", false) || !c.MayBool("BBAD", true) {
		t.Fatalf("MayBool mismatch")
	}
	t.Setenv("QRT_D", "750ms")
	t.Setenv("QRT_DBAD", "soon")
	if c.MayDuration("D", time.Second) != 750*time.Millisecond || c.MayDuration("DBAD", time.Second) != time.Second {
		t.Fatalf("MayDuration mismatch")
	}
	t.Setenv("QRT_CSV", " a, ,b ")
	if got := c.MayCSV("CSV", nil); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("MayCSV = %v", got)
	}
	t.Setenv("QRT_EMPTYCSV", " , ")
	if got := c.MayCSV("EMPTYCSV", []string{"z"}); !reflect.DeepEqual(got, []string{"z"}) {
		t.Fatalf("MayCSV default = %v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("QRT_")
	t.Setenv("QRT_MODE", "PLAIN")
	if got := c.MayEnum("MODE", "booking_summary", "plain", "booking_summary"); got != "plain" {
		t.Fatalf("MayEnum = %q", got)
	}
	if got := c.MayEnum("NONE", "plain", "plain"); got != "plain" {
		t.Fatalf("MayEnum default = %q", got)
	}
	t.Setenv("QRT_BAD", "other")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "", "plain") })
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "qrgate.toml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoad_FileOverlay(t *testing.T) {
	p := writeFile(t, `
[qrgate]
base_url = "https://file.test"
template = "plain"
escape_text = true
origins = ["https://a.test", "https://b.test"]

[qrgate.nats]
url = "nats://127.0.0.1:4222"

[core_api]
port = ":4100"
`)
	root, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	q := root.Prefix("QRGATE_")
	if got := q.MustString("BASE_URL"); got != "https://file.test" {
		t.Fatalf("BASE_URL = %q", got)
	}
	if !q.MayBool("ESCAPE_TEXT", false) {
		t.Fatalf("ESCAPE_TEXT should come from file")
	}
	if got := q.MayCSV("ORIGINS", nil); !reflect.DeepEqual(got, []string{"https://a.test", "https://b.test"}) {
		t.Fatalf("ORIGINS = %v", got)
	}
	if got := q.MayString("NATS_URL", ""); got != "nats://127.0.0.1:4222" {
		t.Fatalf("NATS_URL = %q", got)
	}
	if got := root.Prefix("CORE_API_").MayString("PORT", ""); got != ":4100" {
		t.Fatalf("PORT = %q", got)
	}

	// env wins over file
	t.Setenv("QRGATE_TEMPLATE", "booking_summary")
	if got := q.MayString("TEMPLATE", ""); got != "booking_summary" {
		t.Fatalf("env should win, got %q", got)
	}

	keys := root.FileKeys()
	if len(keys) != 6 || keys[0] != "CORE_API_PORT" {
		t.Fatalf("FileKeys = %v", keys)
	}
}

func TestLoad_EmptyPathAndErrors(t *testing.T) {
	c, err := Load("  ")
	if err != nil || len(c.FileKeys()) != 0 {
		t.Fatalf("Load(empty) = %v, %v", c, err)
	}
	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument for missing file, got %v", err)
	}
	_, err = Load(writeFile(t, "not = [toml"))
	if err == nil {
		t.Fatalf("expected parse error")
	}
}
