package strings

import (
	"testing"

	"qrgate/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	def := []string{"GET", "POST"}
	if got := IfEmpty(nil, def); len(got) != 2 {
		t.Fatalf("nil should give default, got %v", got)
	}
	if got := IfEmpty([]string{"PUT"}, def); len(got) != 1 || got[0] != "PUT" {
		t.Fatalf("non-empty should pass through, got %v", got)
	}
}

func TestMustString(t *testing.T) {
	if MustString("station", "name") != "station" {
		t.Fatal("value should pass through")
	}
	testkit.MustPanic(t, func() { MustString("  ", "name") })
}

func TestMustPrefix(t *testing.T) {
	for in, want := range map[string]string{
		"station":    "/station",
		"/station/":  "/station",
		" /meta ":    "/meta",
		"//a/b//":    "/a/b",
	} {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	testkit.MustPanic(t, func() { MustPrefix(" / ") })
	testkit.MustPanic(t, func() { MustPrefix("") })
}
