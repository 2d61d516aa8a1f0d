// Package urltmpl builds destination URLs from a base URL and decoded scan text
package urltmpl

import (
	"net/url"
	"sort"

	perr "qrgate/internal/platform/errors"
)

// Func turns a base URL and decoded text into a destination URL
type Func func(base, text string) string

// Variant couples a URL template with the browsing context it should open in
type Variant struct {
	Name     string `json:"name"`
	URL      Func   `json:"-"`
	Target   string `json:"target"`
	Features string `json:"features,omitempty"`
}

// Build applies the variant template; text is used verbatim unless the variant was Escaped
func (v Variant) Build(base, text string) string { return v.URL(base, text) }

const (
	// NamePlain opens base/<text>
	NamePlain = "plain"
	// NameBookingSummary opens base/bookings/booking/<text>/summary in a sized window
	NameBookingSummary = "booking_summary"

	// TargetBlank is the new browsing context hint
	TargetBlank = "_blank"

	// BookingWindowFeatures sizes the booking summary window
	BookingWindowFeatures = "width=1000,height=600"
)

// Plain is base + "/" + text in a generic new context
var Plain = Variant{
	Name:   NamePlain,
	URL:    func(base, text string) string { return base + "/" + text },
	Target: TargetBlank,
}

// BookingSummary is base + "/bookings/booking/" + text + "/summary" in a 1000x600 window
var BookingSummary = Variant{
	Name:     NameBookingSummary,
	URL:      func(base, text string) string { return base + "/bookings/booking/" + text + "/summary" },
	Target:   TargetBlank,
	Features: BookingWindowFeatures,
}

var variants = map[string]Variant{
	NamePlain:          Plain,
	NameBookingSummary: BookingSummary,
}

// Lookup returns the registered variant for name
func Lookup(name string) (Variant, error) {
	v, ok := variants[name]
	if !ok {
		return Variant{}, perr.InvalidArgf("unknown url template %q", name)
	}
	return v, nil
}

// Names returns the registered variant names in sorted order
func Names() []string {
	out := make([]string, 0, len(variants))
	for n := range variants {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Escaped returns a copy of v that path-escapes text before templating.
// Decoded text comes from whatever QR code was in front of the camera, so
// a crafted payload can steer the destination when this is off
func Escaped(v Variant) Variant {
	inner := v.URL
	v.URL = func(base, text string) string { return inner(base, url.PathEscape(text)) }
	return v
}
