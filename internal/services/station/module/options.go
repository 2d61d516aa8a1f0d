package module

import (
	"time"

	"qrgate/internal/adapters/opener"
	"qrgate/internal/core/urltmpl"
	"qrgate/internal/platform/config"
	"qrgate/internal/services/station/domain"
)

// Rearm key modes
const (
	RearmKeySpace = "space"
	RearmKeyNone  = "none"
)

// Options controls the station
type Options struct {
	BaseURL    string // used verbatim as the template base
	Template   string
	EscapeText bool
	Opener     string
	RearmKey   string

	ScanSuccessDelay time.Duration
	ScanAttemptDelay time.Duration

	QueueSize   int
	EventBuffer int

	Title   string
	Heading string
	HomeURL string
}

// FromConfig reads QRGATE_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	qc := cfg.Prefix("QRGATE_")
	base := qc.MustURL("BASE_URL")
	return Options{
		BaseURL:          qc.MustString("BASE_URL"),
		Template:         qc.MayEnum("TEMPLATE", urltmpl.NameBookingSummary, urltmpl.Names()...),
		EscapeText:       qc.MayBool("ESCAPE_TEXT", false),
		Opener:           qc.MayEnum("OPENER", opener.KindPage, opener.Kinds()...),
		RearmKey:         qc.MayEnum("REARM_KEY", RearmKeySpace, RearmKeySpace, RearmKeyNone),
		ScanSuccessDelay: qc.MayDuration("SCAN_SUCCESS_DELAY", time.Second),
		ScanAttemptDelay: qc.MayDuration("SCAN_ATTEMPT_DELAY", time.Second),
		QueueSize:        qc.MayInt("QUEUE_SIZE", 64),
		EventBuffer:      qc.MayInt("EVENT_BUFFER", 16),
		Title:            qc.MayString("PAGE_TITLE", "QR Code Scanner"),
		Heading:          qc.MayString("PAGE_HEADING", "Scan QR Code to get booking details"),
		HomeURL:          qc.MayString("HOME_URL", base.JoinPath("home").String()),
	}
}

// Variant resolves the URL template
func (o Options) Variant() (urltmpl.Variant, error) {
	v, err := urltmpl.Lookup(o.Template)
	if err != nil {
		return urltmpl.Variant{}, err
	}
	if o.EscapeText {
		v = urltmpl.Escaped(v)
	}
	return v, nil
}

// PageConfig is the page view of the options
func (o Options) PageConfig() domain.PageConfig {
	return domain.PageConfig{
		Variant:            o.Template,
		RearmKey:           o.RearmKey,
		ScanSuccessDelayMs: o.ScanSuccessDelay.Milliseconds(),
		ScanAttemptDelayMs: o.ScanAttemptDelay.Milliseconds(),
		Title:              o.Title,
		Heading:            o.Heading,
		HomeURL:            o.HomeURL,
	}
}
