// Package logger is the process-wide zerolog root plus request scoped children
package logger

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"qrgate/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the logger
type Options struct {
	Level      string // zerolog level name, info when unknown
	Format     string // console or json
	Output     string // stdout or stderr, ignored when Writer is set
	Service    string
	WithCaller bool
	Writer     io.Writer
}

// FromEnv reads LOG_* through the logging-free raw view
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:      rc.Lower("LEVEL", "info"),
		Format:     rc.Lower("FORMAT", "console"),
		Output:     rc.Lower("OUTPUT", "stderr"),
		Service:    rc.Get("SERVICE", "qrgate"),
		WithCaller: rc.GetBool("CALLER", false),
	}
}

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]

	// rawTerminal is set while the operator terminal is in raw mode
	rawTerminal atomic.Bool
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Get returns the process-wide root logger, initialising it from env on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Init builds the root logger. Only the first call has an effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := build(opt)
		root.Store(&l)
	})
}

func build(opt Options) zerolog.Logger {
	w := opt.Writer
	if w == nil {
		w = os.Stderr
		if opt.Output == "stdout" {
			w = os.Stdout
		}
	}
	w = crlfWriter{w: w}
	if opt.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}

	ctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	if opt.Service != "" {
		ctx = ctx.Str("service", opt.Service)
	}
	if opt.WithCaller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// SetRawTerminal switches line endings to \r\n while the terminal is in raw
// mode. The returned func restores the previous setting
func SetRawTerminal(on bool) (restore func()) {
	prev := rawTerminal.Swap(on)
	return func() { rawTerminal.Store(prev) }
}

// crlfWriter rewrites line endings while the terminal is raw
type crlfWriter struct{ w io.Writer }

func (c crlfWriter) Write(p []byte) (int, error) {
	if !rawTerminal.Load() || !bytes.Contains(p, []byte{'\n'}) {
		return c.w.Write(p)
	}
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

type ctxKey struct{}

// WithRequest stores the request id for C to pick up
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, reqID)
}

// C returns a child logger carrying the request id found on ctx, if any
func C(ctx context.Context) *Logger {
	l := Get()
	s, _ := ctx.Value(ctxKey{}).(string)
	if s == "" {
		return l
	}
	ll := l.With().Str("request_id", s).Logger()
	return &ll
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}
