// Package scanner feeds decoded payloads and re-arm keys into the station.
// Every source owns one listener and releases it on every exit path
package scanner

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	perr "qrgate/internal/platform/errors"
	"qrgate/internal/platform/logger"
	"qrgate/internal/services/station/domain"

	"golang.org/x/time/rate"
)

// MaxLine bounds one payload read from a line source
const MaxLine = 64 << 10

// LineSource reads newline-delimited payloads, as written by keyboard-wedge
// scanners or zbarcam --raw
type LineSource struct {
	r       io.Reader
	l       domain.Listener
	limiter *rate.Limiter
}

// LineOption configures a LineSource
type LineOption func(*LineSource)

// WithDebounce delivers at most one payload per d; zero disables it
func WithDebounce(d time.Duration) LineOption {
	return func(s *LineSource) {
		if d <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// NewLineSource reads from r and delivers to l. Debounce defaults to one second
func NewLineSource(r io.Reader, l domain.Listener, opts ...LineOption) *LineSource {
	s := &LineSource{r: r, l: l, limiter: rate.NewLimiter(rate.Every(time.Second), 1)}
	for _, o := range opts {
		o(s)
	}
	return s
}

type lineRead struct {
	text string
	err  error
	eof  bool
}

// Run reads until EOF, a read error or ctx is done. A read error is reported
// to the station before it is returned
func (s *LineSource) Run(ctx context.Context) error {
	defer s.l.Release()
	log := logger.C(ctx).With().Str("source", domain.KindLines).Logger()

	// the reader goroutine may outlive Run while blocked in Read
	lines := make(chan lineRead)
	go func() {
		sc := bufio.NewScanner(s.r)
		sc.Buffer(make([]byte, 0, 4096), MaxLine)
		for sc.Scan() {
			select {
			case lines <- lineRead{text: sc.Text()}:
			case <-ctx.Done():
				return
			}
		}
		select {
		case lines <- lineRead{err: sc.Err(), eof: true}:
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case in := <-lines:
			if in.err != nil {
				log.Warn().Err(in.err).Msg("line source read failed")
				if err := s.l.Error(ctx, in.err); err != nil {
					log.Debug().Err(err).Msg("could not report read error")
				}
				return perr.Wrap(in.err, perr.ErrorCodeUnavailable, "line source read")
			}
			if in.eof {
				log.Info().Msg("line source reached end of input")
				return nil
			}
			if err := s.deliver(ctx, log, in.text); err != nil {
				return nil
			}
		}
	}
}

func (s *LineSource) deliver(ctx context.Context, log logger.Logger, raw string) error {
	text := strings.TrimSpace(strings.TrimRight(raw, "\r"))
	if text == "" {
		return nil
	}
	if !s.limiter.Allow() {
		log.Debug().Str("text", text).Msg("decode dropped by debounce")
		return nil
	}
	d, err := s.l.Result(ctx, text)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeUnavailable) {
			log.Info().Msg("station gone, line source stopping")
			return err
		}
		log.Warn().Err(err).Msg("deliver decode")
		return nil
	}
	log.Debug().Bool("accepted", d.Accepted).Str("reason", d.Reason).Msg("decode delivered")
	return nil
}
