package scanner

import (
	"context"
	"io"

	perr "qrgate/internal/platform/errors"
	"qrgate/internal/platform/logger"
	"qrgate/internal/services/station/domain"

	"golang.org/x/term"
)

// Terminal is what KeyTrigger reads from; *os.File implements it
type Terminal interface {
	io.Reader
	Fd() uintptr
}

// seams over x/term
var (
	isTerminal = term.IsTerminal
	makeRaw    = term.MakeRaw
	restore    = term.Restore
)

const (
	keySpace = ' '
	keyQuit  = 'q'
	keyCtrlC = 0x03
)

// KeyTrigger re-arms the station on spacebar from a raw-mode terminal.
// q or Ctrl-C calls quit
type KeyTrigger struct {
	tty  Terminal
	l    domain.Listener
	quit func()
}

// NewKeyTrigger builds a trigger; quit may be nil
func NewKeyTrigger(tty Terminal, l domain.Listener, quit func()) *KeyTrigger {
	if quit == nil {
		quit = func() {}
	}
	return &KeyTrigger{tty: tty, l: l, quit: quit}
}

// Run returns immediately when tty is not a terminal. Otherwise the terminal
// stays in raw mode until Run returns
func (k *KeyTrigger) Run(ctx context.Context) error {
	defer k.l.Release()
	log := logger.C(ctx).With().Str("source", domain.KindKey).Logger()

	fd := int(k.tty.Fd())
	if !isTerminal(fd) {
		log.Info().Msg("stdin is not a terminal, key re-arm disabled")
		return nil
	}
	old, err := makeRaw(fd)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "terminal raw mode")
	}
	defer func() {
		if err := restore(fd, old); err != nil {
			log.Warn().Err(err).Msg("restore terminal")
		}
	}()
	defer logger.SetRawTerminal(true)()
	log.Info().Msg("press space to scan another, q to quit")

	keys := make(chan byte)
	readErr := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := k.tty.Read(buf)
			if err != nil {
				readErr <- err
				return
			}
			if n == 0 {
				continue
			}
			select {
			case keys <- buf[0]:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err == io.EOF {
				return nil
			}
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "terminal read")
		case b := <-keys:
			switch b {
			case keySpace:
				snap, err := k.l.Rearm(ctx, domain.SourceTerminal)
				if perr.IsCode(err, perr.ErrorCodeUnavailable) {
					return nil
				}
				if err != nil {
					log.Warn().Err(err).Msg("terminal rearm")
					continue
				}
				log.Debug().Str("state", snap.State.String()).Msg("terminal rearm")
			case keyQuit, keyCtrlC:
				log.Info().Msg("quit requested from terminal")
				k.quit()
				return nil
			}
		}
	}
}
