// Package console prints station events on the operator terminal
package console

import (
	"context"
	"fmt"
	"io"

	"qrgate/internal/core/gate"
	"qrgate/internal/services/station/events"

	"github.com/fatih/color"
)

var (
	armed    = color.New(color.FgGreen, color.Bold)
	disarmed = color.New(color.FgYellow, color.Bold)
	alert    = color.New(color.FgRed, color.Bold)
	faint    = color.New(color.Faint)
)

// Line renders one event. Lines end in \r\n so they stay aligned while the
// terminal is in raw mode
func Line(ev events.Event) string {
	ts := faint.Sprint(ev.At.Local().Format("15:04:05"))
	switch ev.Kind {
	case events.KindAlert:
		return fmt.Sprintf("%s %s %s\r\n", ts, alert.Sprint("ERROR   "), ev.Message)
	case events.KindNavigate:
		if ev.Navigation == nil {
			return ""
		}
		return fmt.Sprintf("%s %s %s\r\n", ts, faint.Sprint("OPEN    "), ev.Navigation.URL)
	default:
		if ev.State == gate.StateArmed {
			return fmt.Sprintf("%s %s waiting for a scan\r\n", ts, armed.Sprint("ARMED   "))
		}
		if ev.Navigation != nil {
			return fmt.Sprintf("%s %s %s (press space to scan another)\r\n", ts, disarmed.Sprint("DISARMED"), ev.Navigation.URL)
		}
		return fmt.Sprintf("%s %s\r\n", ts, disarmed.Sprint("DISARMED"))
	}
}

// Banner writes every hub event to w until ctx is done
type Banner struct {
	w   io.Writer
	hub *events.Hub
}

// New builds a banner
func New(w io.Writer, hub *events.Hub) *Banner { return &Banner{w: w, hub: hub} }

// Run blocks until ctx is done
func (b *Banner) Run(ctx context.Context) error {
	ch, unsubscribe := b.hub.Subscribe()
	defer unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if s := Line(ev); s != "" {
				if _, err := io.WriteString(b.w, s); err != nil {
					return err
				}
			}
		}
	}
}
