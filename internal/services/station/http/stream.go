package http

import (
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"time"

	perr "qrgate/internal/platform/errors"
	"qrgate/internal/platform/logger"
	phttp "qrgate/internal/platform/net/http"
	"qrgate/internal/services/station/domain"
	"qrgate/internal/services/station/events"
)

// KeepAlive is how often an idle stream gets a comment line
var KeepAlive = 15 * time.Second

// Stream serves hub events as text/event-stream. The first frame is a state
// event built from the current snapshot so a fresh page renders correctly.
// Scanner pages connect with ?role=page; other clients only observe and
// never count as a page that can open navigations
func Stream(hub *events.Hub, l domain.Listener) phttp.Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		flusher, ok := w.(stdhttp.Flusher)
		if !ok {
			phttp.RespondError(w, r, perr.Internalf("streaming unsupported"))
			return
		}
		ctx := r.Context()
		log := logger.C(ctx)

		role := events.ParseRole(r.URL.Query().Get("role"))
		ch, unsubscribe := hub.SubscribeAs(role)
		defer unsubscribe()

		snap, err := l.Snapshot(ctx)
		if err != nil {
			phttp.RespondError(w, r, err)
			return
		}

		h := w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		w.WriteHeader(stdhttp.StatusOK)

		first := events.New(events.KindState, snap.State)
		first.Navigation = snap.LastNavigation
		if err := writeEvent(w, first); err != nil {
			return
		}
		flusher.Flush()
		log.Debug().Bool("page", role == events.RolePage).Int("pages", hub.Pages()).Msg("event stream opened")

		tick := time.NewTicker(KeepAlive)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Debug().Msg("event stream closed")
				return
			case <-tick.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				flusher.Flush()
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if err := writeEvent(w, ev); err != nil {
					log.Debug().Err(err).Msg("event stream write failed")
					return
				}
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w stdhttp.ResponseWriter, ev events.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", ev.ID, ev.Kind, b)
	return err
}
