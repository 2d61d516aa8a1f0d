// Package bus publishes station events to NATS subjects and subscribes to
// remote scanner subjects. A no-op publisher is used when no NATS URL is set
package bus

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	perr "qrgate/internal/platform/errors"

	"github.com/nats-io/nats.go"
)

// Subjects used by the station
const (
	SubjectState    = "qrgate.station.state"
	SubjectNavigate = "qrgate.station.navigate"
	SubjectAlert    = "qrgate.station.alert"
	SubjectDecode   = "qrgate.decode"

	// SubjectStation matches every station subject
	SubjectStation = "qrgate.station.>"
)

// Publisher sends JSON-encoded events to a subject
type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
	Close() error
}

// Noop discards everything
type Noop struct{}

// Publish implements Publisher
func (Noop) Publish(context.Context, string, any) error { return nil }

// Close implements Publisher
func (Noop) Close() error { return nil }

// Conn is a NATS connection usable as both publisher and subscriber
type Conn struct {
	nc *nats.Conn
}

// Connect dials NATS with automatic reconnects; extra options are appended
func Connect(url string, opts ...nats.Option) (*Conn, error) {
	defaults := []nats.Option{
		nats.Name("qrgate"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "connecting to NATS at %s", url)
	}
	return &Conn{nc: nc}, nil
}

// Publish implements Publisher
func (c *Conn) Publish(_ context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "marshaling event")
	}
	if err := c.nc.Publish(subject, data); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "publishing to %s", subject)
	}
	return nil
}

// Ping flushes the connection, used by readiness checks
func (c *Conn) Ping(ctx context.Context) error {
	if err := c.nc.FlushWithContext(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "nats flush")
	}
	return nil
}

// Subscribe returns a channel of raw payloads for subject (wildcards allowed)
// and a cancel func that unsubscribes and closes the channel. Messages are
// dropped when the channel is full so the NATS client never blocks
func (c *Conn) Subscribe(subject string) (<-chan []byte, func(), error) {
	ch := make(chan []byte, 64)

	var (
		mu     sync.Mutex
		closed bool
		once   sync.Once
	)

	sub, err := c.nc.Subscribe(subject, func(msg *nats.Msg) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- msg.Data:
		default:
		}
	})
	if err != nil {
		close(ch)
		return nil, nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "subscribing to %s", subject)
	}
	// make sure the server knows about the subscription before returning
	if err := c.nc.Flush(); err != nil {
		_ = sub.Unsubscribe()
		close(ch)
		return nil, nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "flushing subscription %s", subject)
	}

	cancel := func() {
		once.Do(func() {
			_ = sub.Unsubscribe()
			mu.Lock()
			closed = true
			close(ch)
			mu.Unlock()
		})
	}
	return ch, cancel, nil
}

// Close drains nothing and closes the connection
func (c *Conn) Close() error {
	c.nc.Close()
	return nil
}
