package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	stderrs "errors"
	"strings"

	perr "qrgate/internal/platform/errors"
	"qrgate/internal/platform/logger"
	"qrgate/internal/services/station/domain"
)

// Subscriber is the bus surface NATSSource needs; bus.Conn implements it
type Subscriber interface {
	Subscribe(subject string) (<-chan []byte, func(), error)
}

// DecodeMessage is the JSON form of a remote decode. Exactly one of Text or
// Error is expected; a payload that is not a JSON object is taken as text
type DecodeMessage struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// NATSSource receives decodes published by remote scanners
type NATSSource struct {
	sub     Subscriber
	subject string
	l       domain.Listener
}

// NewNATSSource subscribes to subject on sub and delivers to l
func NewNATSSource(sub Subscriber, subject string, l domain.Listener) *NATSSource {
	return &NATSSource{sub: sub, subject: subject, l: l}
}

// Run delivers messages until ctx is done or the subscription closes
func (s *NATSSource) Run(ctx context.Context) error {
	defer s.l.Release()
	log := logger.C(ctx).With().Str("source", domain.KindNATS).Str("subject", s.subject).Logger()

	msgs, cancel, err := s.sub.Subscribe(s.subject)
	if err != nil {
		return err
	}
	defer cancel()
	log.Info().Msg("nats decode source subscribed")

	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-msgs:
			if !ok {
				log.Info().Msg("nats decode subscription closed")
				return nil
			}
			msg := ParseDecode(data)
			if msg.Error != "" {
				err = s.l.Error(ctx, stderrs.New(msg.Error))
			} else {
				_, err = s.l.Result(ctx, msg.Text)
			}
			if perr.IsCode(err, perr.ErrorCodeUnavailable) {
				log.Info().Msg("station gone, nats source stopping")
				return nil
			}
			if err != nil {
				log.Warn().Err(err).Msg("deliver remote decode")
			}
		}
	}
}

// ParseDecode reads a decode message, falling back to raw text
func ParseDecode(data []byte) DecodeMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var m DecodeMessage
		if err := json.Unmarshal(trimmed, &m); err == nil {
			m.Text = strings.TrimSpace(m.Text)
			return m
		}
	}
	return DecodeMessage{Text: string(trimmed)}
}
