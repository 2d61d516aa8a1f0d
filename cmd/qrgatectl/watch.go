package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"qrgate/internal/adapters/console"
	"qrgate/internal/platform/bus"
	"qrgate/internal/services/station/events"

	"github.com/spf13/cobra"
)

func (a *app) watchCmd() *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream station events from NATS",
		Long: `Subscribe to the station's NATS subjects and print every state change,
navigation and alert until interrupted. Needs the station to run with
QRGATE_NATS_URL set.`,
		GroupID: "station",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.natsURL == "" {
				return fmt.Errorf("watch needs --nats or QRGATE_NATS_URL")
			}
			conn, err := bus.Connect(a.natsURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			msgs, cancel, err := conn.Subscribe(subject)
			if err != nil {
				return err
			}
			defer cancel()

			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s on %s\n", faint.Sprint("watching"), subject, a.natsURL)
			return a.printEvents(cmd, msgs)
		},
	}
	cmd.Flags().StringVar(&subject, "subject", bus.SubjectStation, "subject to watch")
	return cmd
}

// printEvents writes one line per event until the context ends or msgs closes
func (a *app) printEvents(cmd *cobra.Command, msgs <-chan []byte) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := a.printEvent(out, data); err != nil {
				return err
			}
		}
	}
}

func (a *app) printEvent(w io.Writer, data []byte) error {
	if a.jsonOutput {
		_, err := fmt.Fprintln(w, strings.TrimSpace(string(data)))
		return err
	}
	var ev events.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		fmt.Fprintf(w, "%s %q\n", warn.Sprint("undecodable event"), data)
		return nil
	}
	line := strings.TrimRight(console.Line(ev), "\r\n")
	if line == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
