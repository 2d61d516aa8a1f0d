package main

import (
	"fmt"

	"qrgate/internal/adapters/scanner"
	"qrgate/internal/platform/bus"
	"qrgate/internal/services/station/domain"

	"github.com/spf13/cobra"
)

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show the station state and counters",
		GroupID: "station",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := a.client.State(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching state: %w", err)
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), snap)
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

func (a *app) readyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ready",
		Short:   "Check station readiness",
		GroupID: "station",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.client.Ready(cmd.Context())
			if err != nil {
				return fmt.Errorf("checking readiness: %w", err)
			}
			if a.jsonOutput {
				if err := printJSON(cmd.OutOrStdout(), r); err != nil {
					return err
				}
			} else {
				for _, c := range r.Checks {
					label := good.Sprint(c.Status)
					switch c.Status {
					case "fail":
						label = failed.Sprint(c.Status)
					case "skipped":
						label = faint.Sprint(c.Status)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s %s\n", c.Name, label, c.Error)
				}
			}
			if r.Status != "ok" {
				return fmt.Errorf("not ready: %s", r.Status)
			}
			return nil
		},
	}
}

func (a *app) rearmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rearm",
		Short:   "Arm the station for the next scan",
		GroupID: "station",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := a.client.Rearm(cmd.Context(), domain.SourceTerminal)
			if err != nil {
				return fmt.Errorf("rearming: %w", err)
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), snap)
			}
			fmt.Fprintln(cmd.OutOrStdout(), stateLabel(snap.State))
			return nil
		},
	}
}

func (a *app) scanCmd() *cobra.Command {
	var via string
	cmd := &cobra.Command{
		Use:   "scan <text>",
		Short: "Deliver a decoded payload as if it had been scanned",
		Long: `Deliver a decoded payload to the station.

With --via http (default) the payload goes to the station API and the
decision is printed. With --via nats it is published on the decode subject
for the station's NATS source and no decision is available.`,
		GroupID: "station",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch via {
			case "http":
				d, err := a.client.Scan(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("scanning: %w", err)
				}
				if a.jsonOutput {
					return printJSON(cmd.OutOrStdout(), d)
				}
				printDecision(cmd.OutOrStdout(), d)
				return nil
			case "nats":
				if a.natsURL == "" {
					return fmt.Errorf("--via nats needs --nats or QRGATE_NATS_URL")
				}
				conn, err := bus.Connect(a.natsURL)
				if err != nil {
					return err
				}
				defer conn.Close()
				subject := a.cfg.Prefix("QRGATE_").MayString("NATS_DECODE_SUBJECT", bus.SubjectDecode)
				if err := conn.Publish(cmd.Context(), subject, scanner.DecodeMessage{Text: args[0]}); err != nil {
					return fmt.Errorf("publishing: %w", err)
				}
				if err := conn.Ping(cmd.Context()); err != nil {
					return fmt.Errorf("publishing: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", good.Sprint("published"), subject)
				return nil
			default:
				return fmt.Errorf("unknown --via %q (must be http or nats)", via)
			}
		},
	}
	cmd.Flags().StringVar(&via, "via", "http", "delivery path (http or nats)")
	return cmd
}
