// Command qrgatectl is the operator CLI for a scan station
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"qrgate/internal/client"
	"qrgate/internal/core/version"
	"qrgate/internal/platform/config"

	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	configFile string
	stationURL string
	natsURL    string
	jsonOutput bool

	cfg    config.Conf
	client *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "qrgatectl <command>",
		Short:         "Operate a QR scan station",
		Version:       version.Info().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			qc := cfg.Prefix("QRGATE_")
			if !cmd.Flags().Changed("station") {
				a.stationURL = qc.MayString("STATION_URL", a.stationURL)
			}
			if !cmd.Flags().Changed("nats") {
				a.natsURL = qc.MayString("NATS_URL", a.natsURL)
			}
			a.client = client.New(a.stationURL)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", os.Getenv("QRGATE_CONFIG_FILE"), "TOML config file")
	root.PersistentFlags().StringVar(&a.stationURL, "station", "http://localhost:4000", "station base URL")
	root.PersistentFlags().StringVar(&a.natsURL, "nats", "", "NATS URL for watch and scan --via nats")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "output as JSON")

	root.AddGroup(
		&cobra.Group{ID: "station", Title: "Station:"},
		&cobra.Group{ID: "tools", Title: "Tools:"},
	)
	cobra.EnableCommandSorting = false

	root.AddCommand(a.statusCmd())
	root.AddCommand(a.readyCmd())
	root.AddCommand(a.scanCmd())
	root.AddCommand(a.rearmCmd())
	root.AddCommand(a.watchCmd())
	root.AddCommand(a.urlCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, failed.Sprint("error:"), err)
		stop()
		os.Exit(1)
	}
}
