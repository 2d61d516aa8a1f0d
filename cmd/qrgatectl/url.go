package main

import (
	"fmt"
	"strings"

	"qrgate/internal/core/urltmpl"

	"github.com/spf13/cobra"
)

func (a *app) urlCmd() *cobra.Command {
	var (
		base     string
		template string
		escape   bool
	)
	cmd := &cobra.Command{
		Use:   "url <text>",
		Short: "Render the URL a scan of text would open",
		Long: `Render the URL a scan of text would open, using the same templates as
the station. Base URL and template default to QRGATE_BASE_URL and
QRGATE_TEMPLATE from the environment or --config file.`,
		GroupID: "tools",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qc := a.cfg.Prefix("QRGATE_")
			if !cmd.Flags().Changed("base") {
				base = qc.MayString("BASE_URL", "")
			}
			if !cmd.Flags().Changed("template") {
				template = qc.MayString("TEMPLATE", urltmpl.NameBookingSummary)
			}
			if !cmd.Flags().Changed("escape") {
				escape = qc.MayBool("ESCAPE_TEXT", false)
			}
			if base == "" {
				return fmt.Errorf("no base URL (use --base or QRGATE_BASE_URL)")
			}

			v, err := urltmpl.Lookup(strings.ToLower(strings.TrimSpace(template)))
			if err != nil {
				return err
			}
			if escape {
				v = urltmpl.Escaped(v)
			}
			u := v.Build(base, args[0])

			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"url": u, "template": v.Name, "target": v.Target, "features": v.Features,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "base URL")
	cmd.Flags().StringVar(&template, "template", urltmpl.NameBookingSummary, "URL template")
	cmd.Flags().BoolVar(&escape, "escape", false, "path-escape the text")
	return cmd
}
