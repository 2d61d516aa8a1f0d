package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"qrgate/internal/core/gate"
	"qrgate/internal/services/station/domain"

	"github.com/fatih/color"
)

var (
	good   = color.New(color.FgGreen, color.Bold)
	warn   = color.New(color.FgYellow, color.Bold)
	failed = color.New(color.FgRed, color.Bold)
	faint  = color.New(color.Faint)
)

// printJSON writes v indented
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func stateLabel(s gate.State) string {
	if s == gate.StateArmed {
		return good.Sprint("ARMED")
	}
	return warn.Sprint("DISARMED")
}

func printSnapshot(w io.Writer, s domain.Snapshot) {
	fmt.Fprintf(w, "State:       %s\n", stateLabel(s.State))
	fmt.Fprintf(w, "Template:    %s\n", s.Variant)
	fmt.Fprintf(w, "Base URL:    %s\n", s.BaseURL)
	fmt.Fprintf(w, "Navigations: %d  suppressed: %d  errors: %d\n", s.Navigations, s.Suppressed, s.Errors)
	if s.LastNavigation != nil {
		fmt.Fprintf(w, "Last:        %s %s\n", s.LastNavigation.URL, faint.Sprint(s.LastNavigation.At.Local().Format(time.Kitchen)))
	}
	if len(s.Listeners) > 0 {
		fmt.Fprintln(w, "Listeners:")
		for _, l := range s.Listeners {
			fmt.Fprintf(w, "  %-6s %-12s %s\n", l.Kind, l.Name, faint.Sprintf("since %s", l.Since.Local().Format(time.Kitchen)))
		}
	}
}

func printDecision(w io.Writer, d gate.Decision) {
	switch {
	case d.Accepted && d.Navigation != nil:
		fmt.Fprintf(w, "%s %s\n", good.Sprint("opened"), d.Navigation.URL)
	case d.Reason == gate.ReasonDisarmed:
		fmt.Fprintf(w, "%s station is disarmed, rearm first\n", warn.Sprint("ignored"))
	default:
		fmt.Fprintf(w, "%s %s\n", faint.Sprint("ignored"), d.Reason)
	}
}
