package http

import (
	stdhttp "net/http"

	"qrgate/internal/core/gate"
	"qrgate/internal/modkit/swaggerkit"
	"qrgate/internal/services/station/domain"
)

// OpenAPI documents the station routes mounted under prefix
func OpenAPI(prefix string) swaggerkit.SpecMutator {
	snap := domain.Snapshot{State: gate.StateArmed, Variant: "booking_summary", BaseURL: "https://bookings.example.com"}
	return func(s swaggerkit.Spec) {
		s.Add(stdhttp.MethodGet, prefix+"/state", swaggerkit.Operation{
			Tag: "Station", Summary: "Current station state and counters", Example: snap,
		})
		s.Add(stdhttp.MethodGet, prefix+"/config", swaggerkit.Operation{
			Tag: "Station", Summary: "Scanner page configuration",
			Example: domain.PageConfig{Variant: "booking_summary", RearmKey: "space", ScanSuccessDelayMs: 1000, ScanAttemptDelayMs: 1000},
		})
		s.Add(stdhttp.MethodPost, prefix+"/scan", swaggerkit.Operation{
			Tag: "Station", Summary: "Deliver one decoded payload",
			Body:    domain.ScanRequest{Text: "ABC123"},
			Example: gate.Decision{
				Accepted: true, Reason: gate.ReasonAccepted, State: gate.StateDisarmed,
				Navigation: &gate.Navigation{
					Text: "ABC123", URL: "https://bookings.example.com/bookings/booking/ABC123/summary",
					Target: "_blank", Variant: "booking_summary",
				},
			},
		})
		s.Add(stdhttp.MethodPost, prefix+"/error", swaggerkit.Operation{
			Tag: "Station", Summary: "Report a scanner failure",
			Body:   domain.ErrorRequest{Message: "camera not found"},
			Status: stdhttp.StatusNoContent,
		})
		s.Add(stdhttp.MethodPost, prefix+"/rearm", swaggerkit.Operation{
			Tag: "Station", Summary: "Arm the station for the next scan",
			Body: domain.RearmRequest{Source: domain.SourceButton}, Example: snap,
		})
	}
}
