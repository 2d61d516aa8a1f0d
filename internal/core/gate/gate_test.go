package gate

import (
	"context"
	stderrs "errors"
	"sync"
	"testing"
	"time"

	"qrgate/internal/core/urltmpl"
	perr "qrgate/internal/platform/errors"
	"qrgate/internal/platform/testkit"
)

type recOpener struct {
	mu   sync.Mutex
	navs []Navigation
	err  error
}

func (r *recOpener) Open(_ context.Context, nav Navigation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navs = append(r.navs, nav)
	return r.err
}

func (r *recOpener) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.navs)
}

type recNotifier struct{ errs []*ScanError }

func (r *recNotifier) Notify(_ context.Context, err *ScanError) { r.errs = append(r.errs, err) }

func newGate(t *testing.T, v urltmpl.Variant) (*Gate, *recOpener, *recNotifier) {
	t.Helper()
	op := &recOpener{}
	nt := &recNotifier{}
	g, err := New(Config{
		BaseURL:  "https://x.test",
		Variant:  v,
		Opener:   op,
		Notifier: nt,
		Clock:    func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g, op, nt
}

func TestNew_RequiresWiring(t *testing.T) {
	cases := []Config{
		{Variant: urltmpl.Plain, Opener: &recOpener{}},
		{BaseURL: "https://x.test", Opener: &recOpener{}},
		{BaseURL: "https://x.test", Variant: urltmpl.Plain},
	}
	for i, c := range cases {
		if _, err := New(c); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("case %d: expected invalid argument, got %v", i, err)
		}
	}
}

func TestNew_StartsArmed(t *testing.T) {
	g, _, _ := newGate(t, urltmpl.Plain)
	if g.State() != StateArmed {
		t.Fatalf("expected armed, got %s", g.State())
	}
}

func TestOnResult_SingleShotPerArmCycle(t *testing.T) {
	g, op, _ := newGate(t, urltmpl.Plain)
	ctx := context.Background()

	d := g.OnResult(ctx, "ABC123")
	if !d.Accepted || d.Reason != ReasonAccepted || d.State != StateDisarmed {
		t.Fatalf("first decode not accepted: %+v", d)
	}
	for i := 0; i < 5; i++ {
		d = g.OnResult(ctx, "ABC123")
		if d.Accepted || d.Reason != ReasonDisarmed {
			t.Fatalf("decode %d should be suppressed: %+v", i, d)
		}
	}
	if op.count() != 1 {
		t.Fatalf("expected exactly one navigation, got %d", op.count())
	}
	if g.State() != StateDisarmed {
		t.Fatalf("expected disarmed, got %s", g.State())
	}
}

func TestOnResult_EmptyIsNoop(t *testing.T) {
	g, op, _ := newGate(t, urltmpl.Plain)
	d := g.OnResult(context.Background(), "")
	if d.Accepted || d.Reason != ReasonEmpty || d.State != StateArmed {
		t.Fatalf("empty decode: %+v", d)
	}
	if op.count() != 0 || g.State() != StateArmed {
		t.Fatalf("empty decode changed something: navs=%d state=%s", op.count(), g.State())
	}

	// disarmed stays disarmed on empty input too
	g.OnResult(context.Background(), "x")
	g.OnResult(context.Background(), "")
	if g.State() != StateDisarmed {
		t.Fatalf("expected disarmed, got %s", g.State())
	}
}

func TestRearm_Idempotent(t *testing.T) {
	g, _, _ := newGate(t, urltmpl.Plain)
	for i := 0; i < 3; i++ {
		if s := g.Rearm(); s != StateArmed {
			t.Fatalf("Rearm #%d returned %s", i, s)
		}
	}
	g.OnResult(context.Background(), "x")
	g.Rearm()
	g.Rearm()
	if g.State() != StateArmed {
		t.Fatalf("expected armed, got %s", g.State())
	}
}

func TestOnResult_PlainURL(t *testing.T) {
	g, op, _ := newGate(t, urltmpl.Plain)
	d := g.OnResult(context.Background(), "ABC123")
	if d.Navigation == nil || d.Navigation.URL != "https://x.test/ABC123" {
		t.Fatalf("unexpected navigation: %+v", d.Navigation)
	}
	nav := op.navs[0]
	if nav.Target != "_blank" || nav.Features != "" || nav.Variant != "plain" {
		t.Fatalf("unexpected context: %+v", nav)
	}
	if nav.At != time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) || nav.Text != "ABC123" {
		t.Fatalf("unexpected metadata: %+v", nav)
	}
}

func TestOnResult_BookingSummaryURL(t *testing.T) {
	g, op, _ := newGate(t, urltmpl.BookingSummary)
	g.OnResult(context.Background(), "ABC123")
	nav := op.navs[0]
	if nav.URL != "https://x.test/bookings/booking/ABC123/summary" {
		t.Fatalf("url = %q", nav.URL)
	}
	if nav.Features != "width=1000,height=600" {
		t.Fatalf("features = %q", nav.Features)
	}
}

func TestOnError_DoesNotTouchState(t *testing.T) {
	g, _, nt := newGate(t, urltmpl.Plain)
	g.OnError(context.Background(), stderrs.New("camera denied"))
	if g.State() != StateArmed {
		t.Fatalf("OnError changed armed state")
	}
	g.OnResult(context.Background(), "x")
	g.OnError(context.Background(), stderrs.New("decode failed"))
	if g.State() != StateDisarmed {
		t.Fatalf("OnError changed disarmed state")
	}
	if len(nt.errs) != 2 || nt.errs[0].Source != "scanner" {
		t.Fatalf("unexpected notifications: %+v", nt.errs)
	}
	if nt.errs[0].Error() != "scan error (scanner): camera denied" {
		t.Fatalf("unexpected message %q", nt.errs[0].Error())
	}
}

func TestOnError_NotifierPanicIsContained(t *testing.T) {
	op := &recOpener{}
	g, err := New(Config{
		BaseURL: "https://x.test",
		Variant: urltmpl.Plain,
		Opener:  op,
		Notifier: NotifierFunc(func(context.Context, *ScanError) {
			panic("boom")
		}),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	testkit.MustNotPanic(t, func() { g.OnError(context.Background(), stderrs.New("x")) })
	if g.State() != StateArmed {
		t.Fatalf("state changed")
	}
}

func TestOnResult_OpenerFailureStillDisarms(t *testing.T) {
	g, op, nt := newGate(t, urltmpl.Plain)
	op.err = stderrs.New("no browser")

	d := g.OnResult(context.Background(), "x")
	if !d.Accepted || g.State() != StateDisarmed {
		t.Fatalf("expected accepted+disarmed, got %+v state=%s", d, g.State())
	}
	if len(nt.errs) != 1 || nt.errs[0].Source != "opener" {
		t.Fatalf("expected opener scan error, got %+v", nt.errs)
	}
	if !stderrs.Is(nt.errs[0], op.err) {
		t.Fatalf("scan error should unwrap to opener error")
	}
}

func TestOnResult_ReentrantOpenerCannotOpenTwice(t *testing.T) {
	var g *Gate
	calls := 0
	op := OpenerFunc(func(ctx context.Context, nav Navigation) error {
		calls++
		// a decode delivered while the first navigation is being opened
		if d := g.OnResult(ctx, "again"); d.Accepted {
			t.Errorf("re-entrant decode accepted")
		}
		return nil
	})
	var err error
	g, err = New(Config{BaseURL: "https://x.test", Variant: urltmpl.Plain, Opener: op})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.OnResult(context.Background(), "first")
	if calls != 1 {
		t.Fatalf("expected one open, got %d", calls)
	}
}

func TestEndToEnd_ScanRearmScan(t *testing.T) {
	g, op, _ := newGate(t, urltmpl.BookingSummary)
	ctx := context.Background()

	g.OnResult(ctx, "XYZ")
	if op.count() != 1 || g.State() != StateDisarmed {
		t.Fatalf("after first scan: navs=%d state=%s", op.count(), g.State())
	}
	if op.navs[0].URL != "https://x.test/bookings/booking/XYZ/summary" {
		t.Fatalf("url = %q", op.navs[0].URL)
	}

	// Scan Another
	g.Rearm()
	if g.State() != StateArmed {
		t.Fatalf("expected armed after rearm")
	}

	g.OnResult(ctx, "XYZ")
	if op.count() != 2 {
		t.Fatalf("expected second navigation, got %d", op.count())
	}
	if op.navs[0].ID == op.navs[1].ID {
		t.Fatalf("navigation ids should differ")
	}
}

func TestState_String(t *testing.T) {
	if StateArmed.String() != "armed" || StateDisarmed.String() != "disarmed" {
		t.Fatalf("bad names")
	}
	if State(9).String() != "state(9)" {
		t.Fatalf("bad fallback %q", State(9).String())
	}
	b, _ := StateDisarmed.MarshalText()
	if string(b) != "disarmed" {
		t.Fatalf("MarshalText = %q", b)
	}
}
