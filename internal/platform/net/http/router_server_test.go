package http_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"qrgate/internal/platform/config"
	phttp "qrgate/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestNewServer_DefaultsAndRouting(t *testing.T) {
	optCalled := false
	srv := phttp.NewServer(config.New().Prefix("TEST_API_"), func(*chi.Mux) { optCalled = true })
	if !optCalled {
		t.Fatalf("expected option hook to run")
	}
	if srv.Addr() != ":4000" {
		t.Fatalf("addr = %q", srv.Addr())
	}

	r := srv.Router()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-MW", "yes")
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })
	r.Route("/api", func(sub phttp.Router) {
		sub.Post("/scan", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) })
		sub.Handle("/raw", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) }))
	})

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/ping", http.StatusOK},
		{http.MethodPost, "/api/scan", http.StatusCreated},
		{http.MethodGet, "/api/raw", http.StatusAccepted},
		{http.MethodGet, "/api/scan", http.StatusMethodNotAllowed},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(c.method, c.path, nil))
		if rec.Code != c.want {
			t.Fatalf("%s %s = %d, want %d", c.method, c.path, rec.Code, c.want)
		}
		if rec.Header().Get("X-MW") != "yes" {
			t.Fatalf("%s %s: middleware header missing", c.method, c.path)
		}
	}
}

func TestNewServer_AddrFromConfig(t *testing.T) {
	t.Setenv("TEST_API_ADDR", ":12345")
	if got := phttp.NewServer(config.New().Prefix("TEST_API_")).Addr(); got != ":12345" {
		t.Fatalf("addr = %q", got)
	}
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	t.Setenv("TEST_API_SHUTDOWN_GRACE", "1s")
	srv := phttp.NewServer(config.New().Prefix("TEST_API_"))

	// a handler that only returns when its request context ends
	released := make(chan struct{})
	srv.Router().Get("/hold", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		<-r.Context().Done()
		close(released)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/hold")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	cancel()
	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatalf("held request was not released on shutdown")
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Serve did not return after cancel")
	}
}

func TestServer_Run_ReturnsListenError(t *testing.T) {
	t.Setenv("TEST_API_ADDR", "127.0.0.1:abc")
	if err := phttp.NewServer(config.New().Prefix("TEST_API_")).Run(context.Background()); err == nil {
		t.Fatalf("expected listen error")
	}
}
