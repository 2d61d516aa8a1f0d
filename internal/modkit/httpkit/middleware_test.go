package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func applyStack(h http.Handler, stack []func(http.Handler) http.Handler) http.Handler {
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	return h
}

func TestCommonStack_HealthShortCircuits(t *testing.T) {
	root := applyStack(http.NotFoundHandler(), CommonStack(nil))

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected /health 200, got %d", rr.Code)
	}
}

func TestCommonStack_ReachesHandlerAndRecovers(t *testing.T) {
	hit := 0
	root := applyStack(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit++
		if r.URL.Path == "/panic" {
			panic("boom")
		}
		w.WriteHeader(http.StatusNoContent)
	}), CommonStack([]string{"https://kiosk.test"}))

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/state/", nil))
	if hit != 1 || rr.Code != http.StatusNoContent {
		t.Fatalf("hit=%d code=%d", hit, rr.Code)
	}

	rr = httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("panic should map to 500, got %d", rr.Code)
	}
}
