package httpkit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	phttp "qrgate/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type echoIn struct {
	Text string `json:"text" validate:"required"`
}

func TestSugar(t *testing.T) {
	m := chi.NewRouter()
	r := phttp.AdaptChi(m)
	Get(r, "/g", func(*http.Request) (any, error) { return "got", nil })
	Post(r, "/p", func(*http.Request) (any, error) { return NoContent(), nil })
	PostJSON(r, "/j", func(_ *http.Request, in echoIn) (any, error) { return in, nil })

	cases := []struct {
		method, path, body string
		code               int
		want               string
	}{
		{http.MethodGet, "/g", "", http.StatusOK, `"data":"got"`},
		{http.MethodPost, "/p", "", http.StatusNoContent, ""},
		{http.MethodPost, "/j", `{"text":"XYZ"}`, http.StatusOK, `"text":"XYZ"`},
		{http.MethodPost, "/j", `{}`, http.StatusBadRequest, "text"},
		{http.MethodGet, "/j", "", http.StatusMethodNotAllowed, ""},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		m.ServeHTTP(rec, httptest.NewRequest(c.method, c.path, strings.NewReader(c.body)))
		if rec.Code != c.code || !strings.Contains(rec.Body.String(), c.want) {
			t.Fatalf("%s %s: %d %q", c.method, c.path, rec.Code, rec.Body.String())
		}
	}
}
