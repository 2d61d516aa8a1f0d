package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "qrgate/internal/platform/errors"
)

type scan struct {
	Text   string `json:"text" validate:"max=8"`
	Source string `json:"source,omitempty" validate:"omitempty,oneof=button key"`
}

func post(body string) *http.Request {
	if body == "" {
		return httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	}
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestParseJSON(t *testing.T) {
	got, err := ParseJSON[scan](post(`{"text":"ABC"}`))
	if err != nil || got.Text != "ABC" {
		t.Fatalf("got %+v, %v", got, err)
	}

	cases := []struct {
		name string
		body string
		opt  []JSONOptions
		code perr.ErrorCode
	}{
		{"empty", ``, nil, perr.ErrorCodeJSON},
		{"malformed", `{`, nil, perr.ErrorCodeJSON},
		{"unknown field", `{"text":"a","x":1}`, nil, perr.ErrorCodeJSON},
		{"trailing", `{"text":"a"} {}`, nil, perr.ErrorCodeJSON},
		{"too large", `{"text":"abcdefgh"}`, []JSONOptions{{MaxBytes: 8, DisallowUnknown: true}}, perr.ErrorCodeJSON},
		{"max", `{"text":"abcdefghij"}`, nil, perr.ErrorCodeValidation},
		{"oneof", `{"text":"a","source":"fax"}`, nil, perr.ErrorCodeValidation},
	}
	for _, c := range cases {
		_, err := ParseJSON[scan](post(c.body), c.opt...)
		if perr.CodeOf(err) != c.code {
			t.Fatalf("%s: code %v (%v), want %v", c.name, perr.CodeOf(err), err, c.code)
		}
	}
}

func TestParseJSON_EmptyAllowed(t *testing.T) {
	got, err := ParseJSON[scan](post(``), JSONOptions{AllowEmptyBody: true})
	if err != nil || got != (scan{}) {
		t.Fatalf("got %+v, %v", got, err)
	}

	got, err = ParseJSON[scan](post(`{"text":"x"}`), JSONOptions{})
	if err != nil || got.Text != "x" {
		t.Fatalf("zero options: %+v, %v", got, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	if _, err := ParseJSON[scan](req); err != nil {
		t.Fatalf("GET without body: %v", err)
	}
}

func TestValidate_Messages(t *testing.T) {
	err := Validate(scan{Text: "abcdefghij"})
	if e, ok := perr.As(err); !ok || e.Error() == "" {
		t.Fatalf("expected project error, got %v", err)
	}
	if w := perr.WireFrom(err); w.Message != "text must be at most 8" || w.Field != "text" {
		t.Fatalf("wire = %+v", w)
	}

	if w := perr.WireFrom(Validate(scan{Source: "fax"})); w.Message != "source must be one of [button key]" {
		t.Fatalf("oneof message = %q", w.Message)
	}
	if Validate(scan{Text: "ok", Source: "key"}) != nil {
		t.Fatalf("valid payload rejected")
	}
}

func TestRegisterValidation(t *testing.T) {
	if err := RegisterValidation("never", func(FieldLevel) bool { return false }); err != nil {
		t.Fatalf("register: %v", err)
	}
	type S struct {
		N int `json:"n" validate:"never"`
	}
	_, msg := ValidationFieldAndMessage(Get().Validator.Struct(S{}))
	if msg == "" {
		t.Fatalf("expected a message for the custom tag")
	}
}
