package net_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "qrgate/internal/platform/errors"
	pnet "qrgate/internal/platform/net"
)

func TestRequestID(t *testing.T) {
	base := context.Background()
	if got := pnet.RequestID(base); got != "" {
		t.Fatalf("empty ctx gave %q", got)
	}
	if ctx := pnet.WithRequestID(base, ""); ctx != base {
		t.Fatalf("empty id should leave ctx untouched")
	}
	if got := pnet.RequestID(pnet.WithRequestID(base, "req-123")); got != "req-123" {
		t.Fatalf("RequestID = %q", got)
	}
}

func TestReply(t *testing.T) {
	env := pnet.Reply(http.StatusCreated, map[string]int{"n": 1}, "r1")
	if env.StatusCode != http.StatusCreated || env.Status != "Created" || env.RequestID != "r1" || env.Data == nil {
		t.Fatalf("Reply = %+v", env)
	}
}

func TestFailure(t *testing.T) {
	status, env := pnet.Failure(perr.Unavailablef("station stopped"), "r3")
	if status != http.StatusServiceUnavailable || env.Code != perr.ErrorCodeUnavailable || env.Error != "station stopped" {
		t.Fatalf("Failure = %d %+v", status, env)
	}

	status, env = pnet.Failure(errors.New("disk on fire"), "")
	if status != http.StatusInternalServerError || env.Code != perr.ErrorCodeUnknown || env.Status != "Internal Server Error" {
		t.Fatalf("plain error = %d %+v", status, env)
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	pnet.WriteJSON(rec, http.StatusTeapot, pnet.Reply(http.StatusTeapot, "short and stout", ""))
	if rec.Code != http.StatusTeapot || rec.Header().Get("Content-Type") != "application/json; charset=utf-8" {
		t.Fatalf("WriteJSON = %d %v", rec.Code, rec.Header())
	}
	var env pnet.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil || env.Data != "short and stout" {
		t.Fatalf("body = %q %v", rec.Body.String(), err)
	}
}
