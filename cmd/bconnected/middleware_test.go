package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bconnected/marketplace/internal/domain"
	logpkg "github.com/bconnected/marketplace/internal/logger"
)

func TestJSONRecoverer(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/experts", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "internal error" {
		t.Errorf("body = %v", body)
	}
}

func TestJSONRecoverer_AfterStreamStarted(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("0:\"Hello\"\n"))
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/chat", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}
	if body := rr.Body.String(); body != "0:\"Hello\"\n" {
		t.Errorf("body = %q", body)
	}
}

func TestWideEventMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	var sawLogger bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logpkg.FromContext(r.Context()).Info("inside")
		sawLogger = true
		u := domain.UsageFromContext(r.Context())
		u.AddStep(12, 3)
		u.AddToolCall()
		w.WriteHeader(http.StatusTeapot)
	})
	h := chiMiddleware.RequestID(wideEventMiddleware(logger)(inner))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/chat", http.NoBody))

	if !sawLogger {
		t.Fatal("handler not called")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}

	lines := logs.FilterMessage("http_request").All()
	if len(lines) != 1 {
		t.Fatalf("expected one canonical line, got %d", len(lines))
	}
	fields := lines[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status field = %v", fields["status"])
	}
	if fields["prompt_tokens"] != int64(12) || fields["tool_calls"] != int64(1) {
		t.Errorf("usage fields = %v", fields)
	}
	if logs.FilterMessage("inside").Len() != 1 {
		t.Error("request logger not propagated")
	}
}

func TestSessionSecret(t *testing.T) {
	if s, err := sessionSecret("prod", "fixed"); err != nil || string(s) != "fixed" {
		t.Errorf("configured secret = %q, %v", s, err)
	}
	if _, err := sessionSecret("prod", ""); err == nil {
		t.Error("prod without secret must fail")
	}
	a, err := sessionSecret("local", "")
	if err != nil || len(a) != 32 {
		t.Fatalf("local secret = %d bytes, %v", len(a), err)
	}
	b, _ := sessionSecret("local", "")
	if string(a) == string(b) {
		t.Error("ephemeral secrets should differ")
	}
}
