package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogging_RecordsStatusAndBytes(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logging(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("abc"))
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/companies", nil))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d", rr.Code)
	}
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line: %v (%s)", err, buf.String())
	}
	if rec["msg"] != "http_request" || rec["status"] != float64(201) || rec["bytes"] != float64(3) || rec["path"] != "/api/companies" {
		t.Fatalf("unexpected log: %v", rec)
	}
}

func TestLogging_ImplicitOK(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logging(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var rec map[string]any
	_ = json.Unmarshal(buf.Bytes(), &rec)
	if rec["status"] != float64(200) {
		t.Fatalf("unexpected status in log: %v", rec["status"])
	}
}

func TestLogging_UpgradeKeepsWriter(t *testing.T) {
	rr := httptest.NewRecorder()
	var got http.ResponseWriter
	h := Logging(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = w
	}))
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	h.ServeHTTP(rr, req)

	if got != http.ResponseWriter(rr) {
		t.Fatalf("upgrade request should reach the handler with the original writer")
	}
}
