package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KargJonas/button-handler/internal/status"
)

func testTracker() *status.Tracker {
	tr := status.NewTracker(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), status.Config{
		PollMs:      20,
		HeartbeatMs: 900000,
		Broker:      "tcp://broker:1883",
		HTTPAddr:    ":8080",
		Chip:        "gpiochip0",
		Pins:        []int{2, 3},
	})
	tr.SetReady()
	tr.RecordPress(2)
	return tr
}

func TestHandleIndex(t *testing.T) {
	s := New(":0", testTracker())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: got %q", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "GPIO2") || !strings.Contains(body, "GPIO3") {
		t.Error("page should list both pins")
	}
	if !strings.Contains(body, "PRESSED") {
		t.Error("page should show pin 2 as PRESSED")
	}
	if !strings.Contains(body, "tcp://broker:1883") {
		t.Error("page should show the broker address")
	}
}

func TestHandleIndexNotReady(t *testing.T) {
	tr := status.NewTracker(time.Now(), status.Config{Pins: []int{2}})
	s := New(":0", tr)

	req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "UNKNOWN") {
		t.Error("pins should render as UNKNOWN before the first poll")
	}
}

func TestHandleJSON(t *testing.T) {
	s := New(":0", testTracker())

	req := httptest.NewRequest(http.MethodGet, "/index.json", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	var parsed status.StatusJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(parsed.Status.Buttons) != 2 {
		t.Fatalf("expected 2 buttons, got %d", len(parsed.Status.Buttons))
	}
	if parsed.Status.Buttons[0].Pin != 2 || parsed.Status.Buttons[0].State != "PRESSED" {
		t.Errorf("button 0: got %+v", parsed.Status.Buttons[0])
	}
}

func TestHandleUnknownPath(t *testing.T) {
	s := New(":0", testTracker())

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}
