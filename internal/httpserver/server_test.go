package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/logtap/logtap/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubSource serves a fixed stats snapshot.
type stubSource struct {
	stats model.DaemonStats
}

func (s *stubSource) Stats() model.DaemonStats { return s.stats }

func newTestServer(t *testing.T, stats model.DaemonStats) *gin.Engine {
	t.Helper()
	srv := NewServer("", &stubSource{stats: stats})
	srv.startTime = time.Now()

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/api/health", srv.handleHealth)
	r.GET("/api/status", srv.handleStatus)
	return r
}

func runningStats() model.DaemonStats {
	return model.DaemonStats{
		State:        model.StateRunning,
		SourceUsable: true,
		SourceAlive:  true,
		StartedAt:    time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC),
		Lines:        120,
		Skipped:      3,
		Restarts:     1,
		Slots: []model.SlotStatus{
			{Name: "events", Active: true, Matched: 7},
			{Name: "persist", Active: true, Matched: 40},
			{Name: "debug", Active: false},
		},
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestServer(t, runningStats())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal health: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("health status = %v, want ok", body["status"])
	}
	if body["state"] != "running" {
		t.Errorf("health state = %v, want running", body["state"])
	}
}

func TestHealthEndpoint_Disabled(t *testing.T) {
	stats := model.DaemonStats{State: model.StateDisabled, SourceUsable: false}
	r := newTestServer(t, stats)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal health: %v", err)
	}
	if body["status"] != "disabled" {
		t.Errorf("health status = %v, want disabled", body["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	r := newTestServer(t, runningStats())

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status code = %d, want %d", w.Code, http.StatusOK)
	}

	var body struct {
		State    string `json:"state"`
		Lines    uint64 `json:"lines"`
		Restarts uint64 `json:"restarts"`
		Slots    []struct {
			Name    string `json:"name"`
			Active  bool   `json:"active"`
			Matched uint64 `json:"matched"`
		} `json:"slots"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}

	if body.State != "running" {
		t.Errorf("state = %q, want running", body.State)
	}
	if body.Lines != 120 {
		t.Errorf("lines = %d, want 120", body.Lines)
	}
	if body.Restarts != 1 {
		t.Errorf("restarts = %d, want 1", body.Restarts)
	}
	if len(body.Slots) != 3 {
		t.Fatalf("slots = %d, want 3", len(body.Slots))
	}
	if body.Slots[1].Name != "persist" || body.Slots[1].Matched != 40 {
		t.Errorf("persist slot = %+v, want matched 40", body.Slots[1])
	}
	if body.Slots[2].Active {
		t.Error("debug slot should be inactive")
	}
}

func TestStatusEndpoint_WrongMethod(t *testing.T) {
	r := newTestServer(t, runningStats())

	req := httptest.NewRequest(http.MethodPost, "/api/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Gin returns 405 for method not allowed when a route exists but not for this method
	if w.Code != http.StatusMethodNotAllowed && w.Code != http.StatusNotFound {
		t.Errorf("status POST code = %d, want 405 or 404", w.Code)
	}
}

func TestGinRecovery(t *testing.T) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("panic recovery status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
