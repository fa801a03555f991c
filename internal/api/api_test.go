package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const triangle = `{
  "name": "tri",
  "joints": [
    {"x": 0, "y": 0, "anchor": true},
    {"x": 4, "y": 0, "anchor": true},
    {"x": 2, "y": 3, "load": [0, -100]}
  ],
  "beams": [[0, 1], {"j1": 1, "j2": 2, "area": 0.02}, [2, 0]]
}`

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyze(t *testing.T) {
	h := NewRouter(Options{})
	rec := do(h, "POST", "/api/analyze", triangle)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var doc struct {
		Name    string `json:"name"`
		Success bool   `json:"success"`
		Joints  []struct {
			Reaction *struct{ Y float64 } `json:"reaction"`
		} `json:"joints"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if !doc.Success || doc.Name != "tri" {
		t.Errorf("unexpected document %+v", doc)
	}
	if doc.Joints[0].Reaction == nil || doc.Joints[0].Reaction.Y < 49 || doc.Joints[0].Reaction.Y > 51 {
		t.Errorf("expected ~50 reaction at the pin, got %+v", doc.Joints[0].Reaction)
	}
}

func TestAnalyze_FailedStructureIsStillOK(t *testing.T) {
	body := `{"joints":[{"x":0,"y":0,"anchor":true},{"x":1,"y":0}],"beams":[[0,1]]}`
	rec := do(NewRouter(Options{}), "POST", "/api/analyze", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "At least 2 anchor points") {
		t.Errorf("expected failure reason, got %s", rec.Body)
	}
}

func TestAnalyze_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed", "{", http.StatusBadRequest},
		{"bad beam", `{"joints":[{"x":0,"y":0}],"beams":[[0,1,2]]}`, http.StatusBadRequest},
		{"no joints", `{"joints":[]}`, http.StatusUnprocessableEntity},
		{"duplicate beam", `{"joints":[{"x":0,"y":0},{"x":1,"y":0}],"beams":[[0,1],[1,0]]}`, http.StatusUnprocessableEntity},
	}

	h := NewRouter(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, "POST", "/api/analyze", tt.body)
			if rec.Code != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, rec.Code, rec.Body)
			}
			var e errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil || e.Error == "" {
				t.Errorf("expected JSON error body, got %s", rec.Body)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	body := `{"joints":[{"x":0,"y":0,"anchor":true},{"x":2,"y":0},{"x":4,"y":0,"anchor":true}],"beams":[[0,1],[1,2],[0,2]]}`
	rec := do(NewRouter(Options{}), "POST", "/api/classify", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp classifyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Stable || len(resp.Flagged) != 1 || resp.Flagged[0] != 1 {
		t.Errorf("expected joint 1 flagged, got %+v", resp)
	}
}

func TestReport(t *testing.T) {
	h := NewRouter(Options{})
	tests := []struct {
		format string
		prefix string
	}{
		{"pdf", "%PDF-"},
		{"svg", "<?xml"},
		{"png", "\x89PNG"},
		{"xlsx", "PK"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := do(h, "POST", "/api/report/"+tt.format, triangle)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if !bytes.HasPrefix(rec.Body.Bytes(), []byte(tt.prefix)) {
				t.Errorf("expected %q prefix", tt.prefix)
			}
			if rec.Header().Get("Content-Type") != contentTypes[tt.format] {
				t.Errorf("unexpected content type %s", rec.Header().Get("Content-Type"))
			}
		})
	}

	if rec := do(h, "POST", "/api/report/docx", triangle); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown format, got %d", rec.Code)
	}
}

func TestPresets(t *testing.T) {
	h := NewRouter(Options{})

	rec := do(h, "GET", "/api/presets", "")
	var names []string
	if err := json.Unmarshal(rec.Body.Bytes(), &names); err != nil || len(names) == 0 {
		t.Fatalf("expected preset names, got %s", rec.Body)
	}

	rec = do(h, "GET", "/api/presets/"+names[0], "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	rec = do(h, "GET", "/api/presets/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(NewRouter(Options{}), "GET", "/api/analyze", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	rec := do(NewRouter(Options{}), "OPTIONS", "/api/analyze", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}
}

func TestRateLimit(t *testing.T) {
	h := NewRouter(Options{RateLimit: 0.001, Burst: 2})

	for i := 0; i < 2; i++ {
		if rec := do(h, "GET", "/api/presets", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	if rec := do(h, "GET", "/api/presets", ""); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}

	req := httptest.NewRequest("GET", "/api/presets", nil)
	req.RemoteAddr = "10.0.0.2:999"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected other client unaffected, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.5:4242"
	if got := clientIP(req); got != "192.168.1.5" {
		t.Errorf("expected host only, got %s", got)
	}
	req.RemoteAddr = "garbage"
	if got := clientIP(req); got != "garbage" {
		t.Errorf("expected raw address, got %s", got)
	}
}

func TestServe_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", NewRouter(Options{}), discard())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }
