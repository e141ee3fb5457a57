package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rmohan/halite-rl-env/halite"
)

func newTestServer() *Server {
	return New(halite.DefaultConstants())
}

func doJSON(t *testing.T, s *Server, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func createTestSession(t *testing.T, s *Server) string {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/sessions", map[string]any{
		"players": 2, "size": 32, "seed": 5, "map_type": "fractal",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create returned %d: %s", w.Code, w.Body)
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ID == "" {
		t.Fatalf("empty session id")
	}
	return resp.ID
}

func TestCreateSessionDefaults(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("create without a body returned %d: %s", w.Code, w.Body)
	}
	var resp struct {
		Observation struct {
			Width int   `json:"width"`
			Banks []int `json:"banks"`
		} `json:"observation"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Observation.Width != 32 {
		t.Errorf("default width = %d, want 32", resp.Observation.Width)
	}
	if len(resp.Observation.Banks) != 2 {
		t.Errorf("default player count = %d, want 2", len(resp.Observation.Banks))
	}
}

func TestCreateSessionRejectsBadMapType(t *testing.T) {
	s := newTestServer()
	w := doJSON(t, s, http.MethodPost, "/sessions", map[string]any{
		"players": 2, "size": 32, "map_type": "volcanic",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestStepSession(t *testing.T) {
	s := newTestServer()
	id := createTestSession(t, s)

	w := doJSON(t, s, http.MethodPost, "/sessions/"+id+"/step", map[string]any{
		"commands": [][]map[string]any{{}, {}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("step returned %d: %s", w.Code, w.Body)
	}
	var resp struct {
		Turn    int       `json:"turn"`
		Done    bool      `json:"done"`
		Rewards []float64 `json:"rewards"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Turn != 1 {
		t.Errorf("turn = %d, want 1", resp.Turn)
	}
	if resp.Done {
		t.Errorf("done after one turn")
	}
	if len(resp.Rewards) != 2 {
		t.Errorf("%d rewards, want 2", len(resp.Rewards))
	}
}

func TestStepRejectsUnknownCommand(t *testing.T) {
	s := newTestServer()
	id := createTestSession(t, s)

	w := doJSON(t, s, http.MethodPost, "/sessions/"+id+"/step", map[string]any{
		"commands": [][]map[string]any{
			{{"x": 0, "y": 0, "command": "teleport"}},
			{},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown command, got %d", w.Code)
	}
}

func TestStepRejectsWrongPlayerCount(t *testing.T) {
	s := newTestServer()
	id := createTestSession(t, s)

	w := doJSON(t, s, http.MethodPost, "/sessions/"+id+"/step", map[string]any{
		"commands": [][]map[string]any{{}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a missing command set, got %d", w.Code)
	}
}

func TestResetSession(t *testing.T) {
	s := newTestServer()
	id := createTestSession(t, s)

	doJSON(t, s, http.MethodPost, "/sessions/"+id+"/step", map[string]any{
		"commands": [][]map[string]any{{}, {}},
	})
	w := doJSON(t, s, http.MethodPost, "/sessions/"+id+"/reset", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reset returned %d: %s", w.Code, w.Body)
	}
	var resp struct {
		Observation struct {
			Turn int `json:"turn"`
		} `json:"observation"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Observation.Turn != 0 {
		t.Errorf("turn after reset = %d, want 0", resp.Observation.Turn)
	}
}

func TestRenderSession(t *testing.T) {
	s := newTestServer()
	id := createTestSession(t, s)

	req := httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/render", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("render returned %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Errorf("empty image body")
	}
}

func TestDeleteSession(t *testing.T) {
	s := newTestServer()
	id := createTestSession(t, s)

	req := httptest.NewRequest(http.MethodDelete, "/sessions/"+id, nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete returned %d", w.Code)
	}

	w2 := doJSON(t, s, http.MethodPost, "/sessions/"+id+"/step", map[string]any{
		"commands": [][]map[string]any{{}, {}},
	})
	if w2.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w2.Code)
	}
}

func TestUnknownSession(t *testing.T) {
	s := newTestServer()
	for _, url := range []string{"/sessions/99/step", "/sessions/99/reset"} {
		w := doJSON(t, s, http.MethodPost, url, map[string]any{
			"commands": [][]map[string]any{{}, {}},
		})
		if w.Code != http.StatusNotFound {
			t.Errorf("%s returned %d, want 404", url, w.Code)
		}
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	s := newTestServer()
	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		id := createTestSession(t, s)
		if seen[id] {
			t.Fatalf("duplicate session id %s", id)
		}
		seen[id] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 sessions, got %d", len(seen))
	}
}
