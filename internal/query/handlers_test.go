package query_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dylanrylee/3d-urban-dashboard/internal/query"
)

func postQuery(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	query.Handler(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding error payload: %v", err)
	}
	return payload.Error
}

// TestHandler_EmptyQuery verifies blank query text is rejected with 400
// before any interpreter traffic.
func TestHandler_EmptyQuery(t *testing.T) {
	for _, body := range []string{`{"query": ""}`, `{"query": "   "}`, `{}`} {
		rec := postQuery(t, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
		if msg := decodeError(t, rec); msg != "Query is required" {
			t.Errorf("body %s: error = %q", body, msg)
		}
	}
}

// TestHandler_InvalidBody verifies malformed JSON is a 400.
func TestHandler_InvalidBody(t *testing.T) {
	rec := postQuery(t, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestHandler_MissingInterpreterKey verifies a deployment without
// GEMINI_API_KEY rejects queries with a clear message instead of crashing.
func TestHandler_MissingInterpreterKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	query.Init()

	rec := postQuery(t, `{"query": "buildings over 100 ft"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Missing GEMINI_API_KEY" {
		t.Errorf("error = %q", msg)
	}
}
