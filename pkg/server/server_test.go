package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/flowmark/pkg/cache"
	"github.com/matzehuels/flowmark/pkg/store"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	t.Cleanup(func() { fc.Close() })

	return New(Config{
		Store: store.NewMemoryStore(),
		Cache: fc,
	}).Router()
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz status = %d, want 200", rec.Code)
	}
	if id := rec.Header().Get("X-Request-ID"); id == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestRender_DOT(t *testing.T) {
	h := newTestServer(t)
	body := `{"source": "flowchart TD\n    A --> B\n", "format": "dot"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/render status = %d, body %s", rec.Code, rec.Body.String())
	}
	out := rec.Body.String()
	if !strings.Contains(out, "digraph") || !strings.Contains(out, `"A" -> "B"`) {
		t.Errorf("render output = %q, want DOT with A -> B", out)
	}
	if got := rec.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("X-Cache = %q, want miss on first render", got)
	}

	// Second render of the same source hits the cache.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(body)))
	if got := rec.Header().Get("X-Cache"); got != "hit" {
		t.Errorf("X-Cache = %q, want hit on second render", got)
	}
}

func TestRender_InvalidSyntax(t *testing.T) {
	h := newTestServer(t)
	body := `{"source": "not a flowchart", "format": "dot"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for invalid syntax", rec.Code)
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if resp.Code != "INVALID_SYNTAX" {
		t.Errorf("error code = %q, want INVALID_SYNTAX", resp.Code)
	}
}

func TestRender_UnsupportedFormat(t *testing.T) {
	h := newTestServer(t)
	body := `{"source": "flowchart TD\n    A --> B\n", "format": "gif"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unsupported format", rec.Code)
	}
}

func TestFormat_Canonicalizes(t *testing.T) {
	h := newTestServer(t)
	body := `{"source": "graph TD;A-->B;B-->C"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/format", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/format status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Source string `json:"source"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if !strings.HasPrefix(resp.Source, "flowchart TB\n") {
		t.Errorf("formatted source = %q, want canonical flowchart TB header", resp.Source)
	}
	if !strings.Contains(resp.Source, "A --> B") {
		t.Errorf("formatted source = %q, want canonical arrow", resp.Source)
	}
}

func TestDiagrams_CRUD(t *testing.T) {
	h := newTestServer(t)

	// Create
	body := `{"name": "pipeline", "source": "flowchart TD\n    A --> B\n"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/diagrams/", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var doc store.Document
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decoding created document: %v", err)
	}
	if doc.ID == "" {
		t.Fatal("created document has empty ID")
	}

	// Get
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/diagrams/"+doc.ID, nil))
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d, want 200", rec.Code)
	}

	// Update
	body = `{"name": "pipeline v2", "source": "flowchart LR\n    A --> B\n"}`
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/diagrams/"+doc.ID, strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Errorf("update status = %d, want 200", rec.Code)
	}

	// List
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/diagrams/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("list status = %d, want 200", rec.Code)
	}
	var docs []*store.Document
	if err := json.NewDecoder(rec.Body).Decode(&docs); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "pipeline v2" {
		t.Errorf("list = %+v, want one updated document", docs)
	}

	// Delete
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/diagrams/"+doc.ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/diagrams/"+doc.ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestDiagrams_RejectsInvalidSource(t *testing.T) {
	h := newTestServer(t)
	body := `{"name": "broken", "source": "no header here"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/diagrams/", strings.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("create with invalid source status = %d, want 400", rec.Code)
	}
}
