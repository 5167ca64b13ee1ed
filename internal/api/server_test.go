package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"diagramkit/pkg/config"
	"diagramkit/pkg/pipeline"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return NewServer(config.Default(), pipeline.NewRunner(nil, nil, 0), logger)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := testServer(t).Router()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "ok" {
		t.Errorf("body = %v", resp)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestScanEndpoint(t *testing.T) {
	h := testServer(t).Router()
	rec := postJSON(t, h, "/v1/scan", scanRequest{
		Content: "intro\n```mermaid\nC4Context\nPerson(a, \"A\")\nSystem(b, \"B\")\nRel(a, b, \"x\")\n```\n",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp scanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Stats.Blocks != 1 || resp.Stats.Translated != 1 {
		t.Errorf("stats = %+v", resp.Stats)
	}
	if len(resp.Segments) != 2 {
		t.Fatalf("segments = %d", len(resp.Segments))
	}
	if !strings.Contains(resp.Segments[1].Translated, `a -> b: "x"`) {
		t.Errorf("translated = %q", resp.Segments[1].Translated)
	}
}

func TestScanEndpointInvalidContainer(t *testing.T) {
	h := testServer(t).Router()
	rec := postJSON(t, h, "/v1/scan", scanRequest{Content: "x", Container: "asciidoc"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != "INVALID_CONTAINER" {
		t.Errorf("code = %q", resp.Code)
	}
	if resp.RequestID == "" {
		t.Error("error response missing request id")
	}
}

func TestScanEndpointRejectsUnknownFields(t *testing.T) {
	h := testServer(t).Router()
	rec := postJSON(t, h, "/v1/scan", map[string]any{"content": "x", "bogus": true})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestScanEndpointRequiresJSONContentType(t *testing.T) {
	h := testServer(t).Router()
	req := httptest.NewRequest(http.MethodPost, "/v1/scan", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestTranslateEndpoint(t *testing.T) {
	h := testServer(t).Router()
	rec := postJSON(t, h, "/v1/translate", translateRequest{
		Source: "Person(u, \"User\")\nSystem(s, \"Sys\")\nRel(u, ghost, \"x\")",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp translateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Description, `u: "User"`) {
		t.Errorf("description = %q", resp.Description)
	}
	if len(resp.Warnings) != 1 {
		t.Errorf("warnings = %v", resp.Warnings)
	}
}

func TestRenderEndpointTextFormats(t *testing.T) {
	h := testServer(t).Router()

	rec := postJSON(t, h, "/v1/render", renderRequest{
		Source: "Person(a, \"A\")",
		Format: pipeline.FormatD2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache = %q", rec.Header().Get("X-Cache"))
	}
	if !strings.Contains(rec.Body.String(), `a: "A"`) {
		t.Errorf("body = %q", rec.Body)
	}
}

func TestRenderEndpointInvalidFormat(t *testing.T) {
	h := testServer(t).Router()
	rec := postJSON(t, h, "/v1/render", renderRequest{Source: "Person(a, \"A\")", Format: "png"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	h := testServer(t).Router()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "fixed-id" {
		t.Errorf("X-Request-ID = %q", rec.Header().Get("X-Request-ID"))
	}
}
