package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shwetalj/jobcanvas/pkg/layout"
	"github.com/shwetalj/jobcanvas/pkg/store"
	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	s := store.NewMemoryStore()
	srv := httptest.NewServer(New(s, layout.Options{}, nil).Handler())
	t.Cleanup(srv.Close)
	return srv, s
}

func testDoc() workflow.Document {
	return workflow.Document{
		Jobs: []workflow.Job{
			{ID: "extract", X: 100, Y: 70},
			{ID: "load", Dependencies: []string{"extract"}, X: 100, Y: 210},
		},
	}
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return er
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", resp.StatusCode)
	}
}

func TestServer_PutGetRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/workflows/etl", testDoc())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT = %d, want 200", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/workflows/etl", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET = %d, want 200", resp.StatusCode)
	}

	var rec store.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.Name != "etl" || len(rec.Document.Jobs) != 2 {
		t.Errorf("record = %q with %d jobs, want etl with 2", rec.Name, len(rec.Document.Jobs))
	}
}

func TestServer_GetMissingReturnsCodedNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/workflows/nope", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET missing = %d, want 404", resp.StatusCode)
	}
	if er := decodeError(t, resp); er.Error.Code != "WORKFLOW_NOT_FOUND" {
		t.Errorf("code = %q, want WORKFLOW_NOT_FOUND", er.Error.Code)
	}
}

func TestServer_PutRejectsDuplicateIDs(t *testing.T) {
	srv, _ := newTestServer(t)

	doc := workflow.Document{Jobs: []workflow.Job{{ID: "a"}, {ID: "a"}}}
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/workflows/dup", doc)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("PUT duplicate = %d, want 400", resp.StatusCode)
	}
	if er := decodeError(t, resp); er.Error.Code != "DUPLICATE_ID" {
		t.Errorf("code = %q, want DUPLICATE_ID", er.Error.Code)
	}
}

func TestServer_PutRejectsUnsafeNames(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/workflows/.hidden", testDoc())
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("PUT unsafe name = %d, want 400", resp.StatusCode)
	}
}

func TestServer_DeleteAndList(t *testing.T) {
	srv, _ := newTestServer(t)

	doJSON(t, http.MethodPut, srv.URL+"/api/workflows/beta", testDoc())
	doJSON(t, http.MethodPut, srv.URL+"/api/workflows/alpha", testDoc())

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/workflows", nil)
	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Workflows) != 2 || list.Workflows[0] != "alpha" {
		t.Errorf("list = %v, want [alpha beta]", list.Workflows)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/workflows/alpha", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE = %d, want 204", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/workflows/alpha", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET deleted = %d, want 404", resp.StatusCode)
	}
}

func TestServer_LayoutArrangesDocument(t *testing.T) {
	srv, _ := newTestServer(t)

	req := layoutRequest{Document: testDoc(), Strategy: "layered"}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/layout", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api/layout = %d, want 200", resp.StatusCode)
	}

	var doc workflow.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if len(doc.Jobs) != 2 {
		t.Fatalf("len(Jobs) = %d, want 2", len(doc.Jobs))
	}
	// extract must be placed above its dependent.
	if doc.Jobs[0].Y >= doc.Jobs[1].Y {
		t.Errorf("extract.Y = %g not above load.Y = %g", doc.Jobs[0].Y, doc.Jobs[1].Y)
	}
}

func TestServer_LayoutRejectsCycle(t *testing.T) {
	srv, _ := newTestServer(t)

	doc := workflow.Document{Jobs: []workflow.Job{
		{ID: "a", Dependencies: []string{"b"}},
		{ID: "b", Dependencies: []string{"a"}},
	}}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/layout", layoutRequest{Document: doc, Strategy: "layered"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("POST cyclic = %d, want 422", resp.StatusCode)
	}
	if er := decodeError(t, resp); er.Error.Code != "CYCLIC_GRAPH" {
		t.Errorf("code = %q, want CYCLIC_GRAPH", er.Error.Code)
	}
}

func TestServer_LayoutRejectsUnknownStrategy(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/layout", layoutRequest{Document: testDoc(), Strategy: "zigzag"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("POST bad strategy = %d, want 400", resp.StatusCode)
	}
	if er := decodeError(t, resp); er.Error.Code != "INVALID_STRATEGY" {
		t.Errorf("code = %q, want INVALID_STRATEGY", er.Error.Code)
	}
}

func TestServer_ExportDOT(t *testing.T) {
	srv, _ := newTestServer(t)

	doJSON(t, http.MethodPut, srv.URL+"/api/workflows/etl", testDoc())

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/workflows/etl/export?format=dot", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET export = %d, want 200", resp.StatusCode)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(buf.String(), `"extract" -> "load";`) {
		t.Errorf("DOT export missing edge:\n%s", buf.String())
	}
}

func TestServer_ExportUnknownFormat(t *testing.T) {
	srv, _ := newTestServer(t)

	doJSON(t, http.MethodPut, srv.URL+"/api/workflows/etl", testDoc())

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/workflows/etl/export?format=gif", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("GET export gif = %d, want 400", resp.StatusCode)
	}
}
