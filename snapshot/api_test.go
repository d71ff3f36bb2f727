package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	_ "modernc.org/sqlite"
)

func testRouter(t *testing.T, svc *Service) *chi.Mux {
	t.Helper()
	r := chi.NewRouter()
	svc.RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleCapture_Success(t *testing.T) {
	// WHAT: A valid request returns 201 and a screenshot_url that the
	// retrieval endpoint then serves as the same PNG.
	fr := &fakeRenderer{png: encodePNG(t, 1920, 1080)}
	svc := testService(t, fr)
	r := testRouter(t, svc)

	rec := postJSON(t, r, "/screenshot", `{"url":"https://example.com","width":1920,"height":1080}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		ScreenshotURL string `json:"screenshot_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(resp.ScreenshotURL, "/screenshots/") || !strings.HasSuffix(resp.ScreenshotURL, ".png") {
		t.Fatalf("screenshot_url: got %q", resp.ScreenshotURL)
	}

	// Fetch it back.
	get := httptest.NewRequest(http.MethodGet, resp.ScreenshotURL, nil)
	rec2 := httptest.NewRecorder()
	r.ServeHTTP(rec2, get)
	if rec2.Code != http.StatusOK {
		t.Fatalf("retrieve status: got %d, want 200", rec2.Code)
	}
	if ct := rec2.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type: got %q", ct)
	}
	img, err := png.Decode(bytes.NewReader(rec2.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode served png: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 1920 || b.Dy() != 1080 {
		t.Fatalf("served image: got %dx%d, want 1920x1080", b.Dx(), b.Dy())
	}
}

func TestHandleCapture_BadRequests(t *testing.T) {
	// WHAT: Malformed JSON and validation failures map to 400 with an
	// error body; the renderer never runs.
	fr := &fakeRenderer{png: encodePNG(t, 8, 8)}
	svc := testService(t, fr)
	r := testRouter(t, svc)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"url": `},
		{"missing url", `{}`},
		{"bad scheme", `{"url":"ftp://example.com"}`},
		{"width too large", `{"url":"https://example.com","width":5000}`},
		{"height too small", `{"url":"https://example.com","height":50}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, r, "/screenshot", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp["error"] == "" {
				t.Fatal("missing error message")
			}
		})
	}
	if fr.calls != 0 {
		t.Fatalf("renderer calls: got %d, want 0", fr.calls)
	}
}

func TestHandleCapture_RenderFailureIsGeneric500(t *testing.T) {
	// WHAT: Engine failures surface as one generic 500 message.
	// WHY: Raw browser errors leak target details and engine internals.
	fr := &fakeRenderer{err: errors.New("net::ERR_CONNECTION_REFUSED at https://internal.example")}
	svc := testService(t, fr)
	r := testRouter(t, svc)

	rec := postJSON(t, r, "/screenshot", `{"url":"https://example.com"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] != "failed to capture screenshot" {
		t.Fatalf("error message: got %q", resp["error"])
	}
	if strings.Contains(rec.Body.String(), "ERR_CONNECTION_REFUSED") {
		t.Fatal("engine error leaked into response body")
	}
}

func TestHandleRetrieve_Missing(t *testing.T) {
	// WHAT: Unknown filenames return 404.
	svc := testService(t, &fakeRenderer{png: encodePNG(t, 8, 8)})
	r := testRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/screenshots/nope.png", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}
}

func TestHandleRetrieve_TraversalRejected(t *testing.T) {
	// WHAT: Encoded traversal segments never resolve outside the storage
	// directory; they 404 like any other bad name.
	svc := testService(t, &fakeRenderer{png: encodePNG(t, 8, 8)})
	r := testRouter(t, svc)

	for _, name := range []string{"..%2F..%2Fetc%2Fpasswd", "%2e%2e%2fsecret.png", ".hidden.png"} {
		req := httptest.NewRequest(http.MethodGet, "/screenshots/"+name, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("name %q: status got %d, want 404", name, rec.Code)
		}
	}
}

func TestHandleList(t *testing.T) {
	// WHAT: GET /api/captures returns the ledger contents as JSON,
	// honouring the limit query param.
	fr := &fakeRenderer{png: encodePNG(t, 8, 8)}
	ledger := testLedger(t)
	svc := testService(t, fr, WithLedger(ledger))
	r := testRouter(t, svc)

	for i := 0; i < 3; i++ {
		rec := postJSON(t, r, "/screenshot", `{"url":"https://example.com"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed capture %d: status %d", i, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/captures?limit=2", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var list []*Capture
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list length: got %d, want 2", len(list))
	}
}
