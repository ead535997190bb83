// internal/api/handler_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/newthinker/chartsight/internal/analyzer"
	"github.com/newthinker/chartsight/internal/app"
	"github.com/newthinker/chartsight/internal/history"
	"github.com/newthinker/chartsight/internal/ingest"
	"github.com/newthinker/chartsight/internal/llm"
	"github.com/newthinker/chartsight/internal/storage/blob"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

const goodResponse = `{"type":"BUY","confidence":92,"timeframe":"5M","validity":"5 min","reasoning":"breakout"}`

type stubProvider struct {
	content string
	calls   int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) AnalyzeImage(ctx context.Context, req llm.VisionRequest) (*llm.VisionResponse, error) {
	s.calls++
	return &llm.VisionResponse{Content: s.content}, nil
}

func newTestHandler(t *testing.T, provider *stubProvider) *Handler {
	t.Helper()
	fs, err := blob.NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	hist := history.NewStore(fs, 20, nil)
	an := analyzer.New(provider, analyzer.Config{}, nil)
	return NewHandler(app.New(an, hist, nil), nil)
}

func multipartBody(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "chart.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestHandler_UploadMultipart(t *testing.T) {
	h := newTestHandler(t, &stubProvider{content: goodResponse})

	body, contentType := multipartBody(t, "image", pngBytes)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "data:image/png;base64,") {
		t.Error("state should carry the uploaded image as a data URI")
	}
}

func TestHandler_UploadDataURI(t *testing.T) {
	h := newTestHandler(t, &stubProvider{content: goodResponse})

	uri := ingest.FromBytes(pngBytes).String()
	body, _ := json.Marshal(map[string]string{"data_uri": uri})
	req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_UploadMalformedDataURI(t *testing.T) {
	h := newTestHandler(t, &stubProvider{content: goodResponse})

	body, _ := json.Marshal(map[string]string{"data_uri": "not-a-data-uri"})
	req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_UploadMissingFile(t *testing.T) {
	h := newTestHandler(t, &stubProvider{content: goodResponse})

	body, contentType := multipartBody(t, "wrong_field", pngBytes)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_AnalyzeWithoutImage(t *testing.T) {
	provider := &stubProvider{content: goodResponse}
	h := newTestHandler(t, provider)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if provider.calls != 0 {
		t.Errorf("no provider call should have been made, got %d", provider.calls)
	}
	if !strings.Contains(rec.Body.String(), "NO_IMAGE") {
		t.Errorf("expected NO_IMAGE code in body: %s", rec.Body.String())
	}
}

func TestHandler_AnalyzeFlow(t *testing.T) {
	h := newTestHandler(t, &stubProvider{content: goodResponse})

	// Upload
	body, contentType := multipartBody(t, "image", pngBytes)
	upReq := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	upReq.Header.Set("Content-Type", contentType)
	h.Upload(httptest.NewRecorder(), upReq)

	// Analyze
	rec := httptest.NewRecorder()
	h.Analyze(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"type":"BUY"`) {
		t.Errorf("expected BUY signal in body: %s", rec.Body.String())
	}

	// History now holds one entry
	histRec := httptest.NewRecorder()
	h.History(histRec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	if !strings.Contains(histRec.Body.String(), `"count":1`) {
		t.Errorf("expected one history entry: %s", histRec.Body.String())
	}
}

func TestHandler_AnalyzeBadResponseSurfacesGateway(t *testing.T) {
	h := newTestHandler(t, &stubProvider{content: "no signal here"})

	body, contentType := multipartBody(t, "image", pngBytes)
	upReq := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	upReq.Header.Set("Content-Type", contentType)
	h.Upload(httptest.NewRecorder(), upReq)

	rec := httptest.NewRecorder()
	h.Analyze(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", nil))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestHandler_State(t *testing.T) {
	h := newTestHandler(t, &stubProvider{content: goodResponse})

	rec := httptest.NewRecorder()
	h.State(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"in_flight":false`) {
		t.Errorf("expected idle state: %s", rec.Body.String())
	}
}

func TestHandler_Health(t *testing.T) {
	h := newTestHandler(t, &stubProvider{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
