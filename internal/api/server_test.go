// internal/api/server_test.go
package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newthinker/chartsight/internal/analyzer"
	"github.com/newthinker/chartsight/internal/app"
	"github.com/newthinker/chartsight/internal/history"
	"github.com/newthinker/chartsight/internal/metrics"
	"github.com/newthinker/chartsight/internal/storage/blob"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	fs, err := blob.NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	hist := history.NewStore(fs, 20, nil)
	an := analyzer.New(&stubProvider{content: goodResponse}, analyzer.Config{}, nil)
	a := app.New(an, hist, nil)
	return NewServer(Config{Host: "127.0.0.1", Port: 0}, a, metrics.NewRegistry(), zap.NewNop())
}

func TestNewServer_Routes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/state", http.StatusOK},
		{http.MethodGet, "/api/history", http.StatusOK},
		{http.MethodPost, "/api/analyze", http.StatusBadRequest}, // no image yet
		{http.MethodGet, "/metrics", http.StatusOK},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		s.httpServer.Handler.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}

func TestNewServer_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for GET /api/analyze, got %d", rec.Code)
	}
}
