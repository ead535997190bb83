package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/newthinker/chartsight/internal/core"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]string{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %s", ct)
	}

	var resp SuccessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Meta.Timestamp.IsZero() {
		t.Error("expected a meta timestamp")
	}
}

func TestError_CoreError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, core.ErrNoImage)

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error.Code != "NO_IMAGE" {
		t.Errorf("expected NO_IMAGE code, got %s", resp.Error.Code)
	}
}

func TestError_CauseNotLeaked(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := core.WrapError(core.ErrAnalysisFailed, errors.New("api key sk-secret rejected"))
	Error(rec, http.StatusBadGateway, wrapped)

	if strings.Contains(rec.Body.String(), "sk-secret") {
		t.Error("cause should not be leaked to the client")
	}
}

func TestError_UnknownError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusInternalServerError, errors.New("boom"))

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR, got %s", resp.Error.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrNoImage, http.StatusBadRequest},
		{core.ErrDataURIMalformed, http.StatusBadRequest},
		{core.ErrImageUnreadable, http.StatusBadRequest},
		{core.ErrAnalysisBusy, http.StatusConflict},
		{core.ErrAnalysisFailed, http.StatusBadGateway},
		{core.ErrSignalInvalid, http.StatusBadGateway},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
