// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/newthinker/chartsight/internal/api/response"
	"github.com/newthinker/chartsight/internal/app"
	"github.com/newthinker/chartsight/internal/core"
	"github.com/newthinker/chartsight/internal/ingest"
	"github.com/newthinker/chartsight/internal/logger"
	"go.uber.org/zap"
)

// maxUploadBytes bounds multipart parsing memory, not the image size.
const maxUploadBytes = 32 << 20

// Application defines the interface the handlers need from app.App.
type Application interface {
	LoadImage(img *ingest.DataURI)
	Analyze(ctx context.Context) (*core.Signal, error)
	Snapshot() app.State
	History() []core.Signal
}

// Handler handles pipeline API requests.
type Handler struct {
	app    Application
	logger *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(application Application, log *zap.Logger) *Handler {
	return &Handler{app: application, logger: logger.OrNop(log)}
}

// stateView is the presentation shape of the application state.
type stateView struct {
	ImageURI  string       `json:"image_uri,omitempty"`
	Current   *core.Signal `json:"current,omitempty"`
	LastError string       `json:"error,omitempty"`
	InFlight  bool         `json:"in_flight"`
}

func toView(s app.State) stateView {
	return stateView{
		ImageURI:  s.ImageURI,
		Current:   s.Current,
		LastError: s.LastError,
		InFlight:  s.InFlight,
	}
}

// Upload accepts a chart screenshot, either as a multipart "image"
// file or as a JSON body carrying a data URI, and loads it as the
// current image.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	img, err := h.readImage(r)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	h.app.LoadImage(img)
	response.JSON(w, http.StatusOK, toView(h.app.Snapshot()))
}

func (h *Handler) readImage(r *http.Request) (*ingest.DataURI, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			DataURI string `json:"data_uri"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, core.WrapError(core.ErrDataURIMalformed, err)
		}
		return ingest.Parse(body.DataURI)
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, core.WrapError(core.ErrImageUnreadable, err)
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, core.WrapError(core.ErrImageUnreadable, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, core.WrapError(core.ErrImageUnreadable, err)
	}
	return ingest.FromBytes(data), nil
}

// Analyze runs one analysis cycle on the current image.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	sig, err := h.app.Analyze(r.Context())
	if err != nil {
		h.logger.Warn("analysis request failed", zap.Error(err))
		response.Error(w, response.StatusFor(err), err)
		return
	}
	response.JSON(w, http.StatusOK, sig)
}

// State returns the current application state.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, toView(h.app.Snapshot()))
}

// History returns the persisted signal sequence, newest-first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	hist := h.app.History()
	response.JSON(w, http.StatusOK, map[string]any{
		"signals": hist,
		"count":   len(hist),
	})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
