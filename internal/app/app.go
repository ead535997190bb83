// Package app owns the application state and drives one analysis
// cycle at a time: Idle -> ImageLoaded -> InFlight -> Idle with either
// a new signal or an error.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/newthinker/chartsight/internal/alert"
	"github.com/newthinker/chartsight/internal/analyzer"
	"github.com/newthinker/chartsight/internal/core"
	"github.com/newthinker/chartsight/internal/history"
	"github.com/newthinker/chartsight/internal/ingest"
	"github.com/newthinker/chartsight/internal/logger"
	"github.com/newthinker/chartsight/internal/metrics"
	"github.com/newthinker/chartsight/internal/notifier"
	"go.uber.org/zap"
)

// User-visible messages. All analysis failures surface the same
// generic message; the cause is only logged.
const (
	MsgAnalysisFailed = "Failed to analyze image. Please try again."
	MsgNoImage        = "Please upload a chart image first."
)

// State is a copy of the application state for presentation.
type State struct {
	ImageURI  string       // current data URI, empty if none
	Current   *core.Signal // most recent accepted signal, nil if none
	LastError string       // last user-visible error, empty if none
	InFlight  bool
}

// App is the single owner of process state. All mutation happens
// through LoadImage and Analyze; presentation only reads snapshots.
type App struct {
	analyzer *analyzer.Analyzer
	history  *history.Store
	logger   *zap.Logger

	metrics  *metrics.Registry // optional
	notifier *notifier.Webhook // optional
	alerts   *alert.Evaluator  // optional, gates the notifier
	timeout  time.Duration

	mu       sync.Mutex
	image    *ingest.DataURI
	current  *core.Signal
	lastErr  string
	inFlight bool
}

// New creates a new App instance
func New(an *analyzer.Analyzer, hist *history.Store, log *zap.Logger) *App {
	return &App{
		analyzer: an,
		history:  hist,
		logger:   logger.OrNop(log),
	}
}

// SetMetrics attaches a metrics registry.
func (a *App) SetMetrics(reg *metrics.Registry) {
	a.metrics = reg
}

// SetNotifier attaches a webhook notifier.
func (a *App) SetNotifier(n *notifier.Webhook) {
	a.notifier = n
}

// SetAlerts attaches alert rules that gate the notifier.
func (a *App) SetAlerts(e *alert.Evaluator) {
	a.alerts = e
}

// SetTimeout bounds each analysis call. Zero means no timeout.
func (a *App) SetTimeout(d time.Duration) {
	a.timeout = d
}

// LoadImage replaces the current image and immediately clears any
// previously shown signal and error, so a stale signal is never
// displayed next to a new image. A nil image is a cancelled selection
// and changes nothing.
func (a *App) LoadImage(img *ingest.DataURI) {
	if img == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.image = img
	a.current = nil
	a.lastErr = ""
}

// LoadImageFile ingests an image file and loads it.
func (a *App) LoadImageFile(path string) error {
	img, err := ingest.FromFile(path)
	if err != nil {
		return err
	}
	a.LoadImage(img)
	return nil
}

// Analyze runs one analysis cycle. A second call while one is in
// flight is rejected, not queued. On success the signal is recorded
// into history; on any failure the state carries the one generic
// user-visible message and the previous signal and history are left
// untouched.
func (a *App) Analyze(ctx context.Context) (*core.Signal, error) {
	a.mu.Lock()
	if a.inFlight {
		a.mu.Unlock()
		return nil, core.ErrAnalysisBusy
	}
	if a.image == nil {
		a.lastErr = MsgNoImage
		a.mu.Unlock()
		return nil, core.ErrNoImage
	}
	a.inFlight = true
	img := a.image
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.inFlight = false
		a.mu.Unlock()
	}()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	sig, err := a.analyzer.Analyze(ctx, img)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		if a.metrics != nil {
			a.metrics.RecordAnalysis(a.analyzer.Provider(), "failure", elapsed)
		}
		a.mu.Lock()
		a.lastErr = MsgAnalysisFailed
		a.mu.Unlock()

		// Schema rejections are a flavor of analysis failure at this boundary.
		if errors.Is(err, core.ErrSignalInvalid) {
			return nil, core.WrapError(core.ErrAnalysisFailed, err)
		}
		return nil, err
	}

	a.history.Record(ctx, *sig)

	if a.metrics != nil {
		a.metrics.RecordAnalysis(a.analyzer.Provider(), "success", elapsed)
		a.metrics.RecordSignal(string(sig.Type))
		a.metrics.SetHistorySize(a.history.Len())
	}
	if a.notifier != nil && (a.alerts == nil || a.alerts.ShouldNotify(*sig)) {
		if err := a.notifier.Send(*sig); err != nil {
			a.logger.Warn("webhook delivery failed", zap.Error(err))
		}
	}

	a.mu.Lock()
	a.current = sig
	a.lastErr = ""
	a.mu.Unlock()

	return sig, nil
}

// Snapshot returns a copy of the current state for presentation.
func (a *App) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := State{
		LastError: a.lastErr,
		InFlight:  a.inFlight,
	}
	if a.image != nil {
		s.ImageURI = a.image.String()
	}
	if a.current != nil {
		sig := *a.current
		s.Current = &sig
	}
	return s
}

// History returns the persisted signal sequence, newest-first.
func (a *App) History() []core.Signal {
	return a.history.All()
}
