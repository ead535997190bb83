// Package analyzer turns an ingested chart image into a validated
// trading signal via a single multimodal inference call.
package analyzer

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/newthinker/chartsight/internal/core"
	"github.com/newthinker/chartsight/internal/ingest"
	"github.com/newthinker/chartsight/internal/llm"
	"github.com/newthinker/chartsight/internal/logger"
	"go.uber.org/zap"
)

const systemPrompt = `You are an expert OTC trading analyst. You read chart screenshots,
identify the prevailing setup, and issue a single actionable signal.
Be precise and conservative: base every call on visible technical
evidence (trend, structure, momentum, volume) only.`

const instruction = `Analyze this trading chart screenshot. Identify whether the setup is a
BUY or a SELL, estimate a confidence score as a percentage, name the
chart timeframe and how long the signal remains valid, and explain the
technical reasoning behind the call.`

// signalSchema is the declarative shape requested from the provider.
// Exactly the five fields of a signal, all required; the timestamp is
// never requested because it is stamped locally.
var signalSchema = &llm.Schema{
	Name: "trading_signal",
	Properties: []llm.Property{
		{Name: "type", Type: "string"},
		{Name: "confidence", Type: "number"},
		{Name: "timeframe", Type: "string"},
		{Name: "validity", Type: "string"},
		{Name: "reasoning", Type: "string"},
	},
	Required: []string{"type", "confidence", "timeframe", "validity", "reasoning"},
}

// Config holds analyzer tuning.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// Analyzer builds the inference request and validates the response.
type Analyzer struct {
	provider llm.Provider
	logger   *zap.Logger
	cfg      Config
}

// New creates a new Analyzer.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *Analyzer {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &Analyzer{provider: provider, logger: logger.OrNop(log), cfg: cfg}
}

// Analyze sends the chart image to the provider and parses the result
// into a Signal. The response is untrusted input: a missing required
// field, an unknown direction, or non-JSON text all reject the
// candidate rather than producing a partial signal.
func (a *Analyzer) Analyze(ctx context.Context, img *ingest.DataURI) (*core.Signal, error) {
	if img == nil {
		return nil, core.ErrNoImage
	}

	req := llm.VisionRequest{
		SystemPrompt: systemPrompt,
		Instruction:  instruction,
		Image: llm.Image{
			MediaType: imageMediaType(img),
			Data:      img.Payload(),
		},
		Schema:      signalSchema,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	}

	resp, err := a.provider.AnalyzeImage(ctx, req)
	if err != nil {
		a.logger.Warn("inference call failed",
			zap.String("provider", a.provider.Name()),
			zap.Error(err),
		)
		return nil, core.WrapError(core.ErrAnalysisFailed, err)
	}

	sig, err := ParseSignal(resp.Content)
	if err != nil {
		a.logger.Warn("response rejected",
			zap.String("provider", a.provider.Name()),
			zap.Error(err),
		)
		return nil, err
	}

	a.logger.Info("signal accepted",
		zap.String("id", sig.ID),
		zap.String("type", string(sig.Type)),
		zap.Float64("confidence", sig.Confidence),
	)
	return sig, nil
}

// Provider returns the underlying provider name.
func (a *Analyzer) Provider() string {
	return a.provider.Name()
}

// imageMediaType keeps the sniffed image type when it is one, and
// falls back to PNG for anything unrecognized.
func imageMediaType(img *ingest.DataURI) string {
	if strings.HasPrefix(img.MediaType, "image/") {
		return img.MediaType
	}
	return "image/png"
}

// rawSignal detects field absence via pointers before any coercion.
type rawSignal struct {
	Type       *string  `json:"type"`
	Confidence *float64 `json:"confidence"`
	Timeframe  *string  `json:"timeframe"`
	Validity   *string  `json:"validity"`
	Reasoning  *string  `json:"reasoning"`
}

// ParseSignal parses raw response text into a Signal. All five fields
// must be present and the direction must be BUY or SELL; the timestamp
// is stamped locally and any timestamp-like field in the response is
// ignored.
func ParseSignal(content string) (*core.Signal, error) {
	text := stripFences(content)
	if text == "" {
		return nil, core.WrapError(core.ErrSignalInvalid, errEmptyResponse)
	}

	var raw rawSignal
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, core.WrapError(core.ErrSignalInvalid, err)
	}

	if raw.Type == nil || raw.Confidence == nil || raw.Timeframe == nil ||
		raw.Validity == nil || raw.Reasoning == nil {
		return nil, core.WrapError(core.ErrSignalInvalid, errMissingFields)
	}

	direction := core.SignalType(strings.ToUpper(strings.TrimSpace(*raw.Type)))
	if !direction.Valid() {
		return nil, core.WrapError(core.ErrSignalInvalid, errUnknownDirection)
	}

	return &core.Signal{
		ID:         uuid.NewString(),
		Type:       direction,
		Confidence: *raw.Confidence,
		Timeframe:  *raw.Timeframe,
		Validity:   *raw.Validity,
		Reasoning:  *raw.Reasoning,
		Timestamp:  time.Now(),
	}, nil
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
