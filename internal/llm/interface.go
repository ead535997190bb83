package llm

import "context"

// Provider defines the interface for multimodal inference providers
type Provider interface {
	Name() string
	AnalyzeImage(ctx context.Context, req VisionRequest) (*VisionResponse, error)
}

// VisionRequest holds a single image-analysis request
type VisionRequest struct {
	SystemPrompt string
	Instruction  string
	Image        Image
	Schema       *Schema // requested structured-output shape, nil for free text
	MaxTokens    int
	Temperature  float64
}

// Image is a base64-encoded, MIME-tagged image payload
type Image struct {
	MediaType string // e.g. "image/png"
	Data      string // base64, no data-URI header
}

// Schema declares the expected shape of the structured response.
// Providers map it onto their native structured-output mechanism, or
// render it into the prompt when none exists.
type Schema struct {
	Name       string
	Properties []Property
	Required   []string
}

// Property is one field of a declared object schema
type Property struct {
	Name string
	Type string // "string" or "number"
}

// VisionResponse holds the provider's raw text response
type VisionResponse struct {
	Content      string
	Usage        Usage
	FinishReason string
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
}
