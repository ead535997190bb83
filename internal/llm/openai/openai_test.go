// internal/llm/openai/openai_test.go
package openai

import (
	"testing"

	"github.com/newthinker/chartsight/internal/llm"
	"github.com/sashabaranov/go-openai/jsonschema"
)

func TestProvider_ImplementsInterface(t *testing.T) {
	var _ llm.Provider = (*Provider)(nil)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New("", "model")
	if err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestToDefinition(t *testing.T) {
	s := &llm.Schema{
		Name: "trading_signal",
		Properties: []llm.Property{
			{Name: "type", Type: "string"},
			{Name: "confidence", Type: "number"},
		},
		Required: []string{"type", "confidence"},
	}

	def := toDefinition(s)
	if def.Type != jsonschema.Object {
		t.Errorf("expected object type, got %s", def.Type)
	}
	if def.Properties["type"].Type != jsonschema.String {
		t.Error("type should map to string")
	}
	if def.Properties["confidence"].Type != jsonschema.Number {
		t.Error("confidence should map to number")
	}
	if len(def.Required) != 2 {
		t.Errorf("expected 2 required fields, got %d", len(def.Required))
	}
}
