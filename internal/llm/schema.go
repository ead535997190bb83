package llm

import (
	"fmt"
	"strings"
)

// PromptText renders the schema as an instruction fragment for
// providers without a native structured-output mechanism.
func (s *Schema) PromptText() string {
	var sb strings.Builder

	sb.WriteString("Respond with a single JSON object and nothing else (no markdown, no prose).\n")
	sb.WriteString("The object must have exactly these fields:\n")
	for _, p := range s.Properties {
		sb.WriteString(fmt.Sprintf("- %s (%s)\n", p.Name, p.Type))
	}
	if len(s.Required) > 0 {
		sb.WriteString("Required fields: " + strings.Join(s.Required, ", ") + ".")
	}

	return sb.String()
}
