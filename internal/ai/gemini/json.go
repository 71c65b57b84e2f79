package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// jsonGenerator is the narrow generation contract the typed components
// need. *Client satisfies it; tests substitute stubs.
type jsonGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// decodeResponse strips markdown fences from a model response and decodes
// the remaining JSON into target.
func decodeResponse(raw string, target any) error {
	cleaned := extractJSON(raw)
	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		return fmt.Errorf("parse gemini response: %w", err)
	}
	return nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func joinLimited(items []string, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ", ")
}
