// Package modeljson decodes JSON produced by language models, which is
// frequently wrapped in markdown fences, prefixed with prose, or subtly
// malformed (single quotes, trailing commas, unquoted keys).
package modeljson

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Decode parses model output into T. It first tries strict JSON decoding
// of the extracted object; on failure it repairs the text with jsonrepair
// and retries once. An error means the output is not salvageable as T.
func Decode[T any](content string) (T, error) {
	var result T

	candidate := extractObject(content)

	if err := json.Unmarshal([]byte(candidate), &result); err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(candidate)
	if repairErr != nil {
		return result, fmt.Errorf("content is not valid JSON and could not be repaired: %w", repairErr)
	}

	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w", result, err)
	}

	return result, nil
}

// extractObject strips markdown fences and surrounding prose, returning
// the outermost {...} span when one exists. Models often preface JSON
// with "Here is the result:" despite instructions not to.
func extractObject(content string) string {
	trimmed := strings.TrimSpace(content)

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		return trimmed[start : end+1]
	}

	return trimmed
}
