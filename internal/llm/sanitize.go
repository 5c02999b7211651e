package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NormalizeResponseJSON makes one attempt to recover the JSON object embedded
// in a model reply: markdown fences are stripped and any prose wrapping the
// object is cut away. The result is guaranteed to decode as a JSON object;
// anything else is an error for the caller to classify.
func NormalizeResponseJSON(raw []byte) ([]byte, error) {
	s := strings.TrimSpace(string(raw))

	// ```json ... ``` or ``` ... ```
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	if strings.HasPrefix(s, "{") && probeObject(s) == nil {
		return []byte(s), nil
	}

	// Prose around the object, leading or trailing: keep the outermost {...}
	// span and try again.
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	s = s[start : end+1]
	if err := probeObject(s); err != nil {
		return nil, fmt.Errorf("decode normalized response: %w", err)
	}
	return []byte(s), nil
}

func probeObject(s string) error {
	var probe map[string]any
	return json.Unmarshal([]byte(s), &probe)
}
