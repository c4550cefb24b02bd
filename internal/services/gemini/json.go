package gemini

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeModelJSON parses JSON from model output, tolerating markdown code
// fences and surrounding prose. Responses frequently arrive as
// "```json\n{...}\n```" or with a sentence before the payload, so the
// decoder strips fences and falls back to the first balanced JSON value.
func DecodeModelJSON(raw string, target any) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fmt.Errorf("decode model json: empty response")
	}

	candidate := stripCodeFences(trimmed)
	if err := json.Unmarshal([]byte(candidate), target); err == nil {
		return nil
	}

	if extracted, ok := extractJSONValue(candidate); ok {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("decode model json: no valid JSON in response: %s", summarize(trimmed))
}

func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag on the opening fence line.
		first := strings.TrimSpace(s[:idx])
		if first == "" || isLanguageTag(first) {
			s = s[idx+1:]
		}
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// extractJSONValue returns the first balanced {...} or [...] in s.
func extractJSONValue(s string) (string, bool) {
	start := -1
	var open, close rune
	for i, r := range s {
		if r == '{' || r == '[' {
			start = i
			open = r
			close = '}'
			if r == '[' {
				close = ']'
			}
			break
		}
	}
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := rune(s[i])
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
