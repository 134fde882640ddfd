// Package jsonx extracts structured JSON from free-form model output.
// Models wrap JSON in prose or markdown fences more often than not, so
// every parse site goes through the same best-effort extraction.
package jsonx

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractObject returns the first balanced {...} span in text. It strips
// markdown code fences first, then scans brace depth while skipping string
// literals and escapes.
func ExtractObject(text string) (string, bool) {
	text = stripFences(text)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// skip everything else inside strings
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// DecodeObject extracts the first balanced object from text and unmarshals
// it into v. Callers apply their own defaults on failure.
func DecodeObject(text string, v interface{}) error {
	raw, ok := ExtractObject(text)
	if !ok {
		return fmt.Errorf("no JSON object found in model output")
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}
	return nil
}

func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
