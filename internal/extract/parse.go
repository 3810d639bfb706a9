package extract

import (
	"encoding/json"
	"strings"
)

// ExtractJSONRegion returns the first balanced {...} region found anywhere in
// the reply. Models routinely wrap JSON in prose or markdown fences, so the
// scanner tracks brace depth while skipping string literals and escapes. The
// second return is false when no complete region exists.
func ExtractJSONRegion(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// DecodeResponse parses the model reply into a loose field map. No JSON
// region, or a region that fails to parse, yields an empty map and the
// validator's defaults take over rather than failing the submission.
func DecodeResponse(text string) map[string]any {
	region, ok := ExtractJSONRegion(text)
	if !ok {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(region), &m); err != nil {
		return map[string]any{}
	}
	if m == nil {
		return map[string]any{}
	}
	return m
}
