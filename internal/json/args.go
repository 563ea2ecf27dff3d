// Package json decodes tool-call arguments leniently. Models occasionally
// emit arguments double-encoded as a JSON string, or wrapped in stray text;
// this package recovers the object instead of failing the call.
package json

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeArguments unmarshals raw tool-call arguments into v. Empty arguments
// decode as an empty object. If raw is not itself valid JSON for v, the first
// balanced object embedded in it is tried before giving up.
func DecodeArguments(raw json.RawMessage, v interface{}) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		trimmed = "{}"
	}

	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	// Arguments double-encoded as a JSON string.
	var inner string
	if err := json.Unmarshal([]byte(trimmed), &inner); err == nil {
		if err := json.Unmarshal([]byte(inner), v); err == nil {
			return nil
		}
	}

	if obj, ok := ExtractObject(trimmed); ok {
		if err := json.Unmarshal([]byte(obj), v); err == nil {
			return nil
		}
	}

	return fmt.Errorf("invalid tool arguments: %s", trimmed)
}

// ExtractObject returns the first balanced JSON object found in s.
// Braces inside string literals are ignored.
func ExtractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
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
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
