package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Models return JSON in several dresses: markdown-fenced blobs, bare
// objects, arrays of objects. Normalize flattens all of them into a list
// of plain mappings so downstream code never branches on shape.
func Normalize(raw string) ([]map[string]interface{}, error) {
	payload, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		// One repair pass for the usual LLM sins, then give up.
		if err2 := json.Unmarshal([]byte(repairJSON(payload)), &decoded); err2 != nil {
			return nil, fmt.Errorf("%w: invalid JSON: %v", ErrUnrecognizedShape, err)
		}
	}

	switch v := decoded.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{v}, nil
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%w: array element is not an object", ErrUnrecognizedShape)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: top-level value is not an object or array", ErrUnrecognizedShape)
	}
}

// Decode normalizes raw agent output and unmarshals the first mapping
// into out.
func Decode(raw string, out interface{}) error {
	mappings, err := Normalize(raw)
	if err != nil {
		return err
	}
	if len(mappings) == 0 {
		return fmt.Errorf("%w: empty output", ErrUnrecognizedShape)
	}
	buf, err := json.Marshal(mappings[0])
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, out)
}

// extractJSON cuts the JSON payload out of a possibly markdown-wrapped
// response.
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	// Strip ```json ... ``` fences if present.
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	objStart := strings.IndexAny(s, "{[")
	if objStart == -1 {
		return "", fmt.Errorf("%w: no JSON payload found", ErrUnrecognizedShape)
	}
	return s[objStart:], nil
}

var (
	unquotedKeyRe   = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// repairJSON fixes the two malformations seen most often in model
// output: unquoted object keys and trailing commas.
func repairJSON(s string) string {
	s = unquotedKeyRe.ReplaceAllString(s, `$1"$2":`)
	s = trailingCommaRe.ReplaceAllString(s, `$1`)
	return s
}
