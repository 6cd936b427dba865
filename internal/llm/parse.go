package llm

import (
	"encoding/json"
	"strings"
)

const previewLen = 120

// ParseJSON decodes a gateway response into v. The primary path is a direct
// parse; when that fails, the largest brace-delimited substring of the text
// is parsed once more before giving up.
//
// Blank input is rejected with *EmptyResponseError before any parse attempt,
// so callers can distinguish "model said nothing" from "model said something
// malformed". Failure of both parse paths yields *UnparsableResponseError.
func ParseJSON(raw string, v any) error {
	if strings.TrimSpace(raw) == "" {
		return &EmptyResponseError{}
	}

	primaryErr := json.Unmarshal([]byte(raw), v)
	if primaryErr == nil {
		return nil
	}

	if span, ok := braceSpan(raw); ok {
		if err := json.Unmarshal([]byte(span), v); err == nil {
			return nil
		}
	}

	return &UnparsableResponseError{
		Preview: preview(raw),
		Err:     primaryErr,
	}
}

// braceSpan returns the substring from the first '{' to the last '}'.
// This mirrors a greedy regex scan and can, in pathological cases, capture a
// JSON-looking fragment embedded in prose rather than the intended object;
// that looseness is a known limitation kept intentionally.
func braceSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(s, '}')
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func preview(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > previewLen {
		return s[:previewLen]
	}
	return s
}
