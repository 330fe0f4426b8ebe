// internal/services/json_repair.go
package services

import (
	"encoding/json"
	"regexp"
	"strings"

	apperrors "github.com/veospark/veospark-server/internal/errors"
)

// ExtractJSONObject recovers a single JSON object from raw model output.
// The text may be clean JSON, JSON inside a fenced code block, JSON wrapped
// in prose, or JSON with small syntax defects (trailing commas, bare
// newlines inside strings). Strategies are tried in order; the first one
// that produces a valid object wins. When every strategy fails the returned
// error is a terminal parse error carrying the raw text.
func ExtractJSONObject(raw string) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(raw)

	// 1. Direct parse.
	if obj, ok := tryParseObject(trimmed); ok {
		return obj, nil
	}

	// 2. Strip an enclosing fenced code block.
	if inner := stripCodeFence(trimmed); inner != "" {
		if obj, ok := tryParseObject(inner); ok {
			return obj, nil
		}
		// Fall through with the fence removed; the remaining strategies
		// work better without the backticks.
		trimmed = inner
	}

	// 3. Balanced-brace scan from the first '{'.
	if candidate := scanBalancedObject(trimmed); candidate != "" {
		if obj, ok := tryParseObject(candidate); ok {
			return obj, nil
		}

		repaired := removeTrailingCommas(candidate)
		if obj, ok := tryParseObject(repaired); ok {
			return obj, nil
		}

		repaired = escapeBareNewlines(repaired)
		if obj, ok := tryParseObject(repaired); ok {
			return obj, nil
		}
	}

	// 4. Last resort: first '{' to last '}' across the whole text.
	first := strings.Index(trimmed, "{")
	last := strings.LastIndex(trimmed, "}")
	if first >= 0 && last > first {
		candidate := trimmed[first : last+1]
		if obj, ok := tryParseObject(candidate); ok {
			return obj, nil
		}
		if obj, ok := tryParseObject(removeTrailingCommas(candidate)); ok {
			return obj, nil
		}
	}

	return nil, apperrors.NewParseError("failed to extract a JSON object from model output", raw, nil)
}

func tryParseObject(text string) (map[string]interface{}, bool) {
	if text == "" {
		return nil, false
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, false
	}
	if obj == nil {
		return nil, false
	}
	return obj, true
}

var codeFencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// stripCodeFence returns the body of the first fenced code block, or ""
// when the text contains none.
func stripCodeFence(text string) string {
	matches := codeFencePattern.FindStringSubmatch(text)
	if len(matches) < 2 {
		return ""
	}
	return strings.TrimSpace(matches[1])
}

// scanBalancedObject walks the text from the first '{' tracking quoted
// strings and backslash escapes, counting braces only outside strings, and
// returns the substring up to the point the nesting balance returns to
// zero. Returns "" when no balanced object is found.
func scanBalancedObject(text string) string {
	start := strings.Index(text, "{")
	if start < 0 {
		return ""
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

		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}

	return ""
}

var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

func removeTrailingCommas(text string) string {
	return trailingCommaPattern.ReplaceAllString(text, "$1")
}

// escapeBareNewlines replaces literal newline characters occurring inside
// quoted strings with the two-character escape sequence.
func escapeBareNewlines(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if escaped {
			escaped = false
			b.WriteByte(c)
			continue
		}

		switch c {
		case '\\':
			if inString {
				escaped = true
			}
			b.WriteByte(c)
		case '"':
			inString = !inString
			b.WriteByte(c)
		case '\n':
			if inString {
				b.WriteString("\\n")
			} else {
				b.WriteByte(c)
			}
		case '\r':
			if inString {
				b.WriteString("\\r")
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
