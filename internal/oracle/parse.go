package oracle

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoObject is returned when an oracle response contains no brace-balanced
// JSON object at all.
var ErrNoObject = errors.New("no JSON object in oracle output")

// This file centralizes the defensive handling every oracle response goes
// through: strip code fences, locate the JSON object, parse strictly, then
// retry once with single-quote normalization. The decision engine and the
// insight generator both funnel through Decode/DecodeObject so the fallback
// discipline stays uniform across call sites.

// StripFences removes markdown code-fence markers from an oracle response.
// Models routinely wrap JSON in ```json ... ``` despite instructions.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ExtractObject returns the first brace-balanced JSON object substring in s.
// Braces inside string literals are ignored. The second return is false when
// no balanced object exists.
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

// Decode strips fences and parses raw into v. A strict parse is tried
// first; on failure the raw text is normalized (single-quoted strings
// rewritten to double-quoted) and parsed once more. Anything beyond that is
// the caller's fallback problem.
func Decode(raw string, v interface{}) error {
	cleaned := StripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}
	return json.Unmarshal([]byte(normalizeQuotes(cleaned)), v)
}

// DecodeObject locates the first balanced JSON object in raw and decodes it
// into v with the same strict-then-permissive discipline as Decode.
func DecodeObject(raw string, v interface{}) error {
	cleaned := StripFences(raw)
	obj, ok := ExtractObject(cleaned)
	if !ok {
		return ErrNoObject
	}
	if err := json.Unmarshal([]byte(obj), v); err == nil {
		return nil
	}
	return json.Unmarshal([]byte(normalizeQuotes(obj)), v)
}

// normalizeQuotes rewrites single-quoted JSON strings to double-quoted
// ones. Models trained on Python dict reprs emit 'key': 'value', which
// strict JSON rejects. Double-quoted regions are passed through untouched;
// double quotes inside a single-quoted string are escaped.
func normalizeQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inDouble := false
	inSingle := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		switch {
		case c == '\\':
			b.WriteByte(c)
			escaped = true
		case inDouble:
			if c == '"' {
				inDouble = false
			}
			b.WriteByte(c)
		case inSingle:
			if c == '\'' {
				inSingle = false
				b.WriteByte('"')
			} else if c == '"' {
				b.WriteString(`\"`)
			} else {
				b.WriteByte(c)
			}
		case c == '"':
			inDouble = true
			b.WriteByte(c)
		case c == '\'':
			inSingle = true
			b.WriteByte('"')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
