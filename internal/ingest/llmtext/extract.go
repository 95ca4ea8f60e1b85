package llmtext

import (
	"encoding/json"
	"errors"
	"strings"
)

// Extraction failure taxonomy. ErrNoJSONFound means nothing in the text
// resembled a JSON value; ErrInvalidJSON means the text looked like JSON
// (started with '{' or '[') but did not parse. The distinction drives
// user-facing diagnostics and downstream confidence scoring.
var (
	ErrNoJSONFound = errors.New("no_json_found")
	ErrInvalidJSON = errors.New("invalid_json")
)

// ExtractJSON pulls the first valid JSON value out of arbitrary model
// output. It tries, in order: the whole trimmed text, the text with code
// fences stripped, and finally a brace-matching scan for the first complete
// top-level object or array.
func ExtractJSON(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrNoJSONFound
	}

	if json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	if unfenced, ok := stripCodeFences(trimmed); ok {
		if json.Valid([]byte(unfenced)) {
			return unfenced, nil
		}
	}

	if span, ok := scanJSONSpan(trimmed); ok {
		if json.Valid([]byte(span)) {
			return span, nil
		}
		return "", ErrInvalidJSON
	}

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return "", ErrInvalidJSON
	}
	return "", ErrNoJSONFound
}

// stripCodeFences removes leading/trailing markdown fence markers, with an
// optional language tag on the opening fence. Returns ok=false when the
// text is not fenced.
func stripCodeFences(s string) (string, bool) {
	if !strings.HasPrefix(s, "```") {
		return s, false
	}
	body := s[3:]
	// Drop the language tag (e.g. "json") up to the first newline.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(body[:nl])
		if firstLine == "" || isLanguageTag(firstLine) {
			body = body[nl+1:]
		}
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body), true
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// scanJSONSpan walks the text tracking brace/bracket depth and string state
// and returns the first complete top-level {...} or [...] span. Braces and
// brackets inside quoted strings are ignored; backslash escapes are honored.
func scanJSONSpan(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	var open, close byte

	for i := 0; i < len(s); i++ {
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

		switch {
		case c == '"' && start >= 0:
			inString = true
		case start < 0 && (c == '{' || c == '['):
			start = i
			open = c
			if c == '{' {
				close = '}'
			} else {
				close = ']'
			}
			depth = 1
		case start >= 0 && c == open:
			depth++
		case start >= 0 && c == close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
