// Package textscan extracts substrings from untrusted, possibly malformed markup
// by scanning for literal markers. It never parses the markup.
package textscan

import "strings"

// Between returns every span of `text` that lies between an occurrence of `start` and
// the next occurrence of `end` after it, scanning left to right in a single pass.
//
// After a span is captured, scanning resumes immediately after the span itself, so the
// `end` delimiter is part of the text searched for the next `start`. Scanning stops as
// soon as either delimiter can no longer be found.
func Between(text, start, end string) []string {
	if start == "" || end == "" {
		return nil
	}

	var spans []string
	pos := 0
	for {
		i := strings.Index(text[pos:], start)
		if i < 0 {
			return spans
		}
		from := pos + i + len(start)

		j := strings.Index(text[from:], end)
		if j < 0 {
			return spans
		}
		spans = append(spans, text[from:from+j])
		pos = from + j
	}
}

// While returns the longest prefix of `text` whose bytes all satisfy `accept`.
func While(text string, accept func(c byte) bool) string {
	i := 0
	for i < len(text) && accept(text[i]) {
		i++
	}
	return text[:i]
}

// IsTokenByte reports whether c may appear in a token following a link prefix:
// ASCII letters and digits, '-', '/' and '_'.
func IsTokenByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	}
	return c == '-' || c == '/' || c == '_'
}
