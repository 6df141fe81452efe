package core

import (
	"fmt"
	"strings"
)

// The serialization grammar for parameterized commands:
//
//	serialization := escapedCommandId ['(' params ')']
//	params        := param (',' param)*
//	param         := escapedParamId ['=' escapedParamValue]
//
// Five characters are reserved and must be escaped wherever they appear
// inside an id or value; the escape marker itself is one of them.
const (
	escapeChar         = '%'
	parameterStartChar = '('
	parameterEndChar   = ')'
	idValueChar        = '='
	parameterSeparator = ','
)

func isReserved(r byte) bool {
	switch r {
	case escapeChar, parameterStartChar, parameterEndChar, idValueChar, parameterSeparator:
		return true
	}
	return false
}

// Escape prepends the escape marker to every reserved character in text.
// All other characters pass through untouched.
func Escape(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if isReserved(text[i]) {
			b.WriteByte(escapeChar)
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

// Unescape reverses Escape. It fails when the escape marker is the last
// character (dangling escape) or is followed by a character outside the
// reserved set.
func Unescape(text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] != escapeChar {
			b.WriteByte(text[i])
			continue
		}
		i++
		if i >= len(text) {
			return "", fmt.Errorf("%w: dangling escape at end of %q", ErrSerialization, text)
		}
		if !isReserved(text[i]) {
			return "", fmt.Errorf("%w: invalid escape %q in %q", ErrSerialization, text[i-1:i+1], text)
		}
		b.WriteByte(text[i])
	}
	return b.String(), nil
}

// unescapedIndexOf returns the index of the first occurrence of ch in
// text that is not preceded by the escape marker, or -1. An occurrence
// at position 0 can never be escaped.
func unescapedIndexOf(text string, ch byte) int {
	i := strings.IndexByte(text, ch)
	for i > 0 && text[i-1] == escapeChar {
		next := strings.IndexByte(text[i+1:], ch)
		if next < 0 {
			return -1
		}
		i += 1 + next
	}
	return i
}

// splitUnescaped splits text on every unescaped occurrence of sep.
func splitUnescaped(text string, sep byte) []string {
	var parts []string
	for {
		i := unescapedIndexOf(text, sep)
		if i < 0 {
			return append(parts, text)
		}
		parts = append(parts, text[:i])
		text = text[i+1:]
	}
}
