// Package rsvp implements rapid serial visual presentation: text is split
// into words which are shown one at a time at a controllable pace.
package rsvp

import "unicode"

// Tokenize splits text at every whitespace rune. Separators are not
// collapsed, so two adjacent separators yield an empty token between them.
// The empty string yields a single empty token.
func Tokenize(text string) []string {
	tokens := make([]string, 0, len(text)/5+1)
	start := 0
	for i, r := range text {
		if !unicode.IsSpace(r) {
			continue
		}
		tokens = append(tokens, text[start:i])
		start = i + len(string(r))
	}
	return append(tokens, text[start:])
}
