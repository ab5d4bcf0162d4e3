package rsvp

// FocalIndex returns the rune index of the optimal recognition point of a
// word, the letter the reader's eye is anchored on.
func FocalIndex(word string) int {
	n := len([]rune(word))
	switch {
	case n <= 1:
		return 0
	case n <= 5:
		return 1
	case n <= 9:
		return 2
	case n <= 13:
		return 3
	default:
		return 4
	}
}

// Split divides a word around its focal rune. An empty word yields three
// empty parts.
func Split(word string) (left, focal, right string) {
	runes := []rune(word)
	if len(runes) == 0 {
		return "", "", ""
	}
	i := FocalIndex(word)
	return string(runes[:i]), string(runes[i]), string(runes[i+1:])
}
