package rsvp

import (
	"math"
	"time"
	"unicode/utf8"
)

// Default pause multipliers applied to words ending in punctuation.
const (
	DefaultShortPause = 1.9
	DefaultLongPause  = 2.4
)

// PauseClass describes how long a word is held on screen relative to the
// base delay.
type PauseClass int

const (
	// PauseNone holds the word for the base delay.
	PauseNone PauseClass = iota
	// PauseShort is used for words ending in a comma or semicolon.
	PauseShort
	// PauseLong is used for words ending a sentence.
	PauseLong
)

// String returns the string representation of the pause class.
func (p PauseClass) String() string {
	switch p {
	case PauseNone:
		return "none"
	case PauseShort:
		return "short"
	case PauseLong:
		return "long"
	default:
		return "unknown"
	}
}

// Classify returns the pause class of a word from its last rune.
func Classify(word string) PauseClass {
	r, _ := utf8.DecodeLastRuneInString(word)
	switch r {
	case ',', ';':
		return PauseShort
	case '.', '?', '!':
		return PauseLong
	default:
		return PauseNone
	}
}

// BaseDelay returns the per-word delay for a rate in words per minute.
// Non-positive rates return zero.
func BaseDelay(wpm int) time.Duration {
	if wpm <= 0 {
		return 0
	}
	return time.Duration(math.Round(float64(time.Minute) / float64(wpm)))
}

// Pacing converts words into display durations.
type Pacing struct {
	Base  time.Duration
	Short float64
	Long  float64
}

// NewPacing returns a Pacing for the given rate using the default
// multipliers.
func NewPacing(wpm int) Pacing {
	return Pacing{
		Base:  BaseDelay(wpm),
		Short: DefaultShortPause,
		Long:  DefaultLongPause,
	}
}

// Delay returns how long word stays on screen.
func (p Pacing) Delay(word string) time.Duration {
	switch Classify(word) {
	case PauseShort:
		return scale(p.Base, p.Short)
	case PauseLong:
		return scale(p.Base, p.Long)
	default:
		return p.Base
	}
}

// Total returns the accumulated display time of all words.
func (p Pacing) Total(words []string) time.Duration {
	var total time.Duration
	for _, w := range words {
		total += p.Delay(w)
	}
	return total
}

func scale(d time.Duration, factor float64) time.Duration {
	return time.Duration(math.Round(float64(d) * factor))
}
