package ui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/sahilm/fuzzy"
)

// findWord returns the index of the token that best matches query. Among
// equally good matches the first one at or after from wins, wrapping to
// the start of the text.
func findWord(tokens []string, query string, from int) (int, bool) {
	matches := fuzzy.Find(query, tokens)
	if len(matches) == 0 {
		return 0, false
	}

	best := matches[0].Score
	first, next := -1, -1
	for _, match := range matches {
		if match.Score < best {
			break
		}
		if first < 0 || match.Index < first {
			first = match.Index
		}
		if match.Index >= from && (next < 0 || match.Index < next) {
			next = match.Index
		}
	}
	if next >= 0 {
		return next, true
	}
	return first, true
}

func (m *model) copyWord() tea.Cmd {
	word := m.engine.Current()
	if word == "" {
		return m.showStatusMessage("nothing to copy", true)
	}

	// Copy using OSC 52
	termenv.Copy(word)
	// Copy using native system clipboard
	if err := clipboard.WriteAll(word); err != nil {
		log.Debug("system clipboard unavailable", "error", err)
	}
	return m.showStatusMessage("copied "+word, false)
}
