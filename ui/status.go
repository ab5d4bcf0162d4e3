package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/dgnsrekt/speedread/rsvp"
)

func stateIcon(s rsvp.State) string {
	switch s {
	case rsvp.StatePlaying:
		return "▶"
	case rsvp.StatePaused:
		return "⏸"
	default:
		return "■"
	}
}

// statusView renders the line under the progress bar, cut to width cells.
func (m model) statusView(width int) string {
	if width <= 0 {
		return ""
	}
	if m.statusMessage != "" {
		note := truncate.StringWithTail(" "+m.statusMessage+" ", uint(width), ellipsis) //nolint:gosec
		return statusMessageStyle.Render(pad(note, width))
	}

	parts := []string{
		fmt.Sprintf("%s %s/%s", stateIcon(m.state), humanize.Comma(int64(m.position)), humanize.Comma(int64(len(m.tokens)))),
		fmt.Sprintf("%d wpm", m.engine.Rate()),
		formatRemaining(m.remaining) + " left",
	}
	if m.cfg.Title != "" {
		parts = append(parts, m.cfg.Title)
	}
	note := truncate.StringWithTail(" "+strings.Join(parts, " · ")+" ", uint(width), ellipsis) //nolint:gosec
	return statusStyle.Render(pad(note, width))
}

// formatRemaining rounds d to the second, showing minutes once there are
// any.
func formatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
}
