package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	te "github.com/muesli/termenv"

	"github.com/dgnsrekt/speedread/utils"
)

const infoText = `# speedread

Rapid serial visual presentation: words are flashed one at a time at a
fixed point, so your eyes never have to move.

## Reading

The highlighted letter of each word sits under the anchor tick. Keep your
eyes on the tick and let the words come to you.

Words ending in a comma or semicolon stay on screen a little longer; words
ending a sentence stay longer still.

## Keys

| Key | Action |
|---|---|
| space, p | play or pause |
| s | stop and rewind |
| ←, b | back ten words, resume after a second |
| →, w | skip ten words |
| g, home | first word |
| +, - | change the rate in 50 wpm steps |
| / | find a word |
| c | copy the current word |
| f | full screen |
| H J K L | move the panel, it snaps to nearby edges |
| <, > | resize the panel |
| B, R | dock to the bottom or right edge |
| 0 | reset position, docking and width |
| ? | more help |
| q | quit |

With ` + "`--mouse`" + `, clicking the progress bar jumps to that point in the text.
`

// infoModel shows the about and instructions page.
type infoModel struct {
	style    string
	viewport viewport.Model
}

func newInfoModel(style string) infoModel {
	if style == "" || style == styles.AutoStyle {
		if te.HasDarkBackground() {
			style = styles.DarkStyle
		} else {
			style = styles.LightStyle
		}
	}
	return infoModel{style: style, viewport: viewport.New(0, 0)}
}

func (m *infoModel) setSize(w, h int) {
	m.viewport.Width = max(0, w-2)
	m.viewport.Height = max(0, h-2)
}

// open renders the page for the terminal size and scrolls to the top.
func (m *infoModel) open(w, h int) tea.Cmd {
	m.setSize(w, h)
	out, err := m.render(m.viewport.Width)
	if err != nil {
		log.Error("unable to render info", "error", err)
		out = infoText
	}
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
	return nil
}

func (m infoModel) render(width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithColorProfile(lipgloss.ColorProfile()),
		utils.GlamourStyle(m.style),
		glamour.WithWordWrap(max(20, min(width, 80))),
	)
	if err != nil {
		return "", fmt.Errorf("error creating glamour renderer: %w", err)
	}
	out, err := r.Render(infoText)
	if err != nil {
		return "", fmt.Errorf("error rendering info: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}

func (m infoModel) update(msg tea.Msg) (infoModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m infoModel) view() string {
	return frameStyle.Render(m.viewport.View())
}
