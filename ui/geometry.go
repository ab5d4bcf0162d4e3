package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/speedread/internal/session"
)

// snapDistance is how close, in cells, the panel must come to a terminal
// edge before it sticks to it.
const snapDistance = 2

// geometry converts the saved panel settings, which are kept in canvas
// units, to a cell position inside the terminal.
type geometry struct {
	cellW, cellH   int
	termW, termH   int
	panelW, panelH int
}

func (g geometry) maxTop() int  { return max(0, g.termH-g.panelH) }
func (g geometry) maxLeft() int { return max(0, g.termW-g.panelW) }

// place returns the top left cell of the panel.
func (g geometry) place(s session.Settings) (top, left int) {
	top = clamp(s.Top/max(1, g.cellH), 0, g.maxTop())
	left = clamp(s.Left/max(1, g.cellW), 0, g.maxLeft())
	if s.DockingBottom {
		top = g.maxTop()
	}
	if s.DockingRight {
		left = g.maxLeft()
	}
	return top, left
}

// move shifts the panel by whole cells. A panel moving toward an edge
// snaps to it once within snapDistance; snapping to the bottom or right
// edge docks it there so it follows the edge on terminal resize. Moving
// along an axis releases the docking on that axis.
func (g geometry) move(s session.Settings, dx, dy int) session.Settings {
	top, left := g.place(s)
	top = clamp(top+dy, 0, g.maxTop())
	left = clamp(left+dx, 0, g.maxLeft())

	if dy != 0 {
		s.DockingBottom = false
	}
	if dx != 0 {
		s.DockingRight = false
	}
	if dy < 0 && top <= snapDistance {
		top = 0
	}
	if dy > 0 && g.maxTop()-top <= snapDistance {
		top = g.maxTop()
		s.DockingBottom = true
	}
	if dx < 0 && left <= snapDistance {
		left = 0
	}
	if dx > 0 && g.maxLeft()-left <= snapDistance {
		left = g.maxLeft()
		s.DockingRight = true
	}

	s.Top = top * g.cellH
	s.Left = left * g.cellW
	return s
}

// maxWidth is the widest panel that fits the terminal, in canvas units.
// Zero means the terminal size is not known yet.
func (g geometry) maxWidth() int {
	if g.termW <= 0 {
		return 0
	}
	return max(0, g.termW-2) * g.cellW
}

// fitWidth clamps a requested panel width to the terminal, never going
// below session.MinWidth.
func (g geometry) fitWidth(width int) int {
	if w := g.maxWidth(); w > 0 {
		width = min(width, w)
	}
	return max(width, session.MinWidth)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// terminal returns the geometry without the panel size.
func (m model) terminal() geometry {
	return geometry{
		cellW: max(1, m.cfg.CellWidth),
		cellH: max(1, m.cfg.CellHeight),
		termW: m.width,
		termH: m.height,
	}
}

func (m model) geometry() geometry {
	g := m.terminal()
	body := m.bodyView()
	g.panelW = lipgloss.Width(body)
	g.panelH = lipgloss.Height(body)
	return g
}

// origin returns where the panel is drawn.
func (m model) origin() (top, left int) {
	if m.fullscreen {
		return 0, 0
	}
	return m.geometry().place(m.settings)
}

// targetWidth is the panel width for the current mode and terminal.
func (m model) targetWidth() float64 {
	g := m.terminal()
	if m.fullscreen {
		return float64(g.fitWidth(g.maxWidth()))
	}
	return float64(g.fitWidth(m.settings.Width))
}

// applyWidth resizes the canvas when the target width changed.
func (m *model) applyWidth() {
	w := m.targetWidth()
	if w == m.panelWidth {
		return
	}
	log.Debug("resizing panel", "from", m.panelWidth, "to", w, "fullscreen", m.fullscreen)
	m.panelWidth = w
	m.canvas.Resize(w)
	m.bar.Width = m.surface.Cols()
}

func (m *model) move(dx, dy int) tea.Cmd {
	if m.fullscreen {
		return nil
	}
	g := m.geometry()
	return m.updateSettings(func(s *session.Settings) { *s = g.move(*s, dx, dy) })
}

func (m *model) resize(delta int) tea.Cmd {
	if m.fullscreen {
		return nil
	}
	width := m.terminal().fitWidth(int(m.panelWidth) + delta)
	cmd := m.updateSettings(func(s *session.Settings) { s.Width = width })
	m.applyWidth()
	return cmd
}

// resetLayout drops the saved geometry so the defaults apply again.
func (m *model) resetLayout() tea.Cmd {
	s, err := m.store.Reset()
	if err != nil {
		log.Error("unable to reset reader geometry", "error", err)
		return m.showStatusMessage(err.Error(), true)
	}
	m.settings = s
	m.applyWidth()
	return nil
}

// updateSettings changes the saved geometry.
func (m *model) updateSettings(fn func(*session.Settings)) tea.Cmd {
	s, err := m.store.Update(fn)
	if err != nil {
		log.Error("unable to save reader geometry", "error", err)
		return m.showStatusMessage(err.Error(), true)
	}
	m.settings = s
	return nil
}
