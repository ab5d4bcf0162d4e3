package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/dgnsrekt/speedread/rsvp/render"
)

type cell struct {
	r    rune
	ink  render.Ink
	text bool
	// cont marks the trailing half of a wide rune.
	cont bool
}

// termSurface is a render.Surface over a grid of terminal cells. Canvas
// units are mapped onto cells of cellW by cellH; text is measured by cell
// width so the font size does not affect layout.
type termSurface struct {
	cellW, cellH float64
	cols, rows   int
	grid         [][]cell

	focal lipgloss.Style
	text  lipgloss.Style
	guide lipgloss.Style
}

var _ render.Surface = (*termSurface)(nil)

func newTermSurface(cellW, cellH int, focal lipgloss.Style) *termSurface {
	return &termSurface{
		cellW: float64(max(1, cellW)),
		cellH: float64(max(1, cellH)),
		focal: focal,
		text:  lipgloss.NewStyle(),
		guide: guideStyle,
	}
}

func (s *termSurface) SetSize(width, height float64) {
	s.cols = max(1, int(math.Ceil(width/s.cellW)))
	s.rows = max(1, int(math.Ceil(height/s.cellH)))
	s.grid = make([][]cell, s.rows)
	for i := range s.grid {
		s.grid[i] = s.blankRow()
	}
}

func (s *termSurface) blankRow() []cell {
	row := make([]cell, s.cols)
	for i := range row {
		row[i] = cell{r: ' '}
	}
	return row
}

// Clear blanks text inside r. Guide lines survive except vertical strokes
// in rows whose center lies inside r, so the anchor tick keeps its stubs.
func (s *termSurface) Clear(r render.Rect) {
	r0 := max(0, int(math.Floor(r.Y/s.cellH)))
	r1 := min(s.rows, int(math.Ceil((r.Y+r.H)/s.cellH)))
	c0 := max(0, int(math.Floor(r.X/s.cellW)))
	c1 := min(s.cols, int(math.Ceil((r.X+r.W)/s.cellW)))
	for y := r0; y < r1; y++ {
		center := (float64(y) + 0.5) * s.cellH
		inside := center >= r.Y && center <= r.Y+r.H
		for x := c0; x < c1; x++ {
			c := s.grid[y][x]
			if c.text || (inside && c.r == '│') {
				s.grid[y][x] = cell{r: ' '}
			}
		}
	}
}

func (s *termSurface) Line(x0, y0, x1, y1 float64) {
	switch {
	case y0 == y1:
		row := s.row(y0)
		c0, c1 := s.col(math.Min(x0, x1)), s.col(math.Max(x0, x1))
		for x := c0; x <= c1 && row >= 0; x++ {
			s.set(row, x, '─')
		}
	case x0 == x1:
		col := s.col(x0)
		r0, r1 := s.row(math.Min(y0, y1)), s.row(math.Max(y0, y1))
		for y := r0; y <= r1 && col >= 0; y++ {
			switch {
			case y == r0 && s.at(y, col) == '─':
				s.set(y, col, '┬')
			case y == r1 && s.at(y, col) == '─':
				s.set(y, col, '┴')
			default:
				s.set(y, col, '│')
			}
		}
	}
}

func (s *termSurface) SetFontSize(float64) {}

func (s *termSurface) Measure(text string) float64 {
	return float64(runewidth.StringWidth(text)) * s.cellW
}

func (s *termSurface) FillText(text string, x, y float64, ink render.Ink) {
	row := s.row(y)
	if row < 0 {
		return
	}
	col := int(math.Round(x / s.cellW))
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col >= 0 && col+w <= s.cols {
			s.grid[row][col] = cell{r: r, ink: ink, text: true}
			if w == 2 {
				s.grid[row][col+1] = cell{cont: true, text: true}
			}
		}
		col += w
	}
}

func (s *termSurface) row(y float64) int {
	r := int(y / s.cellH)
	if r < 0 || r >= s.rows {
		return -1
	}
	return r
}

func (s *termSurface) col(x float64) int {
	return min(max(0, int(math.Round(x/s.cellW))), s.cols-1)
}

func (s *termSurface) at(row, col int) rune {
	return s.grid[row][col].r
}

func (s *termSurface) set(row, col int, r rune) {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return
	}
	s.grid[row][col] = cell{r: r}
}

// Cols returns the width of the grid in cells.
func (s *termSurface) Cols() int {
	return s.cols
}

// PlainRows returns the grid without styling.
func (s *termSurface) PlainRows() []string {
	rows := make([]string, len(s.grid))
	for i, row := range s.grid {
		var b strings.Builder
		for _, c := range row {
			if !c.cont {
				b.WriteRune(c.r)
			}
		}
		rows[i] = b.String()
	}
	return rows
}

// View renders the grid with the focal letter highlighted.
func (s *termSurface) View() string {
	lines := make([]string, len(s.grid))
	for i, row := range s.grid {
		var b strings.Builder
		var run strings.Builder
		var runStyle *lipgloss.Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(runStyle.Render(run.String()))
			run.Reset()
		}
		for _, c := range row {
			if c.cont {
				continue
			}
			st := s.styleFor(c)
			if st != runStyle {
				flush()
				runStyle = st
			}
			run.WriteRune(c.r)
		}
		flush()
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

func (s *termSurface) styleFor(c cell) *lipgloss.Style {
	switch {
	case c.text && c.ink == render.InkFocal:
		return &s.focal
	case c.text:
		return &s.text
	default:
		return &s.guide
	}
}
