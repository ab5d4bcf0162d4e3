package render

import (
	"sync"

	"github.com/dgnsrekt/speedread/rsvp"
)

// Canvas is the reference Presenter. The background guides are drawn on
// Init and Resize only; each word clears and redraws the text band.
type Canvas struct {
	mu      sync.Mutex
	surface Surface
	layout  Layout
	current string
	width   float64
}

var _ Presenter = (*Canvas)(nil)
var _ rsvp.Presenter = (*Canvas)(nil)

// NewCanvas creates a canvas presenter for a panel of the given width.
func NewCanvas(width float64) *Canvas {
	return &Canvas{width: width, layout: NewLayout(width)}
}

// Init attaches the surface and draws the background.
func (c *Canvas) Init(s Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.surface = s
	c.redraw()
}

// Resize recomputes the layout, redraws the background and shows the
// current word again.
func (c *Canvas) Resize(width float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = width
	c.layout = NewLayout(width)
	c.redraw()
}

// Render shows word. An empty word leaves the text band blank.
func (c *Canvas) Render(word string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = word
	c.drawText()
}

// Layout returns the active geometry.
func (c *Canvas) Layout() Layout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout
}

// Current returns the word on display.
func (c *Canvas) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Canvas) redraw() {
	if c.surface == nil {
		return
	}
	c.drawBackground()
	c.drawText()
}

func (c *Canvas) drawBackground() {
	l := c.layout
	c.surface.SetSize(l.Width, l.Height)
	c.surface.SetFontSize(l.FontSize)

	c.surface.Line(Margin, l.TopY, l.Width-Margin, l.TopY)
	c.surface.Line(Margin, l.BottomY, l.Width-Margin, l.BottomY)
	c.surface.Line(l.AnchorX, l.TopY, l.AnchorX, l.BottomY)
}

func (c *Canvas) drawText() {
	if c.surface == nil {
		return
	}
	c.surface.Clear(c.layout.TextRect())
	if c.current == "" {
		return
	}

	p := c.layout.Place(c.current, c.surface.Measure)
	y := c.layout.CenterY
	if p.Left != "" {
		c.surface.FillText(p.Left, p.LeftX, y, InkDefault)
	}
	c.surface.FillText(p.Focal, p.FocalX, y, InkFocal)
	if p.Right != "" {
		c.surface.FillText(p.Right, p.RightX, y, InkDefault)
	}
}
