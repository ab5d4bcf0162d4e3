// Package render draws words around a fixed focal anchor on an abstract
// drawing surface.
package render

// Ink selects the color a run of text is drawn with.
type Ink int

const (
	// InkDefault is used for the letters around the focal letter.
	InkDefault Ink = iota
	// InkFocal is used for the focal letter.
	InkFocal
)

// Rect is an axis-aligned rectangle in surface units.
type Rect struct {
	X, Y, W, H float64
}

// Surface is a drawing target. Coordinates are in surface units with the
// origin at the top left; text is positioned by its left edge and vertical
// center.
type Surface interface {
	// SetSize resizes the surface and discards its content.
	SetSize(width, height float64)
	Clear(r Rect)
	Line(x0, y0, x1, y1 float64)
	SetFontSize(px float64)
	// Measure returns the advance width of text at the current font size.
	Measure(text string) float64
	FillText(text string, x, y float64, ink Ink)
}

// Presenter shows words on a surface it owns.
type Presenter interface {
	Init(s Surface)
	Resize(width float64)
	Render(word string)
}
