package render

import "github.com/dgnsrekt/speedread/rsvp"

// Geometry ratios of the reader panel.
const (
	Margin      = 10.0
	HeightRatio = 0.2
	FontRatio   = 1.0 / 15.0
	// GuideGap is the distance between a text edge and its guide line.
	GuideGap = 10.0
	// TextInset keeps the per-word clear inside the guide lines, leaving
	// short stubs of the anchor tick visible.
	TextInset = 5.0
)

// Layout holds the geometry derived from the panel width.
type Layout struct {
	Width    float64
	Height   float64
	FontSize float64
	AnchorX  float64
	CenterY  float64
	TopY     float64
	BottomY  float64
}

// NewLayout computes the geometry for a panel of the given width.
func NewLayout(width float64) Layout {
	height := width * HeightRatio
	font := width * FontRatio
	center := height / 2
	half := font/2 + GuideGap
	return Layout{
		Width:    width,
		Height:   height,
		FontSize: font,
		AnchorX:  (width - 2*Margin) / 3,
		CenterY:  center,
		TopY:     center - half,
		BottomY:  center + half,
	}
}

// TextRect is the band cleared before each word is drawn.
func (l Layout) TextRect() Rect {
	top := l.TopY + TextInset
	return Rect{
		X: 0,
		Y: top,
		W: l.Width,
		H: l.BottomY - TextInset - top,
	}
}

// Placement is where the three parts of a word are drawn.
type Placement struct {
	Left, Focal, Right    string
	LeftX, FocalX, RightX float64
}

// Place positions word so its focal letter is centered on the anchor.
func (l Layout) Place(word string, measure func(string) float64) Placement {
	left, focal, right := rsvp.Split(word)
	focalW := measure(focal)
	focalX := l.AnchorX - focalW/2
	return Placement{
		Left:   left,
		Focal:  focal,
		Right:  right,
		LeftX:  focalX - measure(left),
		FocalX: focalX,
		RightX: focalX + focalW,
	}
}
