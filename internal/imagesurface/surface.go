// Package imagesurface implements render.Surface on an RGBA image using
// the Go fonts.
package imagesurface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/dgnsrekt/speedread/rsvp/render"
)

const (
	faceCacheSize    = 16
	measureCacheSize = 2048
	lineWidth        = 2
)

type measureKey struct {
	size float64
	text string
}

// Palette holds the colors used by a Surface.
type Palette struct {
	Background color.Color
	Foreground color.Color
	Focal      color.Color
	Guides     color.Color
}

// DefaultPalette is black text on white with a red focal letter.
func DefaultPalette() Palette {
	return Palette{
		Background: color.White,
		Foreground: color.Black,
		Focal:      color.RGBA{R: 0xff, A: 0xff},
		Guides:     color.Black,
	}
}

// Surface is a raster render.Surface.
type Surface struct {
	font    *opentype.Font
	palette Palette

	img  *image.RGBA
	size float64
	face font.Face

	faces    *lru.Cache[float64, font.Face]
	measures *lru.Cache[measureKey, float64]
}

var _ render.Surface = (*Surface)(nil)

// Option configures a Surface.
type Option func(*Surface) error

// WithPalette overrides the default colors.
func WithPalette(p Palette) Option {
	return func(s *Surface) error {
		s.palette = p
		return nil
	}
}

// WithFont replaces the Go Regular font with TrueType or OpenType data.
func WithFont(data []byte) Option {
	return func(s *Surface) error {
		f, err := opentype.Parse(data)
		if err != nil {
			return fmt.Errorf("parse font: %w", err)
		}
		s.font = f
		return nil
	}
}

// New creates an empty surface. Call SetSize before drawing.
func New(opts ...Option) (*Surface, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse go regular: %w", err)
	}

	faces, err := lru.NewWithEvict[float64, font.Face](faceCacheSize, func(_ float64, face font.Face) {
		_ = face.Close()
	})
	if err != nil {
		return nil, err
	}
	measures, err := lru.New[measureKey, float64](measureCacheSize)
	if err != nil {
		return nil, err
	}

	s := &Surface{
		font:     f,
		palette:  DefaultPalette(),
		img:      image.NewRGBA(image.Rect(0, 0, 1, 1)),
		faces:    faces,
		measures: measures,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Image returns the backing image.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// WritePNG encodes the current image.
func (s *Surface) WritePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

// SetSize implements render.Surface.
func (s *Surface) SetSize(width, height float64) {
	w := max(1, int(math.Ceil(width)))
	h := max(1, int(math.Ceil(height)))
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.palette.Background), image.Point{}, draw.Src)
}

// Clear implements render.Surface.
func (s *Surface) Clear(r render.Rect) {
	rect := image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.W)), int(math.Ceil(r.Y+r.H)),
	).Intersect(s.img.Bounds())
	draw.Draw(s.img, rect, image.NewUniform(s.palette.Background), image.Point{}, draw.Src)
}

// Line implements render.Surface for axis-aligned and diagonal lines.
func (s *Surface) Line(x0, y0, x1, y1 float64) {
	src := image.NewUniform(s.palette.Guides)
	half := float64(lineWidth) / 2

	if x0 == x1 || y0 == y1 {
		rect := image.Rect(
			int(math.Floor(math.Min(x0, x1)-half)), int(math.Floor(math.Min(y0, y1)-half)),
			int(math.Ceil(math.Max(x0, x1)+half)), int(math.Ceil(math.Max(y0, y1)+half)),
		).Intersect(s.img.Bounds())
		draw.Draw(s.img, rect, src, image.Point{}, draw.Src)
		return
	}

	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + (x1-x0)*t
		y := y0 + (y1-y0)*t
		dot := image.Rect(int(x-half), int(y-half), int(x+half)+1, int(y+half)+1)
		draw.Draw(s.img, dot.Intersect(s.img.Bounds()), src, image.Point{}, draw.Src)
	}
}

// SetFontSize implements render.Surface.
func (s *Surface) SetFontSize(px float64) {
	if px <= 0 || px == s.size && s.face != nil {
		return
	}
	s.size = px
	if face, ok := s.faces.Get(px); ok {
		s.face = face
		return
	}
	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return
	}
	s.faces.Add(px, face)
	s.face = face
}

// Measure implements render.Surface.
func (s *Surface) Measure(text string) float64 {
	if s.face == nil || text == "" {
		return 0
	}
	key := measureKey{size: s.size, text: text}
	if w, ok := s.measures.Get(key); ok {
		return w
	}
	w := fromFixed(font.MeasureString(s.face, text))
	s.measures.Add(key, w)
	return w
}

// FillText implements render.Surface. y is the vertical center of the
// text.
func (s *Surface) FillText(text string, x, y float64, ink render.Ink) {
	if s.face == nil || text == "" {
		return
	}
	c := s.palette.Foreground
	if ink == render.InkFocal {
		c = s.palette.Focal
	}

	m := s.face.Metrics()
	baseline := y + fromFixed(m.Ascent-m.Descent)/2
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: s.face,
		Dot:  fixed.Point26_6{X: toFixed(x), Y: toFixed(baseline)},
	}
	d.DrawString(text)
}

// MeasureCacheLen reports how many measurements are cached.
func (s *Surface) MeasureCacheLen() int {
	return s.measures.Len()
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
