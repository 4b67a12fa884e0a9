package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Canvas is the minimal 2D surface the fallback path draws on.
type Canvas interface {
	Clear()
	FillCircle(cx, cy, r float32, clr color.Color)
	Line(x0, y0, x1, y1, width float32, clr color.Color)
}

// ImageCanvas draws on an ebiten image with the vector package.
type ImageCanvas struct {
	Image *ebiten.Image
}

func (c ImageCanvas) Clear() { c.Image.Clear() }

func (c ImageCanvas) FillCircle(cx, cy, r float32, clr color.Color) {
	vector.DrawFilledCircle(c.Image, cx, cy, r, clr, true)
}

func (c ImageCanvas) Line(x0, y0, x1, y1, width float32, clr color.Color) {
	vector.StrokeLine(c.Image, x0, y0, x1, y1, width, clr, true)
}

// Tally counts primitives instead of drawing them.
type Tally struct {
	Clears  int
	Circles int
	Lines   int
}

func (t *Tally) Clear()                                    { t.Clears++ }
func (t *Tally) FillCircle(_, _, _ float32, _ color.Color) { t.Circles++ }
func (t *Tally) Line(_, _, _, _, _ float32, _ color.Color) { t.Lines++ }

// Fallback approximates the sprite look with filled circles and lines.
type Fallback struct {
	style Style
}

// NewFallback creates the 2D renderer.
func NewFallback(st Style) *Fallback {
	return &Fallback{style: st}
}

func (r *Fallback) Name() string { return "fallback" }

func (r *Fallback) Draw(dst *ebiten.Image, f Frame) {
	r.Paint(ImageCanvas{Image: dst}, f)
}

// Paint clears c, then draws edges and trails, then bodies.
func (r *Fallback) Paint(c Canvas, f Frame) {
	c.Clear()
	if f.Viewport.Empty() {
		return
	}

	r.style.segments(f, func(s segment) {
		if s.alpha <= 0 {
			return
		}
		c.Line(float32(s.x0), float32(s.y0), float32(s.x1), float32(s.y1), float32(s.width), nrgba(s.color, s.alpha))
	})

	for i := range f.Bodies {
		b := &f.Bodies[i]
		radius := b.DisplaySize() / 2
		alpha := r.style.bodyAlpha(b)
		if radius <= 0 || alpha <= 0 {
			continue
		}
		c.FillCircle(float32(b.X), float32(b.Y), float32(radius), nrgba(b.Color, alpha))
	}
}
