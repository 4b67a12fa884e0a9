// Package render draws scene bodies either as GPU point sprites through Kage
// programs or, when no GPU context is usable, with plain 2D primitives.
package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/olivierh59500/particle-backdrop/internal/body"
	"github.com/olivierh59500/particle-backdrop/internal/graph"
)

// ErrNoContext is reported when no GPU context could be acquired.
var ErrNoContext = errors.New("render: no GPU context")

// Frame is everything a renderer needs for one draw. Viewport is read fresh
// from the scene for every frame.
type Frame struct {
	Bodies   []body.Body
	Edges    []graph.Edge
	Viewport body.Viewport
	Time     float64
}

// Renderer draws a frame onto a destination image sized to the viewport.
type Renderer interface {
	Name() string
	Draw(dst *ebiten.Image, f Frame)
}

// Painter is implemented by renderers that can target any Canvas.
type Painter interface {
	Paint(c Canvas, f Frame)
}

// Backend hands out compiled shader programs.
type Backend interface {
	NewShader(src []byte) (*ebiten.Shader, error)
}

// GPU compiles programs with ebiten.
type GPU struct{}

func (GPU) NewShader(src []byte) (*ebiten.Shader, error) {
	return ebiten.NewShader(src)
}

// Style holds the per-category alpha and color constants shared by both paths.
type Style struct {
	NodeAlpha  float64 // Fallback node opacity
	CloudAlpha float64 // Multiplier on each puff's own alpha
	EdgeColor  colorful.Color
	EdgeAlpha  float64 // Multiplier on edge strength
	EdgeWidth  float64
	TrailAlpha float64 // Multiplier on trail fade weights, 0 disables trails
}

// bodyAlpha is the opacity of a body on the fallback path.
func (s Style) bodyAlpha(b *body.Body) float64 {
	switch b.Kind {
	case body.NetworkNode:
		return s.NodeAlpha
	case body.NetworkParticle:
		return 1 - b.Particle.Life
	case body.CloudPuff:
		return b.Alpha * s.CloudAlpha
	default:
		return 0
	}
}

// spriteAlpha is the opacity handed to the sprite program for b.
func (s Style) spriteAlpha(b *body.Body, p Point) float64 {
	if b.Kind == body.CloudPuff {
		return b.Alpha * s.CloudAlpha * p.Alpha
	}
	return p.Alpha
}

func (s Style) trailWidth(b *body.Body) float64 {
	return math.Max(1, b.Size/2)
}

// segment is a line between two points with its color and opacity.
type segment struct {
	x0, y0, x1, y1 float64
	width          float64
	color          colorful.Color
	alpha          float64
}

// segments lists the edges and then the particle trails of a frame.
func (s Style) segments(f Frame, emit func(segment)) {
	for _, e := range f.Edges {
		if e.From < 0 || e.To < 0 || e.From >= len(f.Bodies) || e.To >= len(f.Bodies) {
			continue
		}
		a, b := &f.Bodies[e.From], &f.Bodies[e.To]
		emit(segment{a.X, a.Y, b.X, b.Y, s.EdgeWidth, s.EdgeColor, e.Strength * s.EdgeAlpha})
	}
	if s.TrailAlpha <= 0 {
		return
	}
	for i := range f.Bodies {
		b := &f.Bodies[i]
		if b.Kind != body.NetworkParticle || len(b.Particle.Trail) == 0 {
			continue
		}
		trail := b.Particle.Trail
		w := s.trailWidth(b)
		for j := 1; j < len(trail); j++ {
			emit(segment{trail[j-1].X, trail[j-1].Y, trail[j].X, trail[j].Y, w, b.Color, trail[j].Alpha * s.TrailAlpha})
		}
		last := trail[len(trail)-1]
		emit(segment{last.X, last.Y, b.X, b.Y, w, b.Color, last.Alpha * s.TrailAlpha})
	}
}

// nrgba converts a normalized color and opacity to 8-bit channels.
func nrgba(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(alpha) * 255))}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
