package render

import (
	_ "embed"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

var (
	//go:embed shaders/sprite.kage
	spriteSource []byte

	//go:embed shaders/line.kage
	lineSource []byte
)

// maxBatchVertices keeps every index of a batch inside uint16.
const maxBatchVertices = math.MaxUint16 + 1

// quadBatch accumulates quads and hands them to flush when the index space
// runs out or the batch is finished. Its slices are reused across frames.
type quadBatch struct {
	vertices []ebiten.Vertex
	indices  []uint16
	flush    func(vertices []ebiten.Vertex, indices []uint16)
}

func (q *quadBatch) add(v [4]ebiten.Vertex) {
	if len(q.vertices)+4 > maxBatchVertices {
		q.done()
	}
	base := uint16(len(q.vertices))
	q.vertices = append(q.vertices, v[:]...)
	q.indices = append(q.indices, base, base+1, base+2, base+1, base+3, base+2)
}

func (q *quadBatch) done() {
	if len(q.vertices) > 0 && q.flush != nil {
		q.flush(q.vertices, q.indices)
	}
	q.vertices = q.vertices[:0]
	q.indices = q.indices[:0]
}

// sprite emits the quad of one point sprite. Source coordinates span the unit
// square so the program can mask a circle.
func sprite(p Point, c colorful.Color, alpha float64) ([4]ebiten.Vertex, bool) {
	if p.Size <= 0 || alpha <= 0 {
		return [4]ebiten.Vertex{}, false
	}
	h := float32(p.Size / 2)
	x, y := float32(p.X), float32(p.Y)
	r, g, b, a := float32(c.R), float32(c.G), float32(c.B), float32(clamp01(alpha))
	return [4]ebiten.Vertex{
		{DstX: x - h, DstY: y - h, SrcX: 0, SrcY: 0, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		{DstX: x + h, DstY: y - h, SrcX: 1, SrcY: 0, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		{DstX: x - h, DstY: y + h, SrcX: 0, SrcY: 1, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		{DstX: x + h, DstY: y + h, SrcX: 1, SrcY: 1, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
	}, true
}

// line emits a segment as a quad of the given width.
func line(s segment) ([4]ebiten.Vertex, bool) {
	dx, dy := s.x1-s.x0, s.y1-s.y0
	l := math.Hypot(dx, dy)
	if l == 0 || s.alpha <= 0 {
		return [4]ebiten.Vertex{}, false
	}
	nx := float32(-dy / l * s.width / 2)
	ny := float32(dx / l * s.width / 2)
	x0, y0, x1, y1 := float32(s.x0), float32(s.y0), float32(s.x1), float32(s.y1)
	r, g, b, a := float32(s.color.R), float32(s.color.G), float32(s.color.B), float32(clamp01(s.alpha))
	return [4]ebiten.Vertex{
		{DstX: x0 + nx, DstY: y0 + ny, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		{DstX: x0 - nx, DstY: y0 - ny, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		{DstX: x1 + nx, DstY: y1 + ny, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		{DstX: x1 - nx, DstY: y1 - ny, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
	}, true
}

// ShaderRenderer draws bodies as soft circular point sprites and edges as
// thin lines, each with its own Kage program compiled once.
type ShaderRenderer struct {
	sprite *ebiten.Shader
	line   *ebiten.Shader
	motion Motion
	style  Style

	sprites quadBatch
	lines   quadBatch
}

// NewShaderRenderer compiles both programs. A nil backend means no GPU context.
func NewShaderRenderer(b Backend, m Motion, st Style) (*ShaderRenderer, error) {
	if b == nil {
		return nil, ErrNoContext
	}
	sp, err := b.NewShader(spriteSource)
	if err != nil {
		return nil, errors.Wrap(err, "compile sprite program")
	}
	ln, err := b.NewShader(lineSource)
	if err != nil {
		if sp != nil {
			sp.Deallocate()
		}
		return nil, errors.Wrap(err, "compile line program")
	}
	if sp == nil || ln == nil {
		return nil, ErrNoContext
	}
	return &ShaderRenderer{sprite: sp, line: ln, motion: m, style: st}, nil
}

func (r *ShaderRenderer) Name() string { return "gpu" }

// Draw clears dst and issues the line batch followed by the sprite batch.
func (r *ShaderRenderer) Draw(dst *ebiten.Image, f Frame) {
	dst.Clear()
	if f.Viewport.Empty() {
		return
	}

	r.lines.flush = func(vs []ebiten.Vertex, is []uint16) {
		dst.DrawTrianglesShader(vs, is, r.line, &ebiten.DrawTrianglesShaderOptions{Blend: ebiten.BlendSourceOver})
	}
	r.writeLines(f)

	opts := &ebiten.DrawTrianglesShaderOptions{
		Blend: ebiten.BlendSourceOver,
		Uniforms: map[string]any{
			"Time":       float32(f.Time),
			"Resolution": []float32{float32(f.Viewport.Width), float32(f.Viewport.Height)},
			"Pulse":      []float32{float32(r.motion.Pulse.Base), float32(r.motion.Pulse.Amp), float32(r.motion.Pulse.Freq)},
		},
	}
	r.sprites.flush = func(vs []ebiten.Vertex, is []uint16) {
		dst.DrawTrianglesShader(vs, is, r.sprite, opts)
	}
	r.writeSprites(f)
}

func (r *ShaderRenderer) writeLines(f Frame) {
	r.style.segments(f, func(s segment) {
		if v, ok := line(s); ok {
			r.lines.add(v)
		}
	})
	r.lines.done()
}

func (r *ShaderRenderer) writeSprites(f Frame) {
	for i := range f.Bodies {
		b := &f.Bodies[i]
		p := r.motion.Project(b, f.Time)
		if v, ok := sprite(p, b.Color, r.style.spriteAlpha(b, p)); ok {
			r.sprites.add(v)
		}
	}
	r.sprites.done()
}
