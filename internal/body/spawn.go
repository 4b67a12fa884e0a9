package body

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/lucasb-eyer/go-colorful"
)

// Class is one weighted category of nodes or particles.
type Class struct {
	Name     string
	Weight   float64
	From, To colorful.Color // Each channel is sampled between From and To
	Size     Range
	Speed    Range
}

func (c Class) color(src Source) colorful.Color {
	return colorful.Color{
		R: Range{c.From.R, c.To.R}.Sample(src),
		G: Range{c.From.G, c.To.G}.Sample(src),
		B: Range{c.From.B, c.To.B}.Sample(src),
	}
}

// pick chooses a class with probability proportional to its weight.
func pick(classes []Class, src Source) Class {
	if len(classes) == 0 {
		return Class{}
	}
	var total float64
	for _, c := range classes {
		total += c.Weight
	}
	roll := src.Float64() * total
	for _, c := range classes {
		if roll < c.Weight {
			return c
		}
		roll -= c.Weight
	}
	return classes[len(classes)-1]
}

// NodeSpec fixes how network nodes are created and bounce.
type NodeSpec struct {
	Count      int
	Speed      float64 // Initial velocity spans [-Speed/2, Speed/2) per axis
	PhaseSpeed Range
	Pulse      float64 // Amplitude of the size oscillation
	Damping    Range   // Fraction of speed kept on a wall bounce
	Jitter     float64 // Random velocity added on a wall bounce spans [-Jitter, Jitter)
	Classes    []Class
}

// ParticleSpec fixes how network particles are created and live.
type ParticleSpec struct {
	Count      int
	Size       Range
	Trail      Range // Maximum trail length, truncated to an integer
	LifeStep   float64
	CenterPull float64
	Classes    []Class
}

// CloudSpec fixes how cloud puffs are created and wrap.
type CloudSpec struct {
	Count      int
	Size       Range
	Alpha      Range
	DriftX     float64 // Initial x velocity spans [-DriftX/2, DriftX/2)
	DriftY     float64
	Margin     float64 // Distance beyond each edge before a puff wraps
	Tint       colorful.Color
	Noise      bool    // Draw alpha from perlin noise instead of uniformly
	NoiseScale float64 // Noise frequency per pixel
}

// SpawnNodes creates the network nodes at random positions in the viewport.
func SpawnNodes(spec NodeSpec, vp Viewport, src Source) []Body {
	nodes := make([]Body, 0, spec.Count)
	for i := 0; i < spec.Count; i++ {
		class := pick(spec.Classes, src)
		b := Body{
			Kind:  NetworkNode,
			Color: class.color(src),
			Size:  class.Size.Sample(src),
		}
		b.X = src.Float64() * vp.Width
		b.Y = src.Float64() * vp.Height
		b.VX = (src.Float64() - 0.5) * spec.Speed
		b.VY = (src.Float64() - 0.5) * spec.Speed
		b.Node = NodeState{
			Phase:      src.Float64() * 2 * math.Pi,
			PhaseSpeed: spec.PhaseSpeed.Sample(src),
			Size:       b.Size,
		}
		nodes = append(nodes, b)
	}
	return nodes
}

// SpawnParticles creates the network particles with staggered lifetimes.
func SpawnParticles(spec ParticleSpec, vp Viewport, src Source) []Body {
	particles := make([]Body, 0, spec.Count)
	for i := 0; i < spec.Count; i++ {
		class := pick(spec.Classes, src)
		b := Body{
			Kind:  NetworkParticle,
			Color: class.color(src),
		}
		b.X = src.Float64() * vp.Width
		b.Y = src.Float64() * vp.Height
		b.Size = spec.Size.Sample(src)
		b.VX = class.Speed.Centered(src)
		b.VY = class.Speed.Centered(src)
		maxTrail := int(spec.Trail.Sample(src))
		b.Particle = ParticleState{
			Life:     src.Float64(),
			Trail:    make([]TrailPoint, 0, maxTrail+1),
			MaxTrail: maxTrail,
			Speed:    class.Speed,
		}
		particles = append(particles, b)
	}
	return particles
}

// SpawnClouds creates the cloud puffs.
func SpawnClouds(spec CloudSpec, vp Viewport, src Source) []Body {
	var noise *perlin.Perlin
	if spec.Noise {
		noise = perlin.NewPerlin(2, 2, 3, int64(src.Float64()*math.MaxInt32))
	}
	clouds := make([]Body, 0, spec.Count)
	for i := 0; i < spec.Count; i++ {
		b := Body{
			Kind:  CloudPuff,
			Color: spec.Tint,
		}
		b.X = src.Float64() * vp.Width
		b.Y = src.Float64() * vp.Height
		b.Size = spec.Size.Sample(src)
		if noise != nil {
			// Noise2D is roughly in [-1, 1]
			n := (noise.Noise2D(b.X*spec.NoiseScale, b.Y*spec.NoiseScale) + 1) / 2
			b.Alpha = spec.Alpha.Lerp(math.Max(0, math.Min(1, n)))
		} else {
			b.Alpha = spec.Alpha.Sample(src)
		}
		b.VX = (src.Float64() - 0.5) * spec.DriftX
		b.VY = (src.Float64() - 0.5) * spec.DriftY
		clouds = append(clouds, b)
	}
	return clouds
}
