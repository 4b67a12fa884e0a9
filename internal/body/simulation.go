package body

import (
	"math"
)

// Rules are the per-category constants the simulation applies each step.
type Rules struct {
	Pulse      float64
	Damping    Range
	Jitter     float64
	LifeStep   float64
	CenterPull float64
	Margin     float64
}

// NetworkRules derives the rules for a network scene.
func NetworkRules(nodes NodeSpec, particles ParticleSpec) Rules {
	return Rules{
		Pulse:      nodes.Pulse,
		Damping:    nodes.Damping,
		Jitter:     nodes.Jitter,
		LifeStep:   particles.LifeStep,
		CenterPull: particles.CenterPull,
	}
}

// CloudRules derives the rules for a cloud scene.
func CloudRules(clouds CloudSpec) Rules {
	return Rules{Margin: clouds.Margin}
}

// Simulator advances bodies by one logical frame. Velocities are in pixels
// per step, so Step is never scaled by wall-clock time.
type Simulator struct {
	rules Rules
	rng   Source
}

// NewSimulator creates a simulator drawing its perturbations from rng.
func NewSimulator(rules Rules, rng Source) *Simulator {
	return &Simulator{rules: rules, rng: rng}
}

// Step moves every body once and applies its boundary rule.
func (s *Simulator) Step(bodies []Body, vp Viewport) {
	for i := range bodies {
		b := &bodies[i]
		switch b.Kind {
		case NetworkNode:
			s.stepNode(b, vp)
		case NetworkParticle:
			s.stepParticle(b, vp)
		case CloudPuff:
			s.stepCloud(b, vp)
		}
	}
}

func (s *Simulator) stepNode(b *Body, vp Viewport) {
	b.X += b.VX
	b.Y += b.VY

	b.Node.Phase += b.Node.PhaseSpeed
	b.Node.Size = b.Size + math.Sin(b.Node.Phase)*s.rules.Pulse

	if b.X < 0 || b.X > vp.Width {
		b.VX = s.bounce(b.VX)
	}
	if b.Y < 0 || b.Y > vp.Height {
		b.VY = s.bounce(b.VY)
	}

	b.X = clamp(b.X, 0, vp.Width)
	b.Y = clamp(b.Y, 0, vp.Height)
}

// bounce reverses v, keeps a random fraction of it and adds a little jitter.
func (s *Simulator) bounce(v float64) float64 {
	v *= -s.rules.Damping.Sample(s.rng)
	return v + (s.rng.Float64()-0.5)*2*s.rules.Jitter
}

func (s *Simulator) stepParticle(b *Body, vp Viewport) {
	p := &b.Particle

	p.Trail = append(p.Trail, TrailPoint{X: b.X, Y: b.Y, Alpha: 1 - p.Life})
	if over := len(p.Trail) - p.MaxTrail; over > 0 {
		n := copy(p.Trail, p.Trail[over:])
		p.Trail = p.Trail[:n]
	}

	b.X += b.VX
	b.Y += b.VY
	p.Life += s.rules.LifeStep

	cx, cy := vp.Center()
	dx := cx - b.X
	dy := cy - b.Y
	if dist := math.Hypot(dx, dy); dist > 0 {
		b.VX += dx / dist * s.rules.CenterPull
		b.VY += dy / dist * s.rules.CenterPull
	}

	if b.X < 0 || b.X > vp.Width || b.Y < 0 || b.Y > vp.Height || p.Life >= 1 {
		s.respawn(b, vp)
	}
}

func (s *Simulator) respawn(b *Body, vp Viewport) {
	b.X = s.rng.Float64() * vp.Width
	b.Y = s.rng.Float64() * vp.Height
	b.Particle.Life = 0
	b.Particle.Trail = b.Particle.Trail[:0]
	b.VX = b.Particle.Speed.Centered(s.rng)
	b.VY = b.Particle.Speed.Centered(s.rng)
}

// stepCloud drifts a puff and wraps it toroidally past the margin.
func (s *Simulator) stepCloud(b *Body, vp Viewport) {
	b.X += b.VX
	b.Y += b.VY

	m := s.rules.Margin
	if b.X < -m {
		b.X = vp.Width + m
	} else if b.X > vp.Width+m {
		b.X = -m
	}
	if b.Y < -m {
		b.Y = vp.Height + m
	} else if b.Y > vp.Height+m {
		b.Y = -m
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
