// Package body holds the simulated points of a scene and the per-frame rules
// that move them.
package body

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Kind tags the behavior a body follows each step.
type Kind uint8

const (
	NetworkNode Kind = iota
	NetworkParticle
	CloudPuff
)

func (k Kind) String() string {
	switch k {
	case NetworkNode:
		return "node"
	case NetworkParticle:
		return "particle"
	case CloudPuff:
		return "cloud"
	default:
		return "unknown"
	}
}

// Viewport is the drawable area in pixels.
type Viewport struct {
	Width, Height float64
}

// Empty reports whether the viewport has no area.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Center returns the middle of the viewport.
func (v Viewport) Center() (float64, float64) {
	return v.Width / 2, v.Height / 2
}

// Range is a closed interval sampled uniformly.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Sample draws a value in [Min, Max).
func (r Range) Sample(src Source) float64 {
	return r.Min + src.Float64()*(r.Max-r.Min)
}

// Lerp maps t in [0, 1] onto the range.
func (r Range) Lerp(t float64) float64 {
	return r.Min + t*(r.Max-r.Min)
}

// Centered scales a magnitude sampled from the range by an independent
// offset in [-0.5, 0.5). Sign and size are separate draws.
func (r Range) Centered(src Source) float64 {
	return (src.Float64() - 0.5) * r.Sample(src)
}

// Source is the randomness a simulation consumes. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// TrailPoint is one remembered particle position.
type TrailPoint struct {
	X, Y  float64
	Alpha float64 // Fade weight, 1 - lifetime at the time of the sample
}

// NodeState is the extra state of a network node.
type NodeState struct {
	Phase      float64
	PhaseSpeed float64
	Size       float64 // Displayed size after pulsing
}

// ParticleState is the extra state of a network particle.
type ParticleState struct {
	Life     float64 // Normalized lifetime in [0, 1]
	Trail    []TrailPoint
	MaxTrail int
	Speed    Range // Velocity magnitude range used on respawn
}

// Body is a single simulated point. Only the state block matching Kind is used.
type Body struct {
	Kind   Kind
	X, Y   float64
	VX, VY float64
	Size   float64
	Color  colorful.Color
	Alpha  float64 // Clouds only

	Node     NodeState
	Particle ParticleState
}

// DisplaySize returns the size the body should be drawn at this frame.
func (b *Body) DisplaySize() float64 {
	if b.Kind == NetworkNode {
		return b.Node.Size
	}
	return b.Size
}
