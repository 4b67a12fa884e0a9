package render

import (
	"math"

	"github.com/olivierh59500/particle-backdrop/internal/body"
)

// Wave is Amp * sin(time*Freq + coord*Scale).
type Wave struct {
	Amp, Freq, Scale float64
}

func (w Wave) sin(t, coord float64) float64 {
	if w.Amp == 0 {
		return 0
	}
	return w.Amp * math.Sin(t*w.Freq+coord*w.Scale)
}

func (w Wave) cos(t, coord float64) float64 {
	if w.Amp == 0 {
		return 0
	}
	return w.Amp * math.Cos(t*w.Freq+coord*w.Scale)
}

// Pulse is a global opacity oscillation Base + sin(time*Freq)*Amp applied by the
// sprite program.
type Pulse struct {
	Base, Amp, Freq float64
}

// At evaluates the pulse at time t.
func (p Pulse) At(t float64) float64 {
	return p.Base + math.Sin(t*p.Freq)*p.Amp
}

// Motion is the cosmetic screen-space animation applied on top of simulated
// positions. It never feeds back into body state.
type Motion struct {
	SwayX     Wave // Horizontal offset, driven by the body's y
	SwayY     Wave // Vertical offset (cosine), driven by the body's x
	Size      Wave // Point size jitter, driven by the body's x
	AlphaBase float64
	Alpha     Wave // Opacity oscillation, driven by the body's x
	Pulse     Pulse
}

// NetworkMotion animates the node and particle sprites.
func NetworkMotion() Motion {
	return Motion{
		SwayX:     Wave{Amp: 20, Freq: 0.001, Scale: 0.01},
		SwayY:     Wave{Amp: 15, Freq: 0.0015, Scale: 0.01},
		AlphaBase: 0.6,
		Alpha:     Wave{Amp: 0.4, Freq: 0.002, Scale: 0.01},
		Pulse:     Pulse{Base: 1},
	}
}

// CloudMotion animates the cloud puffs.
func CloudMotion() Motion {
	return Motion{
		SwayX:     Wave{Amp: 30, Freq: 0.0005, Scale: 0.001},
		SwayY:     Wave{Amp: 20, Freq: 0.0003, Scale: 0.001},
		Size:      Wave{Amp: 5, Freq: 0.001, Scale: 0.01},
		AlphaBase: 1,
		Pulse:     Pulse{Base: 0.3, Amp: 0.2, Freq: 0.002},
	}
}

// Point is a body projected to screen space for one frame.
type Point struct {
	X, Y  float64
	Size  float64 // Diameter in pixels
	Alpha float64
}

// Project applies the motion to b at time t.
func (m Motion) Project(b *body.Body, t float64) Point {
	return Point{
		X:     b.X + m.SwayX.sin(t, b.Y),
		Y:     b.Y + m.SwayY.cos(t, b.X),
		Size:  b.DisplaySize() + m.Size.sin(t, b.X),
		Alpha: m.AlphaBase + m.Alpha.sin(t, b.X),
	}
}
