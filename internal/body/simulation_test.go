package body

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testViewport = Viewport{Width: 800, Height: 600}

func testNodeSpec(count int) NodeSpec {
	return NodeSpec{
		Count:      count,
		Speed:      0.8,
		PhaseSpeed: Range{0.02, 0.05},
		Pulse:      2,
		Damping:    Range{0.8, 1.0},
		Jitter:     0.05,
		Classes: []Class{
			{Name: "primary", Weight: 0.4, From: colorful.Color{G: 1, B: 0.5}, To: colorful.Color{G: 1, B: 1}, Size: Range{4, 14}},
			{Name: "neural", Weight: 0.1, From: colorful.Color{R: 0.5, B: 1}, To: colorful.Color{R: 1, B: 1}, Size: Range{5, 17}},
		},
	}
}

func testParticleSpec(count int) ParticleSpec {
	return ParticleSpec{
		Count:      count,
		Size:       Range{0.5, 3},
		Trail:      Range{5, 15},
		LifeStep:   0.008,
		CenterPull: 0.001,
		Classes: []Class{
			{Name: "data", Weight: 0.5, From: colorful.Color{G: 0.8, B: 0.6}, To: colorful.Color{G: 1, B: 1}, Speed: Range{1, 3}},
			{Name: "energy", Weight: 0.2, From: colorful.Color{R: 1, B: 0.7}, To: colorful.Color{R: 1, B: 1}, Speed: Range{1.5, 4}},
		},
	}
}

func testCloudSpec(count int) CloudSpec {
	return CloudSpec{
		Count:      count,
		Size:       Range{20, 100},
		Alpha:      Range{0.2, 0.8},
		DriftX:     0.3,
		DriftY:     0.2,
		Margin:     100,
		Tint:       colorful.Color{R: 0.8, G: 0.9, B: 1},
		NoiseScale: 0.004,
	}
}

func networkSim(seed int64) *Simulator {
	return NewSimulator(NetworkRules(testNodeSpec(0), testParticleSpec(0)), rand.New(rand.NewSource(seed)))
}

func cloneBodies(src []Body) []Body {
	out := make([]Body, len(src))
	copy(out, src)
	for i := range out {
		out[i].Particle.Trail = append([]TrailPoint(nil), src[i].Particle.Trail...)
	}
	return out
}

func TestNodeBounceReversesAndDamps(t *testing.T) {
	sim := networkSim(1)
	bodies := []Body{{Kind: NetworkNode, X: 2, Y: 300, VX: -5, Size: 6}}

	sim.Step(bodies, testViewport)

	n := bodies[0]
	assert.Equal(t, 0.0, n.X, "x clamped to the left edge")
	assert.GreaterOrEqual(t, n.VX, 4.0-0.05)
	assert.LessOrEqual(t, n.VX, 5.0+0.05)
	assert.Equal(t, 0.0, n.VY)
}

func TestNodeInsideBoundsKeepsVelocity(t *testing.T) {
	sim := networkSim(1)
	bodies := []Body{{Kind: NetworkNode, X: 10, Y: 300, VX: -5, Size: 6}}

	sim.Step(bodies, testViewport)

	assert.Equal(t, 5.0, bodies[0].X)
	assert.Equal(t, -5.0, bodies[0].VX)
}

func TestNodePulseFollowsPhase(t *testing.T) {
	sim := networkSim(1)
	bodies := []Body{{Kind: NetworkNode, X: 100, Y: 100, Size: 6, Node: NodeState{PhaseSpeed: 0.5}}}

	sim.Step(bodies, testViewport)

	assert.InDelta(t, 0.5, bodies[0].Node.Phase, 1e-12)
	assert.InDelta(t, 6+2*math.Sin(0.5), bodies[0].DisplaySize(), 1e-12)
}

func TestNodesStayInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	bodies := SpawnNodes(testNodeSpec(80), testViewport, rng)
	for i := range bodies {
		bodies[i].VX *= 20
		bodies[i].VY *= 20
	}
	sim := networkSim(7)

	for step := 0; step < 2000; step++ {
		sim.Step(bodies, testViewport)
		for _, b := range bodies {
			require.True(t, b.X >= 0 && b.X <= testViewport.Width, "step %d x=%f", step, b.X)
			require.True(t, b.Y >= 0 && b.Y <= testViewport.Height, "step %d y=%f", step, b.Y)
		}
	}
}

func TestParticleRespawnsOnLifetime(t *testing.T) {
	sim := networkSim(3)
	bodies := []Body{{
		Kind: NetworkParticle,
		X:    400,
		Y:    300,
		VX:   0.1,
		Particle: ParticleState{
			Life:     0.995,
			Trail:    []TrailPoint{{X: 399, Y: 300, Alpha: 0.1}},
			MaxTrail: 8,
			Speed:    Range{1, 3},
		},
	}}

	sim.Step(bodies, testViewport)

	p := bodies[0]
	assert.Equal(t, 0.0, p.Particle.Life)
	assert.Empty(t, p.Particle.Trail)
	assert.True(t, p.X >= 0 && p.X <= testViewport.Width)
	assert.True(t, p.Y >= 0 && p.Y <= testViewport.Height)
	assert.LessOrEqual(t, p.VX, 1.5)
	assert.GreaterOrEqual(t, p.VX, -1.5)
}

func TestParticleRespawnsWhenLeavingViewport(t *testing.T) {
	sim := networkSim(3)
	bodies := []Body{{
		Kind: NetworkParticle,
		X:    799,
		Y:    300,
		VX:   5,
		Particle: ParticleState{
			Life:     0.2,
			MaxTrail: 8,
			Speed:    Range{1, 3},
		},
	}}

	sim.Step(bodies, testViewport)

	assert.Equal(t, 0.0, bodies[0].Particle.Life)
	assert.Empty(t, bodies[0].Particle.Trail)
}

func TestParticleLifetimeAndTrail(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	bodies := SpawnParticles(testParticleSpec(150), testViewport, rng)
	sim := networkSim(11)

	prev := make([]float64, len(bodies))
	for i, b := range bodies {
		prev[i] = b.Particle.Life
		require.GreaterOrEqual(t, b.Particle.MaxTrail, 5)
		require.Less(t, b.Particle.MaxTrail, 15)
	}

	for step := 0; step < 1000; step++ {
		sim.Step(bodies, testViewport)
		for i, b := range bodies {
			p := b.Particle
			if p.Life != 0 {
				require.Greater(t, p.Life, prev[i], "lifetime must grow between respawns")
			} else {
				require.Empty(t, p.Trail, "respawn clears the trail")
			}
			require.LessOrEqual(t, len(p.Trail), p.MaxTrail)
			require.Less(t, p.Life, 1.0)
			prev[i] = p.Life
		}
	}
}

func TestParticleTrailKeepsNewestSamples(t *testing.T) {
	sim := NewSimulator(Rules{LifeStep: 0.001}, rand.New(rand.NewSource(1)))
	bodies := []Body{{
		Kind:     NetworkParticle,
		X:        400,
		Y:        300,
		VX:       1,
		Particle: ParticleState{MaxTrail: 3, Speed: Range{1, 1}},
	}}

	for i := 0; i < 5; i++ {
		sim.Step(bodies, testViewport)
	}

	trail := bodies[0].Particle.Trail
	require.Len(t, trail, 3)
	assert.Equal(t, 402.0, trail[0].X)
	assert.Equal(t, 404.0, trail[2].X)
	assert.InDelta(t, 1-0.004, trail[2].Alpha, 1e-12)
}

func TestParticleCenterPull(t *testing.T) {
	sim := NewSimulator(Rules{LifeStep: 0.008, CenterPull: 0.001}, rand.New(rand.NewSource(1)))
	bodies := []Body{{
		Kind:     NetworkParticle,
		X:        100,
		Y:        300,
		Particle: ParticleState{MaxTrail: 5},
	}}

	sim.Step(bodies, testViewport)

	assert.InDelta(t, 0.001, bodies[0].VX, 1e-12)
	assert.InDelta(t, 0, bodies[0].VY, 1e-12)
}

func TestCloudsWrapAroundMargin(t *testing.T) {
	sim := NewSimulator(CloudRules(testCloudSpec(0)), rand.New(rand.NewSource(1)))
	bodies := []Body{
		{Kind: CloudPuff, X: 900, Y: 300, VX: 0.5},
		{Kind: CloudPuff, X: -100, Y: 300, VX: -0.5},
		{Kind: CloudPuff, X: 400, Y: 700, VY: 0.5},
		{Kind: CloudPuff, X: 400, Y: -100, VY: -0.5},
	}

	sim.Step(bodies, testViewport)

	assert.Equal(t, -100.0, bodies[0].X)
	assert.Equal(t, 900.0, bodies[1].X)
	assert.Equal(t, -100.0, bodies[2].Y)
	assert.Equal(t, 700.0, bodies[3].Y)
}

func TestCloudsStayInExtendedBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	bodies := SpawnClouds(testCloudSpec(60), testViewport, rng)
	for i := range bodies {
		bodies[i].VX *= 40
		bodies[i].VY *= 40
	}
	sim := NewSimulator(CloudRules(testCloudSpec(0)), rng)

	for step := 0; step < 3000; step++ {
		sim.Step(bodies, testViewport)
		for _, b := range bodies {
			require.True(t, b.X >= -100 && b.X <= 900, "x=%f", b.X)
			require.True(t, b.Y >= -100 && b.Y <= 700, "y=%f", b.Y)
		}
	}
}

func TestStepWithoutBodies(t *testing.T) {
	sim := networkSim(1)
	assert.NotPanics(t, func() {
		sim.Step(nil, testViewport)
		sim.Step([]Body{}, Viewport{})
	})
}

func TestZeroViewport(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	vp := Viewport{}
	bodies := append(SpawnNodes(testNodeSpec(10), vp, rng), SpawnParticles(testParticleSpec(10), vp, rng)...)
	sim := networkSim(9)

	for step := 0; step < 100; step++ {
		sim.Step(bodies, vp)
	}

	for _, b := range bodies {
		assert.False(t, math.IsNaN(b.X) || math.IsNaN(b.Y), "position must not be NaN")
		assert.False(t, math.IsNaN(b.VX) || math.IsNaN(b.VY), "velocity must not be NaN")
	}
}

func TestSimulationIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	initial := append(SpawnNodes(testNodeSpec(40), testViewport, rng), SpawnParticles(testParticleSpec(60), testViewport, rng)...)

	a := cloneBodies(initial)
	b := cloneBodies(initial)
	simA := networkSim(99)
	simB := networkSim(99)
	for i := 0; i < 500; i++ {
		simA.Step(a, testViewport)
		simB.Step(b, testViewport)
	}

	assert.Equal(t, a, b)
}
