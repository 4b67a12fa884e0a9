package graph

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/particle-backdrop/internal/body"
)

func TestBuildSinglePair(t *testing.T) {
	edges := Build([]r2.Vec{{X: 0, Y: 0}, {X: 100, Y: 0}}, 150)

	require.Len(t, edges, 1)
	assert.Equal(t, 0, edges[0].From)
	assert.Equal(t, 1, edges[0].To)
	assert.InDelta(t, 1-100.0/150.0, edges[0].Strength, 1e-9)
}

func TestBuildExcludesThreshold(t *testing.T) {
	edges := Build([]r2.Vec{{X: 0, Y: 0}, {X: 150, Y: 0}, {X: 0, Y: 0}}, 150)

	require.Len(t, edges, 1, "only the coincident pair is connected")
	assert.Equal(t, Edge{From: 0, To: 2, Strength: 1}, edges[0])
}

func TestBuildMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	points := make([]r2.Vec, 80)
	for i := range points {
		points[i] = r2.Vec{X: rng.Float64() * 800, Y: rng.Float64() * 600}
	}
	const threshold = 150.0

	edges := Build(points, threshold)

	seen := make(map[[2]int]Edge, len(edges))
	for _, e := range edges {
		require.Less(t, e.From, e.To, "no self edges or reversed pairs")
		_, dup := seen[[2]int{e.From, e.To}]
		require.False(t, dup)
		seen[[2]int{e.From, e.To}] = e
	}
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			d := r2.Norm(r2.Sub(points[i], points[j]))
			e, ok := seen[[2]int{i, j}]
			if d < threshold {
				require.True(t, ok, "missing edge %d-%d at distance %f", i, j, d)
				assert.InDelta(t, 1-d/threshold, e.Strength, 1e-9)
				assert.True(t, e.Strength > 0 && e.Strength <= 1)
			} else {
				assert.False(t, ok, "unexpected edge %d-%d at distance %f", i, j, d)
			}
		}
	}
}

func TestBuildDegenerate(t *testing.T) {
	assert.Empty(t, Build(nil, 150))
	assert.Empty(t, Build([]r2.Vec{{X: 1, Y: 1}}, 150))
	assert.Empty(t, Build([]r2.Vec{{X: 1, Y: 1}, {X: 1, Y: 1}}, 0))
}

func TestPositionsTakesLeadingBodies(t *testing.T) {
	bodies := []body.Body{
		{Kind: body.NetworkNode, X: 1, Y: 2},
		{Kind: body.NetworkNode, X: 3, Y: 4},
		{Kind: body.NetworkParticle, X: 5, Y: 6},
	}

	assert.Equal(t, []r2.Vec{{X: 1, Y: 2}, {X: 3, Y: 4}}, Positions(bodies, 2))
	assert.Len(t, Positions(bodies, 10), 3)
}
