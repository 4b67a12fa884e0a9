// Package graph builds the static proximity graph drawn between network nodes.
package graph

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/particle-backdrop/internal/body"
)

// Edge connects two node indices. Strength falls linearly from 1 at distance
// zero to 0 at the threshold.
type Edge struct {
	From, To int
	Strength float64
}

// Positions collects the positions of the first n bodies.
func Positions(bodies []body.Body, n int) []r2.Vec {
	if n > len(bodies) {
		n = len(bodies)
	}
	points := make([]r2.Vec, n)
	for i := 0; i < n; i++ {
		points[i] = r2.Vec{X: bodies[i].X, Y: bodies[i].Y}
	}
	return points
}

// Build returns an edge for every unordered pair closer than threshold.
// It is computed once; edges are not refreshed as bodies move.
func Build(points []r2.Vec, threshold float64) []Edge {
	if threshold <= 0 {
		return nil
	}
	var edges []Edge
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			d := r2.Norm(r2.Sub(points[i], points[j]))
			if d < threshold {
				edges = append(edges, Edge{From: i, To: j, Strength: 1 - d/threshold})
			}
		}
	}
	return edges
}
