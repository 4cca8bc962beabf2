package graph

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/starford/othala/internal/apperr"
)

// RunLayout assigns 2D positions to every node in data using a fixed-iteration
// force-directed simulation. Positions are written back into data.Nodes; any
// previous coordinates are discarded.
//
// The simulation state is kept in parallel slices indexed by node position
// rather than mutated through the Node structs, so the passes never alias
// each other's writes.
//
// RunLayout panics with apperr.ErrInternalConsistency when an edge references
// a node ID absent from data.Nodes. The builder guarantees that cannot
// happen; a panic here means the graph was constructed by hand and is broken.
func RunLayout(data *Data, cfg Config) {
	n := len(data.Nodes)
	if n == 0 {
		return
	}

	x := make([]float64, n)
	y := make([]float64, n)
	vx := make([]float64, n)
	vy := make([]float64, n)

	// Uniform random start in a Spread-sided square centered at the origin.
	for i := 0; i < n; i++ {
		x[i] = (rand.Float64() - 0.5) * cfg.Spread
		y[i] = (rand.Float64() - 0.5) * cfg.Spread
	}

	// Resolve edges to index pairs once, up front.
	idx := data.NodeIndex()
	type edgePair struct{ a, b int }
	pairs := make([]edgePair, len(data.Edges))
	for k, e := range data.Edges {
		a, ok := idx[e.SourceID]
		if !ok {
			panic(fmt.Sprintf("graph: %v: edge source %q has no node", apperr.ErrInternalConsistency, e.SourceID))
		}
		b, ok := idx[e.TargetID]
		if !ok {
			panic(fmt.Sprintf("graph: %v: edge target %q has no node", apperr.ErrInternalConsistency, e.TargetID))
		}
		pairs[k] = edgePair{a: a, b: b}
	}

	cutoffSq := cfg.RepulsionCutoff * cfg.RepulsionCutoff

	for it := 0; it < cfg.Iterations; it++ {
		// Repulsion: inverse-square push between every pair within the cutoff.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := x[i] - x[j]
				dy := y[i] - y[j]
				distSq := dx*dx + dy*dy

				if distSq == 0 {
					// Coincident nodes would otherwise repel with zero
					// force forever; nudge them apart along a random
					// direction instead.
					ang := rand.Float64() * 2 * math.Pi
					nudge := cfg.MinDistance * 0.01
					fx := math.Cos(ang) * nudge
					fy := math.Sin(ang) * nudge
					vx[i] += fx
					vy[i] += fy
					vx[j] -= fx
					vy[j] -= fy
					continue
				}
				if distSq >= cutoffSq {
					continue
				}

				dist := math.Sqrt(distSq)
				force := cfg.RepulsionStrength / distSq
				fx := dx / dist * force
				fy := dy / dist * force
				vx[i] += fx
				vy[i] += fy
				vx[j] -= fx
				vy[j] -= fy
			}
		}

		// Attraction: spring pull along edges longer than the rest length.
		// Below MinDistance no force applies; repulsion alone keeps the
		// endpoints from collapsing.
		for _, p := range pairs {
			dx := x[p.b] - x[p.a]
			dy := y[p.b] - y[p.a]
			dist := math.Hypot(dx, dy)
			if dist <= cfg.MinDistance || dist == 0 {
				continue
			}
			force := (dist - cfg.MinDistance) * cfg.AttractionStrength
			fx := dx / dist * force
			fy := dy / dist * force
			vx[p.a] += fx
			vy[p.a] += fy
			vx[p.b] -= fx
			vy[p.b] -= fy
		}

		// Integration: advance positions, then bleed energy.
		for i := 0; i < n; i++ {
			x[i] += vx[i]
			y[i] += vy[i]
			vx[i] *= cfg.Damping
			vy[i] *= cfg.Damping
		}
	}

	for i := range data.Nodes {
		data.Nodes[i].X = x[i]
		data.Nodes[i].Y = y[i]
		data.Nodes[i].VX = vx[i]
		data.Nodes[i].VY = vy[i]
	}
}
