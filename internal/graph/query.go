package graph

import (
	"math"
	"strings"
)

// Point is a 2D coordinate, in screen space unless stated otherwise.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the size of the rendering surface in screen units.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Transform is the pan/zoom mapping from graph space to screen space:
// screen = graph*Scale + Offset. A Scale of zero is degenerate (the inverse
// does not exist) and makes every hit-test miss.
type Transform struct {
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Scale   float64 `json:"scale"`
}

// Node render radius: a base size grown per connection, capped so hub notes
// do not swallow the canvas. Hit-testing uses the same numbers the renderer
// does.
const (
	baseNodeRadius = 8.0
	radiusPerConn  = 2.0
	maxNodeRadius  = 30.0
)

// NodeRadius returns the rendered circle radius for a node with the given
// connection count.
func NodeRadius(connections int) float64 {
	r := baseNodeRadius + radiusPerConn*float64(connections)
	if r > maxNodeRadius {
		return maxNodeRadius
	}
	return r
}

// NodeAtPosition maps a screen-space point through the inverse of the pan/zoom
// transform and returns the ID of the node whose rendered circle contains it.
// When visible is non-nil, nodes outside the set are ignored (local-graph
// mode). When several circles contain the point the node whose center is
// closest wins.
//
// Degenerate inputs return ("", false) rather than an error: they arise
// routinely from gesture noise. That covers an empty graph, a non-invertible
// or non-finite transform, a point outside the viewport or non-finite, and
// nodes with an empty ID.
func NodeAtPosition(pt Point, data *Data, tf Transform, vp Viewport, visible map[string]struct{}) (string, bool) {
	if data == nil || len(data.Nodes) == 0 {
		return "", false
	}
	if tf.Scale == 0 || !finite(tf.Scale) || !finite(tf.OffsetX) || !finite(tf.OffsetY) {
		return "", false
	}
	if !finite(pt.X) || !finite(pt.Y) {
		return "", false
	}
	if pt.X < 0 || pt.Y < 0 || pt.X > vp.Width || pt.Y > vp.Height {
		return "", false
	}

	gx := (pt.X - tf.OffsetX) / tf.Scale
	gy := (pt.Y - tf.OffsetY) / tf.Scale

	bestID := ""
	bestDistSq := math.Inf(1)
	for i := range data.Nodes {
		n := &data.Nodes[i]
		if n.ID == "" {
			continue
		}
		if visible != nil {
			if _, ok := visible[n.ID]; !ok {
				continue
			}
		}
		r := NodeRadius(n.Connections)
		dx := gx - n.X
		dy := gy - n.Y
		distSq := dx*dx + dy*dy
		if distSq <= r*r && distSq < bestDistSq {
			bestDistSq = distSq
			bestID = n.ID
		}
	}
	if bestID == "" {
		return "", false
	}
	return bestID, true
}

// ConnectedNodes expands outward from nodeID up to degrees hops and returns
// the start node plus everything reached. Edges are traversed in both
// directions: the link model is directed, but "related notes" deliberately
// ignores direction so that a note's neighborhood shows what links to it as
// well as what it links to.
//
// degrees of 0 returns just the start node. A nodeID absent from the graph
// returns an empty set; that is the defined contract, not a failure.
func ConnectedNodes(nodeID string, data *Data, degrees int) map[string]struct{} {
	out := make(map[string]struct{})
	if data == nil {
		return out
	}
	if _, ok := data.NodeIndex()[nodeID]; !ok {
		return out
	}
	if degrees < 0 {
		degrees = 0
	}

	adj := make(map[string][]string, len(data.Nodes))
	for _, e := range data.Edges {
		adj[e.SourceID] = append(adj[e.SourceID], e.TargetID)
		adj[e.TargetID] = append(adj[e.TargetID], e.SourceID)
	}

	out[nodeID] = struct{}{}
	frontier := []string{nodeID}
	for hop := 0; hop < degrees && len(frontier) > 0; hop++ {
		var next []string
		for _, id := range frontier {
			for _, nb := range adj[id] {
				if _, seen := out[nb]; seen {
					continue
				}
				out[nb] = struct{}{}
				next = append(next, nb)
			}
		}
		frontier = next
	}
	return out
}

// SearchFilter returns the IDs of nodes whose title or any tag contains query,
// case-insensitively. An empty query returns an empty set; interpreting that
// as "no filter" rather than "hide everything" is the caller's concern.
func SearchFilter(query string, data *Data) map[string]struct{} {
	out := make(map[string]struct{})
	if data == nil || query == "" {
		return out
	}
	q := strings.ToLower(query)
	for _, n := range data.Nodes {
		if strings.Contains(strings.ToLower(n.Title), q) {
			out[n.ID] = struct{}{}
			continue
		}
		for _, tag := range n.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				out[n.ID] = struct{}{}
				break
			}
		}
	}
	return out
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
