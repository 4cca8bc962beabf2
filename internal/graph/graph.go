// Package graph builds the note graph and lays it out with a force-directed
// simulation. A build produces one Data value per viewing session: nodes and
// edges are reconstructed wholesale on every build, positions are
// re-randomized, and nothing is persisted between sessions.
package graph

// Node is one note in the graph. X/Y are layout positions owned by the
// simulation; VX/VY are transient velocity accumulators reset at layout
// start. Connections is the node's edge degree and only affects rendered
// size, never the simulation itself.
type Node struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags,omitempty"`
	Connections int      `json:"connections"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	VX          float64  `json:"-"`
	VY          float64  `json:"-"`
}

// Edge is a resolved directed link between two notes. Endpoints reference
// Node.ID by value; edges are rebuilt whenever nodes are rebuilt.
type Edge struct {
	SourceID string `json:"source"`
	TargetID string `json:"target"`
}

// UnresolvedLink records an outgoing link whose target title matched no note.
// Such links produce no edge; the report exists so callers can surface them.
type UnresolvedLink struct {
	SourceID    string `json:"source"`
	TargetTitle string `json:"target_title"`
}

// Data is the aggregate graph for one viewing session. Invariant: every
// edge's SourceID and TargetID resolve to a node present in Nodes.
type Data struct {
	Nodes      []Node           `json:"nodes"`
	Edges      []Edge           `json:"edges"`
	Unresolved []UnresolvedLink `json:"unresolved,omitempty"`
}

// NodeIndex returns a map from node ID to position in Nodes.
func (d *Data) NodeIndex() map[string]int {
	idx := make(map[string]int, len(d.Nodes))
	for i, n := range d.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Config holds the layout simulation parameters. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// Spread is the side length of the square the initial random positions
	// are drawn from, centered at the origin.
	Spread float64
	// Iterations is the fixed simulation step count. The loop always runs
	// the full count; there is no convergence check.
	Iterations int
	// RepulsionStrength scales the inverse-square force between node pairs.
	RepulsionStrength float64
	// RepulsionCutoff is the pair distance beyond which repulsion is skipped.
	RepulsionCutoff float64
	// AttractionStrength scales the spring force along edges.
	AttractionStrength float64
	// MinDistance is the spring rest length; edges shorter than this apply
	// no attractive force.
	MinDistance float64
	// Damping scales velocities after each integration step.
	Damping float64
}

// DefaultConfig returns the layout parameters used when none are configured.
func DefaultConfig() Config {
	return Config{
		Spread:             500,
		Iterations:         100,
		RepulsionStrength:  5000,
		RepulsionCutoff:    500,
		AttractionStrength: 0.05,
		MinDistance:        50,
		Damping:            0.8,
	}
}
