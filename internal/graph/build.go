package graph

import (
	"context"
	"fmt"

	"github.com/starford/othala/internal/apperr"
)

// SourceNote is the slice of a note the graph engine needs: identity, title
// (link resolution key), tags, and the deduplicated outgoing link targets
// persisted at index time.
type SourceNote struct {
	ID            string
	Title         string
	Tags          []string
	OutgoingLinks []string
}

// NoteSource supplies the note corpus for one graph build. FetchNotes must
// return a full snapshot atomically, not a live stream; one vault is one
// owner's corpus.
type NoteSource interface {
	FetchNotes(ctx context.Context) ([]SourceNote, error)
}

// Engine builds note graphs from a NoteSource and runs the layout.
type Engine struct {
	source NoteSource
	cfg    Config
}

// NewEngine creates an Engine over the given source. cfg fields left at zero
// fall back to DefaultConfig values.
func NewEngine(source NoteSource, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Spread <= 0 {
		cfg.Spread = def.Spread
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = def.Iterations
	}
	if cfg.RepulsionStrength <= 0 {
		cfg.RepulsionStrength = def.RepulsionStrength
	}
	if cfg.RepulsionCutoff <= 0 {
		cfg.RepulsionCutoff = def.RepulsionCutoff
	}
	if cfg.AttractionStrength <= 0 {
		cfg.AttractionStrength = def.AttractionStrength
	}
	if cfg.MinDistance <= 0 {
		cfg.MinDistance = def.MinDistance
	}
	if cfg.Damping <= 0 {
		cfg.Damping = def.Damping
	}
	return &Engine{source: source, cfg: cfg}
}

// BuildNoteGraph fetches the corpus, constructs nodes and edges, and runs the
// full layout simulation before returning. The caller blocks until positions
// are assigned; there is no cancellation once the simulation has started.
func (e *Engine) BuildNoteGraph(ctx context.Context) (*Data, error) {
	data, err := e.ConstructGraph(ctx)
	if err != nil {
		return nil, err
	}
	RunLayout(data, e.cfg)
	return data, nil
}

// ConstructGraph builds nodes and edges without running the layout. Used by
// queries that only need connectivity (neighborhood expansion, search).
func (e *Engine) ConstructGraph(ctx context.Context) (*Data, error) {
	notes, err := e.source.FetchNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("graph: fetch notes: %w: %w", apperr.ErrDataUnavailable, err)
	}

	data := &Data{
		Nodes: make([]Node, 0, len(notes)),
	}

	// Link targets resolve against note titles, case-sensitive exact match.
	// When two notes share a title the first fetched one wins.
	byTitle := make(map[string]string, len(notes))
	for _, n := range notes {
		data.Nodes = append(data.Nodes, Node{
			ID:    n.ID,
			Title: n.Title,
			Tags:  n.Tags,
		})
		if _, dup := byTitle[n.Title]; !dup && n.Title != "" {
			byTitle[n.Title] = n.ID
		}
	}

	degree := make(map[string]int, len(notes))
	for _, n := range notes {
		for _, target := range n.OutgoingLinks {
			targetID, ok := byTitle[target]
			if !ok {
				// No note carries this title: the link produces no edge
				// but is kept in the report.
				data.Unresolved = append(data.Unresolved, UnresolvedLink{
					SourceID:    n.ID,
					TargetTitle: target,
				})
				continue
			}
			data.Edges = append(data.Edges, Edge{SourceID: n.ID, TargetID: targetID})
			if n.ID == targetID {
				// A self-link is one edge the node appears in once.
				degree[n.ID]++
			} else {
				degree[n.ID]++
				degree[targetID]++
			}
		}
	}

	for i := range data.Nodes {
		data.Nodes[i].Connections = degree[data.Nodes[i].ID]
	}

	return data, nil
}
