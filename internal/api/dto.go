package api

import (
	"github.com/starford/othala/internal/graph"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/noteservice"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// UpdateNoteRequest is the request body for updating a note.
type UpdateNoteRequest struct {
	Content string `json:"content"`
}

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// NoteListResponse wraps paginated note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes"`
	Total int            `json:"total"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results"`
}

// GraphResponse is a built, laid-out graph: nodes carry positions and
// connection counts, plus the unresolved-link report.
type GraphResponse struct {
	Nodes      []graph.Node           `json:"nodes"`
	Edges      []graph.Edge           `json:"edges"`
	Unresolved []graph.UnresolvedLink `json:"unresolved"`
}

// NeighborhoodResponse lists the node IDs reachable within the requested
// degree limit, start node included.
type NeighborhoodResponse struct {
	Center  string   `json:"center"`
	Degrees int      `json:"degrees"`
	Nodes   []string `json:"nodes"`
}

// FilterResponse lists the node IDs matching a search filter query.
type FilterResponse struct {
	Query string   `json:"query"`
	Nodes []string `json:"nodes"`
}

// HitRequest is a stateless screen-space hit test: the tap point, the
// client's view transform and viewport, and optionally the node IDs
// currently on screen.
type HitRequest struct {
	Point     graph.Point     `json:"point"`
	Transform graph.Transform `json:"transform"`
	Viewport  graph.Viewport  `json:"viewport"`
	Visible   []string        `json:"visible,omitempty"`
}

// HitResponse names the node under the tap, if any.
type HitResponse struct {
	NodeID string `json:"node_id,omitempty"`
	Hit    bool   `json:"hit"`
}

// TapRequest is a screen-space tap forwarded to a graph session.
type TapRequest struct {
	Point     graph.Point     `json:"point"`
	Transform graph.Transform `json:"transform"`
	Viewport  graph.Viewport  `json:"viewport"`
}

// SessionStateResponse reports a graph session's interaction state.
type SessionStateResponse struct {
	SessionID string   `json:"session_id"`
	State     string   `json:"state"`
	Selected  string   `json:"selected,omitempty"`
	Visible   []string `json:"visible,omitempty"`
}

// SessionCreateResponse is returned when a graph viewing session starts.
type SessionCreateResponse struct {
	SessionID string        `json:"session_id"`
	Graph     GraphResponse `json:"graph"`
}
