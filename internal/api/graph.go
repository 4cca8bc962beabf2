package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/graph"
	"github.com/starford/othala/internal/noteservice"
)

// maxNeighborhoodDegrees caps the hop limit a client may request.
const maxNeighborhoodDegrees = 10

// GraphHandler serves the graph build plus the interactive query operations.
type GraphHandler struct {
	svc      *noteservice.Service
	sessions *SessionStore
}

// NewGraphHandler creates a GraphHandler backed by the given session store.
func NewGraphHandler(svc *noteservice.Service, sessions *SessionStore) *GraphHandler {
	return &GraphHandler{svc: svc, sessions: sessions}
}

func graphResponse(data *graph.Data) GraphResponse {
	resp := GraphResponse{
		Nodes:      data.Nodes,
		Edges:      data.Edges,
		Unresolved: data.Unresolved,
	}
	if resp.Nodes == nil {
		resp.Nodes = []graph.Node{}
	}
	if resp.Edges == nil {
		resp.Edges = []graph.Edge{}
	}
	if resp.Unresolved == nil {
		resp.Unresolved = []graph.UnresolvedLink{}
	}
	return resp
}

// writeBuildError maps graph build failures onto HTTP statuses. A corpus
// fetch failure is retryable, so it gets 503 rather than a plain 500.
func writeBuildError(w http.ResponseWriter, err error) {
	if errors.Is(err, apperr.ErrDataUnavailable) {
		slog.Error("graph build failed, corpus unavailable", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, errorBody("note data unavailable, retry"))
		return
	}
	slog.Error("graph build failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}

// Graph handles GET /api/graph: a stateless build-and-layout of the whole
// note graph. Positions are random per call.
//
//	@Summary		Build and lay out the note graph
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *GraphHandler) Graph(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.BuildGraph(r.Context())
	if err != nil {
		writeBuildError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, graphResponse(data))
}

// Neighborhood handles GET /api/graph/neighborhood/*?degrees=N.
//
//	@Summary		Nodes reachable from a note within N hops, ignoring link direction
//	@Tags			graph
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Param			degrees	query		int		false	"Hop limit (default 1)"
//	@Success		200		{object}	NeighborhoodResponse
//	@Security		BearerAuth
//	@Router			/graph/neighborhood/{path} [get]
func (h *GraphHandler) Neighborhood(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	degrees := 1
	if raw := r.URL.Query().Get("degrees"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("degrees must be a non-negative integer"))
			return
		}
		degrees = n
	}
	if degrees > maxNeighborhoodDegrees {
		degrees = maxNeighborhoodDegrees
	}

	data, err := h.svc.ConstructGraph(r.Context())
	if err != nil {
		writeBuildError(w, err)
		return
	}
	ids := graph.ConnectedNodes(path, data, degrees)
	writeJSON(w, http.StatusOK, NeighborhoodResponse{
		Center:  path,
		Degrees: degrees,
		Nodes:   sortedIDs(ids),
	})
}

// Filter handles GET /api/graph/filter?q=. An empty query yields an empty
// match list; the client decides whether that means "no filter".
//
//	@Summary		Node IDs whose title or tags match a query
//	@Tags			graph
//	@Produce		json
//	@Param			q	query		string	false	"Substring query, case-insensitive"
//	@Success		200	{object}	FilterResponse
//	@Security		BearerAuth
//	@Router			/graph/filter [get]
func (h *GraphHandler) Filter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	data, err := h.svc.ConstructGraph(r.Context())
	if err != nil {
		writeBuildError(w, err)
		return
	}
	ids := graph.SearchFilter(q, data)
	writeJSON(w, http.StatusOK, FilterResponse{Query: q, Nodes: sortedIDs(ids)})
}

// Hit handles POST /api/graph/hit: resolves a screen tap against a fresh
// build-and-layout. Sessions hold a stable layout for repeated taps; this
// endpoint serves one-shot lookups. Gesture noise (bad transform, point
// outside the viewport) reads as a miss, never an error.
//
//	@Summary		Resolve a screen tap to a node
//	@Tags			graph
//	@Accept			json
//	@Produce		json
//	@Param			request	body		HitRequest	true	"Tap point, transform, viewport, optional visible IDs"
//	@Success		200		{object}	HitResponse
//	@Failure		503		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/graph/hit [post]
func (h *GraphHandler) Hit(w http.ResponseWriter, r *http.Request) {
	var req HitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	data, err := h.svc.BuildGraph(r.Context())
	if err != nil {
		writeBuildError(w, err)
		return
	}
	var visible map[string]struct{}
	if req.Visible != nil {
		visible = make(map[string]struct{}, len(req.Visible))
		for _, id := range req.Visible {
			visible[id] = struct{}{}
		}
	}
	id, ok := graph.NodeAtPosition(req.Point, data, req.Transform, req.Viewport, visible)
	writeJSON(w, http.StatusOK, HitResponse{NodeID: id, Hit: ok})
}

// CreateSession handles POST /api/graph/sessions: builds and lays out a
// graph, parks it in a viewing session, and hands both back.
//
//	@Summary		Start a graph viewing session
//	@Tags			graph
//	@Produce		json
//	@Success		201	{object}	SessionCreateResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/graph/sessions [post]
func (h *GraphHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.BuildGraph(r.Context())
	if err != nil {
		writeBuildError(w, err)
		return
	}
	id := h.sessions.Create(data)
	writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID: id,
		Graph:     graphResponse(data),
	})
}

// GetSession handles GET /api/graph/sessions/{id}.
func (h *GraphHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, ok := h.sessions.State(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("session not found"))
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Tap handles POST /api/graph/sessions/{id}/tap: forwards a screen tap into
// the session's state machine. Gesture noise (bad transform, point outside
// the viewport) simply reads as a miss; it never errors.
func (h *GraphHandler) Tap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req TapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	state, ok := h.sessions.Tap(id, req.Point, req.Transform, req.Viewport)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("session not found"))
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// ToggleLocalGraph handles POST /api/graph/sessions/{id}/local-graph.
// Toggling on requires a selected node; otherwise 409.
func (h *GraphHandler) ToggleLocalGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, found, toggled := h.sessions.ToggleLocalGraph(id)
	if !found {
		writeJSON(w, http.StatusNotFound, errorBody("session not found"))
		return
	}
	if !toggled {
		writeJSON(w, http.StatusConflict, errorBody("local-graph mode requires a selected node"))
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// DeleteSession handles DELETE /api/graph/sessions/{id}: the screen was
// closed, the graph is discarded.
func (h *GraphHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func sortedIDs(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
