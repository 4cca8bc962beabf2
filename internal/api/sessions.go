package api

import (
	"sync"

	"github.com/google/uuid"

	"github.com/starford/othala/internal/graph"
)

// maxSessions bounds the number of concurrently held graph sessions. Each
// session pins a full graph in memory, so the store evicts the oldest one
// when a new session would push it over the cap.
const maxSessions = 64

// SessionStore holds graph viewing sessions keyed by UUID. Sessions are
// in-memory only; a restart drops them and clients start over.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*graph.Session
	order    []string // creation order, oldest first
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*graph.Session)}
}

// Create wraps a built graph in a new session and returns its ID.
func (st *SessionStore) Create(data *graph.Data) string {
	st.mu.Lock()
	defer st.mu.Unlock()

	for len(st.order) >= maxSessions {
		oldest := st.order[0]
		st.order = st.order[1:]
		delete(st.sessions, oldest)
	}

	id := uuid.NewString()
	st.sessions[id] = graph.NewSession(data)
	st.order = append(st.order, id)
	return id
}

// State reports the session's current interaction state.
func (st *SessionStore) State(id string) (SessionStateResponse, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return SessionStateResponse{}, false
	}
	return stateResponse(id, s), true
}

// Tap forwards a tap into the session's state machine.
func (st *SessionStore) Tap(id string, pt graph.Point, tf graph.Transform, vp graph.Viewport) (SessionStateResponse, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return SessionStateResponse{}, false
	}
	s.Tap(pt, tf, vp)
	return stateResponse(id, s), true
}

// ToggleLocalGraph flips local-graph mode. The second return reports whether
// the session exists, the third whether the toggle took effect.
func (st *SessionStore) ToggleLocalGraph(id string) (SessionStateResponse, bool, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return SessionStateResponse{}, false, false
	}
	toggled := s.ToggleLocalGraph()
	return stateResponse(id, s), true, toggled
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return
	}
	delete(st.sessions, id)
	for i, v := range st.order {
		if v == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func stateResponse(id string, s *graph.Session) SessionStateResponse {
	resp := SessionStateResponse{SessionID: id, State: string(s.State())}
	if sel, ok := s.Selected(); ok {
		resp.Selected = sel
	}
	if vis := s.Visible(); vis != nil {
		resp.Visible = sortedIDs(vis)
	}
	return resp
}
