package graph

// State is the interaction state of one graph viewing session.
type State string

const (
	// StateIdle: nothing selected, full graph visible.
	StateIdle State = "idle"
	// StateNodeSelected: one node selected, full graph visible.
	StateNodeSelected State = "node_selected"
	// StateLocalGraph: one node selected, rendering and hit-testing
	// restricted to its 2-degree neighborhood.
	StateLocalGraph State = "local_graph"
)

// localGraphDegrees is the neighborhood radius used by local-graph mode.
const localGraphDegrees = 2

// Session holds the interaction state machine for one built graph. The
// engine's query operations are stateless; Session is the piece the
// presentation layer drives with taps and toggles. It is not safe for
// concurrent use; one session belongs to one viewer.
type Session struct {
	data     *Data
	state    State
	selected string
	visible  map[string]struct{} // non-nil only in StateLocalGraph
}

// NewSession wraps a built graph in an idle session.
func NewSession(data *Data) *Session {
	return &Session{data: data, state: StateIdle}
}

// Data returns the graph the session was built over.
func (s *Session) Data() *Data { return s.data }

// State returns the current interaction state.
func (s *Session) State() State { return s.state }

// Selected returns the selected node ID, if any.
func (s *Session) Selected() (string, bool) {
	return s.selected, s.selected != ""
}

// Visible returns the set of node IDs visible for rendering and hit-testing,
// or nil when the whole graph is visible.
func (s *Session) Visible() map[string]struct{} {
	return s.visible
}

// Tap feeds a screen-space tap into the state machine and returns the new
// state. Tapping a node selects it; tapping the selected node again, or empty
// space, returns to idle (leaving local-graph mode if active). In local-graph
// mode only visible nodes can be hit.
func (s *Session) Tap(pt Point, tf Transform, vp Viewport) State {
	id, hit := NodeAtPosition(pt, s.data, tf, vp, s.visible)
	if !hit {
		s.reset()
		return s.state
	}
	if id == s.selected {
		s.reset()
		return s.state
	}
	s.selected = id
	if s.state == StateLocalGraph {
		// Selecting another visible node re-centers the neighborhood.
		s.visible = ConnectedNodes(id, s.data, localGraphDegrees)
		return s.state
	}
	s.state = StateNodeSelected
	return s.state
}

// ToggleLocalGraph switches local-graph mode on or off. Turning it on
// requires a selected node; without one the call is a no-op and reports
// false. Turning it off keeps the selection.
func (s *Session) ToggleLocalGraph() bool {
	switch s.state {
	case StateLocalGraph:
		s.state = StateNodeSelected
		s.visible = nil
		return true
	case StateNodeSelected:
		s.visible = ConnectedNodes(s.selected, s.data, localGraphDegrees)
		s.state = StateLocalGraph
		return true
	default:
		return false
	}
}

func (s *Session) reset() {
	s.state = StateIdle
	s.selected = ""
	s.visible = nil
}
