package graph

import "testing"

// sessionGraph: center connected to mid, mid to far, and a detached node
// placed well away from the rest.
func sessionGraph() *Data {
	return &Data{
		Nodes: []Node{
			{ID: "center", Title: "Center", X: 0, Y: 0, Connections: 1},
			{ID: "mid", Title: "Mid", X: 60, Y: 0, Connections: 2},
			{ID: "far", Title: "Far", X: 120, Y: 0, Connections: 1},
			{ID: "detached", Title: "Detached", X: 300, Y: 300},
		},
		Edges: []Edge{
			{SourceID: "center", TargetID: "mid"},
			{SourceID: "mid", TargetID: "far"},
		},
	}
}

func tapAt(x, y float64) Point { return Point{X: x, Y: y} }

func TestSession_SelectAndDeselect(t *testing.T) {
	s := NewSession(sessionGraph())
	if s.State() != StateIdle {
		t.Fatalf("initial state = %v", s.State())
	}

	if st := s.Tap(tapAt(0, 0), identity, vp()); st != StateNodeSelected {
		t.Fatalf("after tap on node: state = %v", st)
	}
	if id, ok := s.Selected(); !ok || id != "center" {
		t.Errorf("selected = (%q, %v)", id, ok)
	}

	// Tapping the same node again deselects.
	if st := s.Tap(tapAt(0, 0), identity, vp()); st != StateIdle {
		t.Errorf("after second tap: state = %v", st)
	}
	if _, ok := s.Selected(); ok {
		t.Error("selection should be cleared")
	}
}

func TestSession_EmptySpaceClearsSelection(t *testing.T) {
	s := NewSession(sessionGraph())
	s.Tap(tapAt(0, 0), identity, vp())
	if st := s.Tap(tapAt(200, 200), identity, vp()); st != StateIdle {
		t.Errorf("tap on empty space: state = %v", st)
	}
}

func TestSession_LocalGraphToggle(t *testing.T) {
	s := NewSession(sessionGraph())

	// Toggle without a selection is a no-op.
	if s.ToggleLocalGraph() {
		t.Error("toggle without selection should report false")
	}
	if s.State() != StateIdle {
		t.Errorf("state = %v", s.State())
	}

	s.Tap(tapAt(0, 0), identity, vp()) // select center
	if !s.ToggleLocalGraph() {
		t.Fatal("toggle with selection should succeed")
	}
	if s.State() != StateLocalGraph {
		t.Fatalf("state = %v", s.State())
	}

	// 2-degree neighborhood of center: center, mid, far. Not detached.
	visible := s.Visible()
	if len(visible) != 3 {
		t.Errorf("visible = %v, want center/mid/far", visible)
	}
	if _, ok := visible["detached"]; ok {
		t.Error("detached node should not be visible in local mode")
	}

	// Hit-testing is restricted to the neighborhood.
	if st := s.Tap(tapAt(300, 300), identity, vp()); st != StateIdle {
		t.Errorf("tap on hidden node should read as empty space, state = %v", st)
	}
	if s.Visible() != nil {
		t.Error("leaving local mode should clear the visible set")
	}
}

func TestSession_ToggleOffKeepsSelection(t *testing.T) {
	s := NewSession(sessionGraph())
	s.Tap(tapAt(0, 0), identity, vp())
	s.ToggleLocalGraph()
	if !s.ToggleLocalGraph() {
		t.Fatal("toggle off should succeed")
	}
	if s.State() != StateNodeSelected {
		t.Errorf("state = %v, want node_selected", s.State())
	}
	if id, ok := s.Selected(); !ok || id != "center" {
		t.Errorf("selected = (%q, %v), want center", id, ok)
	}
}

func TestSession_ReselectInLocalMode(t *testing.T) {
	s := NewSession(sessionGraph())
	s.Tap(tapAt(120, 0), identity, vp()) // select far
	s.ToggleLocalGraph()

	// Selecting mid re-centers the neighborhood on it.
	if st := s.Tap(tapAt(60, 0), identity, vp()); st != StateLocalGraph {
		t.Fatalf("state = %v", st)
	}
	if id, _ := s.Selected(); id != "mid" {
		t.Errorf("selected = %q, want mid", id)
	}
	visible := s.Visible()
	if _, ok := visible["center"]; !ok {
		t.Errorf("re-centered neighborhood should include center: %v", visible)
	}
}
