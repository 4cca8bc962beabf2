package graph

import (
	"math"
	"testing"
)

// laidOutGraph places nodes at known coordinates so hit-tests are exact.
func laidOutGraph() *Data {
	return &Data{
		Nodes: []Node{
			{ID: "a.md", Title: "Alpha", Tags: []string{"greek", "first"}, X: 0, Y: 0, Connections: 1},
			{ID: "b.md", Title: "Beta", Tags: []string{"greek"}, X: 100, Y: 0, Connections: 1},
			{ID: "c.md", Title: "Gamma", X: 0, Y: 100},
		},
		Edges: []Edge{{SourceID: "a.md", TargetID: "b.md"}},
	}
}

var identity = Transform{Scale: 1}

func vp() Viewport { return Viewport{Width: 400, Height: 400} }

func TestNodeAtPosition_CenterHit(t *testing.T) {
	d := laidOutGraph()
	id, ok := NodeAtPosition(Point{X: 100, Y: 0}, d, identity, vp(), nil)
	if !ok || id != "b.md" {
		t.Errorf("hit = (%q, %v), want b.md", id, ok)
	}
}

func TestNodeAtPosition_FarMiss(t *testing.T) {
	d := laidOutGraph()
	if id, ok := NodeAtPosition(Point{X: 300, Y: 300}, d, identity, vp(), nil); ok {
		t.Errorf("expected miss, hit %q", id)
	}
}

func TestNodeAtPosition_Transformed(t *testing.T) {
	d := laidOutGraph()
	// Zoom 2x, pan by (50, 50): node b.md (graph 100,0) renders at (250, 50).
	tf := Transform{OffsetX: 50, OffsetY: 50, Scale: 2}
	id, ok := NodeAtPosition(Point{X: 250, Y: 50}, d, tf, vp(), nil)
	if !ok || id != "b.md" {
		t.Errorf("hit = (%q, %v), want b.md", id, ok)
	}
}

func TestNodeAtPosition_VisibleFilter(t *testing.T) {
	d := laidOutGraph()
	visible := map[string]struct{}{"a.md": {}}
	if id, ok := NodeAtPosition(Point{X: 100, Y: 0}, d, identity, vp(), visible); ok {
		t.Errorf("filtered node was hit: %q", id)
	}
	if id, ok := NodeAtPosition(Point{X: 0, Y: 0}, d, identity, vp(), visible); !ok || id != "a.md" {
		t.Errorf("visible node not hit: (%q, %v)", id, ok)
	}
}

func TestNodeAtPosition_DegenerateInputs(t *testing.T) {
	d := laidOutGraph()
	cases := []struct {
		name string
		pt   Point
		tf   Transform
	}{
		{"zero scale", Point{X: 0, Y: 0}, Transform{Scale: 0}},
		{"nan scale", Point{X: 0, Y: 0}, Transform{Scale: math.NaN()}},
		{"nan point", Point{X: math.NaN(), Y: 0}, identity},
		{"outside viewport", Point{X: -5, Y: 10}, identity},
		{"beyond viewport", Point{X: 1e6, Y: 10}, identity},
	}
	for _, tc := range cases {
		if id, ok := NodeAtPosition(tc.pt, d, tc.tf, vp(), nil); ok {
			t.Errorf("%s: expected miss, hit %q", tc.name, id)
		}
	}

	if _, ok := NodeAtPosition(Point{X: 0, Y: 0}, &Data{}, identity, vp(), nil); ok {
		t.Error("empty graph should never hit")
	}
	if _, ok := NodeAtPosition(Point{X: 0, Y: 0}, nil, identity, vp(), nil); ok {
		t.Error("nil graph should never hit")
	}
}

func TestNodeAtPosition_SkipsEmptyID(t *testing.T) {
	d := &Data{Nodes: []Node{{ID: "", X: 0, Y: 0, Connections: 5}}}
	if id, ok := NodeAtPosition(Point{X: 0, Y: 0}, d, identity, vp(), nil); ok {
		t.Errorf("node with empty id was hit: %q", id)
	}
}

func chain() *Data {
	// a - b - c - d, plus isolated e. Directions mixed on purpose.
	return &Data{
		Nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}},
		Edges: []Edge{
			{SourceID: "a", TargetID: "b"},
			{SourceID: "c", TargetID: "b"}, // points INTO the chain
			{SourceID: "c", TargetID: "d"},
		},
	}
}

func TestConnectedNodes_ZeroDegrees(t *testing.T) {
	got := ConnectedNodes("b", chain(), 0)
	if len(got) != 1 {
		t.Fatalf("got %v, want just {b}", got)
	}
	if _, ok := got["b"]; !ok {
		t.Errorf("start node missing: %v", got)
	}
}

func TestConnectedNodes_UndirectedTraversal(t *testing.T) {
	// From a, one hop reaches b; two hops reach c through the reversed
	// edge c->b; three reach d.
	d := chain()
	want := map[int]int{0: 1, 1: 2, 2: 3, 3: 4}
	prev := 0
	for degrees := 0; degrees <= 3; degrees++ {
		got := ConnectedNodes("a", d, degrees)
		if len(got) != want[degrees] {
			t.Errorf("degrees=%d: got %v, want %d nodes", degrees, got, want[degrees])
		}
		if len(got) < prev {
			t.Errorf("degrees=%d: result shrank, not monotonic", degrees)
		}
		prev = len(got)
	}
}

func TestConnectedNodes_IsolatedAndAbsent(t *testing.T) {
	d := chain()
	if got := ConnectedNodes("e", d, 5); len(got) != 1 {
		t.Errorf("isolated node neighborhood = %v, want {e}", got)
	}
	if got := ConnectedNodes("missing", d, 1); len(got) != 0 {
		t.Errorf("absent node should give empty set, got %v", got)
	}
}

func TestSearchFilter(t *testing.T) {
	d := laidOutGraph()

	if got := SearchFilter("", d); len(got) != 0 {
		t.Errorf("empty query should return empty set, got %v", got)
	}
	if got := SearchFilter("ALPHA", d); len(got) != 1 {
		t.Errorf("case-insensitive title match failed: %v", got)
	}
	// "greek" tags on a.md and b.md.
	got := SearchFilter("greek", d)
	if len(got) != 2 {
		t.Errorf("tag match = %v, want a.md and b.md", got)
	}
	if got := SearchFilter("am", d); len(got) != 1 { // substring of "Gamma"
		t.Errorf("substring match = %v, want c.md", got)
	}
	if got := SearchFilter("zzz", d); len(got) != 0 {
		t.Errorf("no-match query = %v, want empty", got)
	}
}
