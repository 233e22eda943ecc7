package interact

import (
	"testing"

	"github.com/semspace/semspace/pkg/dataset"
	"github.com/semspace/semspace/pkg/graph"
	"github.com/semspace/semspace/pkg/scene"
	"github.com/semspace/semspace/pkg/space"
)

// X-Y and Z-X are connected, P-Q is an unrelated pair far away.
const testDoc = `{"words": [
	{"word": "X", "position": {"x": 0, "y": 0, "z": 0}, "categories": ["core"],
	 "similar_words": [["Y", 0.9]]},
	{"word": "Y", "position": {"x": 100, "y": 0, "z": 0}, "similar_words": []},
	{"word": "Z", "position": {"x": 0, "y": 100, "z": 0},
	 "similar_words": [["X", 0.8]]},
	{"word": "P", "position": {"x": 400, "y": 400, "z": 0}, "categories": ["remote"],
	 "similar_words": [["Q", 0.7]]},
	{"word": "Q", "position": {"x": 500, "y": 400, "z": 0}, "similar_words": []}
]}`

func newTestEngine(t *testing.T) (*dataset.Dataset, *scene.Scene, *Engine) {
	t.Helper()
	d, err := dataset.Parse([]byte(testDoc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	edges := graph.BuildEdges(d, 0.5)
	s := scene.Build(d, edges)
	return d, s, New(d, s)
}

// rayAt casts straight at the given sprite from far along -Z.
func rayAt(s *scene.Scene, word string) space.Ray {
	n, _ := s.NodeByWord(word)
	pos := n.Position()
	return space.NewRay(space.Vec3{X: pos.X, Y: pos.Y, Z: -1000}, pos)
}

// rayMiss points far away from every node.
func rayMiss() space.Ray {
	return space.NewRay(space.Vec3{X: -5000, Y: -5000, Z: -1000}, space.Vec3{X: -5000, Y: -5000, Z: 0})
}

func TestHover_NearestHitWins(t *testing.T) {
	_, s, e := newTestEngine(t)

	// The ray passes through X first, then Y behind it.
	xNode, _ := s.NodeByWord("X")
	yNode, _ := s.NodeByWord("Y")
	xNode.Base = space.Vec3{X: 0, Y: 0, Z: 0}
	yNode.Base = space.Vec3{X: 0, Y: 0, Z: 50}

	ray := space.NewRay(space.Vec3{X: 0, Y: 0, Z: -1000}, space.Vec3{})
	e.UpdateHover(ray)

	if e.Hovered() != "X" {
		t.Fatalf("expected nearest node X hovered, got %q", e.Hovered())
	}
}

func TestHover_OverloadEffect(t *testing.T) {
	_, s, e := newTestEngine(t)

	e.UpdateHover(rayAt(s, "X"))

	if e.Hovered() != "X" {
		t.Fatalf("expected X hovered, got %q", e.Hovered())
	}
	if e.Mode() != ModeHover {
		t.Fatalf("expected hover mode, got %v", e.Mode())
	}

	xNode, _ := s.NodeByWord("X")
	if xNode.Scale != scene.HoverNodeScale {
		t.Fatalf("expected hover scale, got %v", xNode.Scale)
	}
	if xNode.Label.Opacity != 1 || xNode.Label.Scale != scene.HoverLabelScale {
		t.Fatalf("expected opaque enlarged label, got %+v", xNode.Label)
	}

	for i, edge := range s.Edges {
		if edge.Edge.Touches("X") {
			if !edge.Overloaded || edge.Opacity != scene.OverloadEdgeOpacity {
				t.Fatalf("edge %+v should be overloaded", edge.Edge)
			}
			if !s.Sparks[i].Active {
				t.Fatalf("edge %+v should carry an active spark", edge.Edge)
			}
		} else {
			if edge.Overloaded {
				t.Fatalf("unrelated edge %+v must not overload", edge.Edge)
			}
			// Dimmed, never invisible.
			if edge.Opacity <= 0 {
				t.Fatalf("unrelated edge %+v dimmed to zero", edge.Edge)
			}
			if edge.Opacity != scene.DimmedEdgeOpacity {
				t.Fatalf("unrelated edge %+v not dimmed", edge.Edge)
			}
		}
	}
}

func TestHover_AtMostOneHoveredNode(t *testing.T) {
	_, s, e := newTestEngine(t)

	e.UpdateHover(rayAt(s, "X"))
	e.UpdateHover(rayAt(s, "P"))

	if e.Hovered() != "P" {
		t.Fatalf("expected P hovered, got %q", e.Hovered())
	}

	hovering := 0
	for _, n := range s.Nodes {
		if n.Scale == scene.HoverNodeScale {
			hovering++
		}
	}
	if hovering != 1 {
		t.Fatalf("expected exactly 1 node at hover scale, got %d", hovering)
	}

	xNode, _ := s.NodeByWord("X")
	if xNode.Scale != scene.BaseNodeScale {
		t.Fatalf("previous hover not reset: %+v", xNode)
	}
}

func TestHover_ReleaseResetsToBaseline(t *testing.T) {
	_, s, e := newTestEngine(t)

	e.UpdateHover(rayAt(s, "X"))
	e.UpdateHover(rayMiss())

	if e.Hovered() != "" {
		t.Fatalf("expected idle, got %q", e.Hovered())
	}
	if e.Mode() != ModeNone {
		t.Fatalf("expected none mode, got %v", e.Mode())
	}

	xNode, _ := s.NodeByWord("X")
	if xNode.Scale != scene.BaseNodeScale || xNode.Label.Opacity != scene.BaseLabelOpacity {
		t.Fatalf("hover visuals not reset: %+v", xNode)
	}
	for _, edge := range s.Edges {
		if edge.Overridden || edge.Overloaded {
			t.Fatalf("edge %+v still overridden after release", edge.Edge)
		}
	}
}

func TestSearch_MatchSet(t *testing.T) {
	_, s, e := newTestEngine(t)

	// "core" matches X by category; one-hop expansion pulls in Y.
	e.SetQuery("core")

	if e.Mode() != ModeSearch {
		t.Fatalf("expected search mode, got %v", e.Mode())
	}
	if e.MatchedCount() != 2 {
		t.Fatalf("expected 2 matched nodes, got %d", e.MatchedCount())
	}

	for _, word := range []string{"X", "Y"} {
		n, _ := s.NodeByWord(word)
		if n.Opacity != 1 || !n.Label.Visible {
			t.Fatalf("matched node %s not highlighted: %+v", word, n)
		}
	}
	for _, word := range []string{"Z", "P", "Q"} {
		n, _ := s.NodeByWord(word)
		if n.Opacity != scene.DimNodeOpacity || n.Label.Visible {
			t.Fatalf("non-matched node %s not dimmed: %+v", word, n)
		}
	}

	for _, edge := range s.Edges {
		_, srcOK := map[string]bool{"X": true, "Y": true}[edge.Edge.Source]
		_, dstOK := map[string]bool{"X": true, "Y": true}[edge.Edge.Target]
		if srcOK && dstOK {
			if edge.Opacity != scene.SearchEdgeOpacity {
				t.Fatalf("matched edge %+v not bright", edge.Edge)
			}
		} else if edge.Opacity != scene.SearchDimEdgeOpacity {
			t.Fatalf("edge %+v not search-dimmed", edge.Edge)
		}
	}
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	_, _, e := newTestEngine(t)

	e.SetQuery("REMO")
	// P matches category "remote"; expansion adds Q.
	if e.MatchedCount() != 2 {
		t.Fatalf("expected 2 matched nodes, got %d", e.MatchedCount())
	}
}

func TestSearch_EmptyQueryResetsBaseline(t *testing.T) {
	_, s, e := newTestEngine(t)

	e.SetQuery("core")
	e.SetQuery("")

	if e.Mode() != ModeNone {
		t.Fatalf("expected none mode, got %v", e.Mode())
	}
	if e.MatchedCount() != 0 {
		t.Fatalf("expected 0 matched, got %d", e.MatchedCount())
	}
	for _, n := range s.Nodes {
		if n.Opacity != scene.BaseNodeOpacity || !n.Label.Visible {
			t.Fatalf("node %s not at baseline: %+v", n.Word, n)
		}
	}
	for _, edge := range s.Edges {
		if edge.Overridden {
			t.Fatalf("edge %+v still overridden", edge.Edge)
		}
	}
}

func TestPrecedence_HoverOverridesSearchThenRestores(t *testing.T) {
	_, s, e := newTestEngine(t)

	e.SetQuery("core")
	e.UpdateHover(rayAt(s, "P"))

	if e.Mode() != ModeHover {
		t.Fatalf("expected hover to take precedence, got %v", e.Mode())
	}
	pNode, _ := s.NodeByWord("P")
	if pNode.Scale != scene.HoverNodeScale {
		t.Fatalf("hover visuals not applied over search: %+v", pNode)
	}

	// Releasing hover with a live query restores the search highlight
	// exactly, not the unconditional baseline.
	e.UpdateHover(rayMiss())

	if e.Mode() != ModeSearch {
		t.Fatalf("expected search mode restored, got %v", e.Mode())
	}
	xNode, _ := s.NodeByWord("X")
	if xNode.Opacity != 1 || !xNode.Label.Visible {
		t.Fatalf("search highlight not restored for X: %+v", xNode)
	}
	if pNode.Opacity != scene.DimNodeOpacity || pNode.Label.Visible {
		t.Fatalf("P should fall back to search-dimmed: %+v", pNode)
	}
}

func TestPrecedence_QueryChangeDuringHoverAppliesOnRelease(t *testing.T) {
	_, s, e := newTestEngine(t)

	e.UpdateHover(rayAt(s, "X"))
	e.SetQuery("remote")

	// Hover still owns the visuals.
	if e.Mode() != ModeHover {
		t.Fatalf("expected hover mode, got %v", e.Mode())
	}

	e.UpdateHover(rayMiss())
	if e.Mode() != ModeSearch {
		t.Fatalf("expected search mode after release, got %v", e.Mode())
	}
	pNode, _ := s.NodeByWord("P")
	if pNode.Opacity != 1 {
		t.Fatalf("search highlight not applied after release: %+v", pNode)
	}
}
