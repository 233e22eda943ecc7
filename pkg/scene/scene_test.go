package scene

import (
	"testing"

	"github.com/semspace/semspace/pkg/dataset"
	"github.com/semspace/semspace/pkg/graph"
)

const testDoc = `{"words": [
	{"word": "alpha", "position": {"x": 0, "y": 0, "z": 0}, "categories": ["greek"],
	 "similar_words": [["beta", 0.9], ["gamma", 0.8]]},
	{"word": "beta", "position": {"x": 10, "y": 0, "z": 0},
	 "similar_words": [["alpha", 0.9]]},
	{"word": "gamma", "position": {"x": 0, "y": 10, "z": 0}, "similar_words": []}
]}`

func buildTestScene(t *testing.T) (*dataset.Dataset, []graph.Edge, *Scene) {
	t.Helper()
	d, err := dataset.Parse([]byte(testDoc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	edges := graph.BuildEdges(d, 0.5)
	return d, edges, Build(d, edges)
}

func TestBuild_RenderableCounts(t *testing.T) {
	d, edges, s := buildTestScene(t)

	if len(s.Nodes) != len(d.Nodes) {
		t.Fatalf("expected %d node sprites, got %d", len(d.Nodes), len(s.Nodes))
	}
	if len(s.Edges) != len(edges) {
		t.Fatalf("expected %d edge lines, got %d", len(edges), len(s.Edges))
	}
	// Exactly one signal and one spark per edge.
	if len(s.Signals) != len(edges) {
		t.Fatalf("expected %d signals, got %d", len(edges), len(s.Signals))
	}
	if len(s.Sparks) != len(edges) {
		t.Fatalf("expected %d sparks, got %d", len(edges), len(s.Sparks))
	}
}

func TestBuild_Baseline(t *testing.T) {
	_, _, s := buildTestScene(t)

	for _, n := range s.Nodes {
		if n.Scale != BaseNodeScale || n.Opacity != BaseNodeOpacity {
			t.Fatalf("node %s not at baseline: %+v", n.Word, n)
		}
		if !n.Label.Visible || n.Label.Opacity != BaseLabelOpacity {
			t.Fatalf("label %s not at baseline: %+v", n.Word, n.Label)
		}
	}
	for _, e := range s.Edges {
		if e.Overloaded || e.Overridden {
			t.Fatalf("edge %+v not at baseline", e.Edge)
		}
	}
}

func TestScene_EdgesTouching(t *testing.T) {
	_, _, s := buildTestScene(t)

	touching := s.EdgesTouching("alpha")
	// alpha->beta, alpha->gamma, beta->alpha.
	if len(touching) != 3 {
		t.Fatalf("expected 3 edges touching alpha, got %d", len(touching))
	}

	if got := s.EdgesTouching("gamma"); len(got) != 1 {
		t.Fatalf("expected 1 edge touching gamma, got %d", len(got))
	}
}

func TestScene_FloatOffsetDoesNotMoveBase(t *testing.T) {
	_, _, s := buildTestScene(t)

	n := s.Nodes[0]
	base := n.Base
	n.FloatOffset = 3.5

	if n.Base != base {
		t.Fatal("float offset must not change the base position")
	}
	if n.Position().Y != base.Y+3.5 {
		t.Fatalf("expected displayed Y %v, got %v", base.Y+3.5, n.Position().Y)
	}
	// Edge geometry is computed from the base positions only.
	for _, e := range s.Edges {
		if e.Edge.Source == n.Word && e.From != base {
			t.Fatal("edge endpoint must stay at the base position")
		}
	}
}

func TestScene_ResetVisuals(t *testing.T) {
	_, _, s := buildTestScene(t)

	n := s.Nodes[0]
	n.Scale = HoverNodeScale
	n.Label.Visible = false
	s.Edges[0].Overloaded = true
	s.Edges[0].Overridden = true
	s.Sparks[0].Active = true
	s.Signals[0].Progress = 0.4

	s.ResetVisuals()

	if n.Scale != BaseNodeScale || !n.Label.Visible {
		t.Fatalf("node not reset: %+v", n)
	}
	if s.Edges[0].Overloaded || s.Edges[0].Overridden {
		t.Fatal("edge overrides not cleared")
	}
	if s.Sparks[0].Active {
		t.Fatal("spark not deactivated")
	}
	if s.Signals[0].Progress != 0.4 {
		t.Fatal("signal progress must survive a visual reset")
	}
}
