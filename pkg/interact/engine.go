package interact

import (
	"math"

	"github.com/semspace/semspace/pkg/dataset"
	"github.com/semspace/semspace/pkg/scene"
	"github.com/semspace/semspace/pkg/space"
)

// Mode is the exclusive highlight mode currently applied to the graph.
type Mode int

const (
	ModeNone Mode = iota
	ModeHover
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModeHover:
		return "hover"
	case ModeSearch:
		return "search"
	default:
		return "none"
	}
}

// Engine owns the highlight state machine shared by pointer hover and text
// search. Hover takes precedence while active; releasing it restores the
// search highlight exactly when a non-empty query is still set.
type Engine struct {
	data  *dataset.Dataset
	scene *scene.Scene

	query   string
	matched map[string]struct{}
	hovered *scene.NodeSprite
}

// New creates an interaction engine over a built scene.
func New(d *dataset.Dataset, s *scene.Scene) *Engine {
	return &Engine{
		data:    d,
		scene:   s,
		matched: map[string]struct{}{},
	}
}

// Mode reports the active highlight mode. Hover wins while a node is hovered.
func (e *Engine) Mode() Mode {
	switch {
	case e.hovered != nil:
		return ModeHover
	case e.query != "":
		return ModeSearch
	default:
		return ModeNone
	}
}

// Hovered returns the identifier of the hovered node, or "" when idle. At most
// one node is hovered at any instant.
func (e *Engine) Hovered() string {
	if e.hovered == nil {
		return ""
	}
	return e.hovered.Word
}

// MatchedCount is the size of the current search match set, exposed to the
// hosting shell for display only.
func (e *Engine) MatchedCount() int {
	if e.query == "" {
		return 0
	}
	return len(e.matched)
}

// UpdateHover runs one hover-detection pass: the ray is intersected against
// every node sprite and the nearest hit becomes the hover candidate.
func (e *Engine) UpdateHover(ray space.Ray) {
	candidate := e.pick(ray)
	if candidate == e.hovered {
		return
	}

	// Reset the previous mode's visuals before applying the new one. With a
	// live query this restores the search highlight, not the bare baseline.
	e.restoreBackground()

	e.hovered = candidate
	if candidate == nil {
		return
	}

	candidate.Scale = scene.HoverNodeScale
	candidate.Opacity = 1
	candidate.Label.Visible = true
	candidate.Label.Opacity = 1
	candidate.Label.Scale = scene.HoverLabelScale

	e.triggerNeuralActivity(candidate)
}

// pick returns the nearest node sprite intersected by the ray, nil on a miss.
// Nearest hit wins; ties keep the earlier node.
func (e *Engine) pick(ray space.Ray) *scene.NodeSprite {
	var best *scene.NodeSprite
	bestT := math.Inf(1)

	for _, n := range e.scene.Nodes {
		t, ok := ray.IntersectSphere(n.Position(), n.HitRadius())
		if !ok {
			continue
		}
		if t < bestT {
			bestT = t
			best = n
		}
	}
	return best
}

// triggerNeuralActivity applies the overload effect: every edge touching the
// node lights up and launches its spark, every other edge is dimmed to a low
// but strictly non-zero opacity so the topology stays legible.
func (e *Engine) triggerNeuralActivity(n *scene.NodeSprite) {
	touching := make(map[int]struct{})
	for _, idx := range e.scene.EdgesTouching(n.Word) {
		touching[idx] = struct{}{}
	}

	for i, edge := range e.scene.Edges {
		edge.Overridden = true
		if _, ok := touching[i]; ok {
			edge.Overloaded = true
			edge.Opacity = scene.OverloadEdgeOpacity
			spark := e.scene.Sparks[i]
			spark.Active = true
			spark.Progress = 0
		} else {
			edge.Overloaded = false
			edge.Opacity = scene.DimmedEdgeOpacity
		}
	}
}

// restoreBackground clears hover visuals and brings the scene back to whatever
// the non-hover state is: the search highlight when a query is active, the
// plain baseline otherwise.
func (e *Engine) restoreBackground() {
	e.hovered = nil
	if e.query != "" {
		e.applySearch()
		return
	}
	e.scene.ResetVisuals()
}
