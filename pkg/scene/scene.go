package scene

import (
	"github.com/semspace/semspace/pkg/dataset"
	"github.com/semspace/semspace/pkg/graph"
	"github.com/semspace/semspace/pkg/space"
)

// Label is the text anchored just below its node.
type Label struct {
	Text    string
	Opacity float64
	Scale   float64
	Visible bool
}

// NodeSprite is the point-like renderable for one concept node. Base is the
// normalized position and is never written after Build; FloatOffset is the
// idle-animation vertical jitter and affects display only, never edge or
// signal geometry.
type NodeSprite struct {
	Word       string
	Categories []string

	Base        space.Vec3
	FloatOffset float64
	Phase       float64

	Scale   float64
	Opacity float64
	Label   Label
}

// Position returns the displayed position including the float offset.
func (n *NodeSprite) Position() space.Vec3 {
	return space.Vec3{X: n.Base.X, Y: n.Base.Y + n.FloatOffset, Z: n.Base.Z}
}

// HitRadius is the pick-sphere radius used for hover raycasts.
func (n *NodeSprite) HitRadius() float64 {
	return PickRadius * n.Scale
}

// EdgeLine is the line renderable for one directed edge. From/To are the base
// endpoint positions. Overridden marks the opacity as controlled by an active
// highlight, which excludes the edge from the breathing animation.
type EdgeLine struct {
	Edge graph.Edge
	From space.Vec3
	To   space.Vec3

	Opacity    float64
	Overloaded bool
	Overridden bool
}

// Signal is the marker traveling along its edge. Progress stays in [0,1) and
// wraps; the position is interpolated between the edge endpoints every frame.
type Signal struct {
	EdgeIndex int
	Progress  float64
	Pos       space.Vec3
}

// Spark is the hover-triggered traveling marker. One spark per edge exists for
// the whole session; activation toggles instead of creating renderables.
type Spark struct {
	EdgeIndex int
	Progress  float64
	Pos       space.Vec3
	Active    bool
}

// Scene holds every renderable. Build is the only place renderables are
// created; frames mutate transform and appearance fields only, so the
// renderable count is stable for the session lifetime.
type Scene struct {
	Nodes   []*NodeSprite
	Edges   []*EdgeLine
	Signals []*Signal
	Sparks  []*Spark

	byWord      map[string]*NodeSprite
	edgesByWord map[string][]int
}

// Build materializes nodes, labels, edges, signals and sparks from the
// normalized dataset and the derived edge set.
func Build(d *dataset.Dataset, edges []graph.Edge) *Scene {
	s := &Scene{
		Nodes:       make([]*NodeSprite, 0, len(d.Nodes)),
		Edges:       make([]*EdgeLine, 0, len(edges)),
		Signals:     make([]*Signal, 0, len(edges)),
		Sparks:      make([]*Spark, 0, len(edges)),
		byWord:      make(map[string]*NodeSprite, len(d.Nodes)),
		edgesByWord: make(map[string][]int),
	}

	for i, n := range d.Nodes {
		sprite := &NodeSprite{
			Word:       n.Word,
			Categories: n.Categories,
			Base:       n.Position,
			Phase:      float64(i) * 0.37,
			Scale:      BaseNodeScale,
			Opacity:    BaseNodeOpacity,
			Label: Label{
				Text:    n.Word,
				Opacity: BaseLabelOpacity,
				Scale:   BaseLabelScale,
				Visible: true,
			},
		}
		s.Nodes = append(s.Nodes, sprite)
		s.byWord[n.Word] = sprite
	}

	for i, e := range edges {
		from, okFrom := d.Node(e.Source)
		to, okTo := d.Node(e.Target)
		if !okFrom || !okTo {
			// BuildEdges already drops unknown neighbors; an inconsistent
			// edge set here is a programming error, skip defensively.
			continue
		}

		s.Edges = append(s.Edges, &EdgeLine{
			Edge:    e,
			From:    from.Position,
			To:      to.Position,
			Opacity: BreathingMinOpacity,
		})
		s.Signals = append(s.Signals, &Signal{EdgeIndex: i, Pos: from.Position})
		s.Sparks = append(s.Sparks, &Spark{EdgeIndex: i})

		s.edgesByWord[e.Source] = append(s.edgesByWord[e.Source], i)
		s.edgesByWord[e.Target] = append(s.edgesByWord[e.Target], i)
	}

	return s
}

// NodeByWord looks a sprite up by its node identifier.
func (s *Scene) NodeByWord(word string) (*NodeSprite, bool) {
	n, ok := s.byWord[word]
	return n, ok
}

// EdgesTouching returns the indices of every edge with word as an endpoint.
func (s *Scene) EdgesTouching(word string) []int {
	return s.edgesByWord[word]
}

// ResetNode returns one sprite to the baseline appearance.
func (s *Scene) ResetNode(n *NodeSprite) {
	n.Scale = BaseNodeScale
	n.Opacity = BaseNodeOpacity
	n.Label.Opacity = BaseLabelOpacity
	n.Label.Scale = BaseLabelScale
	n.Label.Visible = true
}

// ResetVisuals returns every node, label and edge to the baseline state and
// releases all highlight overrides; breathing resumes on the next frame.
// Sparks are deactivated. Signal progress is untouched.
func (s *Scene) ResetVisuals() {
	for _, n := range s.Nodes {
		s.ResetNode(n)
	}
	for _, e := range s.Edges {
		e.Opacity = BreathingMinOpacity
		e.Overloaded = false
		e.Overridden = false
	}
	for _, sp := range s.Sparks {
		sp.Active = false
		sp.Progress = 0
	}
}
