package interact

import (
	"strings"

	"github.com/semspace/semspace/pkg/scene"
)

// SetQuery updates the search highlight. The match set is every node whose
// word or category contains the query case-insensitively, expanded one hop
// along similarity lists. An empty query returns the whole scene to baseline.
func (e *Engine) SetQuery(text string) {
	e.query = text
	e.matched = e.computeMatches(text)

	// Hover keeps precedence while active; the stored match set is applied
	// when the hover releases.
	if e.hovered != nil {
		return
	}

	if e.query == "" {
		e.scene.ResetVisuals()
		return
	}
	e.applySearch()
}

// Query returns the current search text.
func (e *Engine) Query() string {
	return e.query
}

func (e *Engine) computeMatches(text string) map[string]struct{} {
	matched := make(map[string]struct{})
	if text == "" {
		return matched
	}

	q := strings.ToLower(text)
	for _, n := range e.data.Nodes {
		if strings.Contains(strings.ToLower(n.Word), q) {
			matched[n.Word] = struct{}{}
			continue
		}
		for _, cat := range n.Categories {
			if strings.Contains(strings.ToLower(cat), q) {
				matched[n.Word] = struct{}{}
				break
			}
		}
	}

	// One-hop expansion: every neighbor named in a matched node's similarity
	// list joins the set, whether or not the dataset contains it; missing
	// neighbors simply have no sprite to highlight.
	expansion := make([]string, 0)
	for word := range matched {
		n, ok := e.data.Node(word)
		if !ok {
			continue
		}
		for _, s := range n.Similar {
			expansion = append(expansion, s.Word)
		}
	}
	for _, w := range expansion {
		matched[w] = struct{}{}
	}

	return matched
}

// applySearch paints the stored match set onto the scene: matched nodes are
// brightened with visible labels, others dim with hidden labels; an edge stays
// bright only when both endpoints matched.
func (e *Engine) applySearch() {
	for _, n := range e.scene.Nodes {
		if _, ok := e.matched[n.Word]; ok {
			n.Opacity = 1
			n.Scale = scene.MatchNodeScale
			n.Label.Visible = true
			n.Label.Opacity = 1
			n.Label.Scale = scene.BaseLabelScale
		} else {
			n.Opacity = scene.DimNodeOpacity
			n.Scale = scene.BaseNodeScale
			n.Label.Visible = false
			n.Label.Opacity = 0
			n.Label.Scale = scene.BaseLabelScale
		}
	}

	for _, edge := range e.scene.Edges {
		edge.Overridden = true
		edge.Overloaded = false

		_, srcOK := e.matched[edge.Edge.Source]
		_, dstOK := e.matched[edge.Edge.Target]
		if srcOK && dstOK {
			edge.Opacity = scene.SearchEdgeOpacity
		} else {
			edge.Opacity = scene.SearchDimEdgeOpacity
		}
	}

	for _, spark := range e.scene.Sparks {
		spark.Active = false
		spark.Progress = 0
	}
}
