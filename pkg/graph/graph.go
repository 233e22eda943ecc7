package graph

import (
	"github.com/semspace/semspace/pkg/dataset"
	"github.com/semspace/semspace/pkg/logger"
)

// MaxNeighborsPerNode caps how many similarity entries per source node are
// considered for edges. Out-degree is therefore bounded by this value and the
// total edge count by MaxNeighborsPerNode * node count, independent of dataset
// similarity density.
const MaxNeighborsPerNode = 2

// DefaultSimilarityThreshold is the minimum score a similarity entry needs to
// produce a renderable edge.
const DefaultSimilarityThreshold = 0.55

// Edge is a directed visual link between two concept nodes. Mutual top
// similarity pairs produce two directed edges between the same words; the
// multigraph is intentional and hover highlighting depends on it.
type Edge struct {
	Source string
	Target string
	Weight float64
}

// Touches reports whether the edge has word as either endpoint.
func (e Edge) Touches(word string) bool {
	return e.Source == word || e.Target == word
}

// BuildEdges derives the edge set from each node's similarity list. Only the
// first MaxNeighborsPerNode entries are considered; the list is already sorted
// descending by score at extraction time, so it is not re-sorted here. Entries
// below the threshold are discarded, and entries naming a word absent from the
// dataset are dropped without failing the build.
func BuildEdges(d *dataset.Dataset, threshold float64) []Edge {
	edges := make([]Edge, 0, MaxNeighborsPerNode*len(d.Nodes))

	for _, n := range d.Nodes {
		limit := len(n.Similar)
		if limit > MaxNeighborsPerNode {
			limit = MaxNeighborsPerNode
		}

		for _, s := range n.Similar[:limit] {
			if s.Score < threshold {
				continue
			}
			if !d.Has(s.Word) {
				logger.Debug("[Graph] Dropped edge to unknown neighbor",
					"source", n.Word, "neighbor", s.Word)
				continue
			}
			edges = append(edges, Edge{
				Source: n.Word,
				Target: s.Word,
				Weight: s.Score,
			})
		}
	}

	return edges
}

// Stats are read-only derived counts exposed to the hosting shell for display.
type Stats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// ComputeStats derives the display statistics for a built graph.
func ComputeStats(d *dataset.Dataset, edges []Edge) Stats {
	return Stats{
		Nodes: len(d.Nodes),
		Edges: len(edges),
	}
}
