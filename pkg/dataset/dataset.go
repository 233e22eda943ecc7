package dataset

import (
	"errors"

	"github.com/semspace/semspace/pkg/space"
)

// SimilarWord is one entry of a node's similarity list: a neighbor identifier
// and the cosine similarity score that relates the two words.
type SimilarWord struct {
	Word  string
	Score float64
}

// ConceptNode is one entity of the semantic dataset. The position is owned
// exclusively by the node once created; it is normalized once at load time and
// afterwards only read.
type ConceptNode struct {
	Word       string
	Position   space.Vec3
	Categories []string
	Similar    []SimilarWord // sorted descending by score at extraction time
	Frequency  int
	Example    string
	Embedding  []float32
}

// Metadata describes how the artifact was produced.
type Metadata struct {
	TotalWords         int    `json:"total_words"`
	EmbeddingDimension int    `json:"embedding_dimension"`
	Model              string `json:"model"`
	Projection         string `json:"projection"`
}

// Dataset is the parsed and validated input artifact.
type Dataset struct {
	Nodes    []*ConceptNode
	Metadata Metadata

	byWord     map[string]*ConceptNode
	normalized bool
}

// Node looks a concept node up by its identifier.
func (d *Dataset) Node(word string) (*ConceptNode, bool) {
	n, ok := d.byWord[word]
	return n, ok
}

// Has reports whether the identifier exists in the dataset.
func (d *Dataset) Has(word string) bool {
	_, ok := d.byWord[word]
	return ok
}

// ErrAlreadyNormalized guards the one-shot normalization contract: running the
// transform twice would scale positions again.
var ErrAlreadyNormalized = errors.New("dataset: positions already normalized")

// Normalize maps all node positions into the origin-centered display volume.
// It must be invoked exactly once per load; a second call is rejected.
func (d *Dataset) Normalize(targetExtent float64) error {
	if d.normalized {
		return ErrAlreadyNormalized
	}

	points := make([]space.Vec3, len(d.Nodes))
	for i, n := range d.Nodes {
		points[i] = n.Position
	}

	normalized, err := space.Normalize(points, targetExtent)
	if err != nil {
		return err
	}

	for i, n := range d.Nodes {
		n.Position = normalized[i]
	}
	d.normalized = true
	return nil
}

func (d *Dataset) index() {
	d.byWord = make(map[string]*ConceptNode, len(d.Nodes))
	for _, n := range d.Nodes {
		d.byWord[n.Word] = n
	}
}
