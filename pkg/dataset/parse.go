package dataset

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator"

	"github.com/semspace/semspace/pkg/space"
)

var validate = validator.New()

// wireWord mirrors one entry of the extractor's "words" array. Position fields
// are pointers so a missing coordinate is distinguishable from zero.
type wireWord struct {
	Word         string        `json:"word" validate:"required"`
	Position     *wirePosition `json:"position" validate:"required"`
	Frequency    int           `json:"frequency"`
	Categories   []string      `json:"categories"`
	Example      string        `json:"example"`
	SimilarWords []wireSimilar `json:"similar_words" validate:"dive"`
	Embedding    []float32     `json:"embedding"`
}

type wirePosition struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
	Z *float64 `json:"z" validate:"required"`
}

// wireSimilar accepts the extractor's tuple encoding: ["word", 0.87].
type wireSimilar struct {
	Word  string  `validate:"required"`
	Score float64 `validate:"gte=0,lte=1"`
}

func (w *wireSimilar) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("similarity entry is not a pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("similarity entry has %d elements, expected 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &w.Word); err != nil {
		return fmt.Errorf("similarity entry word: %w", err)
	}
	if err := json.Unmarshal(pair[1], &w.Score); err != nil {
		return fmt.Errorf("similarity entry score: %w", err)
	}
	return nil
}

type wireDoc struct {
	Words    []wireWord `json:"words" validate:"required,min=1,dive"`
	Metadata Metadata   `json:"metadata"`
}

// Parse decodes and validates the input artifact. Missing identifiers, missing
// coordinates, scores outside [0,1] and duplicate words are errors, never
// silently coerced.
func Parse(data []byte) (*Dataset, error) {
	var doc wireDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed document: %w", err)
	}

	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	d := &Dataset{
		Nodes:    make([]*ConceptNode, 0, len(doc.Words)),
		Metadata: doc.Metadata,
	}

	seen := make(map[string]struct{}, len(doc.Words))
	for i, w := range doc.Words {
		if _, dup := seen[w.Word]; dup {
			return nil, fmt.Errorf("duplicate word %q at index %d", w.Word, i)
		}
		seen[w.Word] = struct{}{}

		similar := make([]SimilarWord, len(w.SimilarWords))
		for j, s := range w.SimilarWords {
			similar[j] = SimilarWord{Word: s.Word, Score: s.Score}
		}

		d.Nodes = append(d.Nodes, &ConceptNode{
			Word:       w.Word,
			Position:   space.Vec3{X: *w.Position.X, Y: *w.Position.Y, Z: *w.Position.Z},
			Categories: w.Categories,
			Similar:    similar,
			Frequency:  w.Frequency,
			Example:    w.Example,
			Embedding:  w.Embedding,
		})
	}

	d.index()
	return d, nil
}
