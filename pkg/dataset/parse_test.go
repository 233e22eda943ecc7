package dataset

import (
	"strings"
	"testing"
)

const validDoc = `{
	"metadata": {"total_words": 3, "embedding_dimension": 4, "model": "all-MiniLM-L6-v2", "projection": "t-SNE"},
	"words": [
		{
			"word": "temperature",
			"position": {"x": 10.5, "y": -3.25, "z": 0},
			"frequency": 42,
			"categories": ["hvac"],
			"example": "Increase the temperature by two degrees",
			"similar_words": [["climate", 0.91], ["heating", 0.84]],
			"embedding": [0.1, 0.2, 0.3, 0.4]
		},
		{
			"word": "climate",
			"position": {"x": 12, "y": -2, "z": 1},
			"categories": ["hvac"],
			"similar_words": [["temperature", 0.91]]
		},
		{
			"word": "heating",
			"position": {"x": 8, "y": -4, "z": -1},
			"categories": [],
			"similar_words": []
		}
	]
}`

func TestParse_Valid(t *testing.T) {
	d, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(d.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(d.Nodes))
	}

	n, ok := d.Node("temperature")
	if !ok {
		t.Fatal("expected temperature node")
	}
	if n.Position.X != 10.5 || n.Position.Y != -3.25 || n.Position.Z != 0 {
		t.Fatalf("unexpected position %v", n.Position)
	}
	if len(n.Similar) != 2 {
		t.Fatalf("expected 2 similarity entries, got %d", len(n.Similar))
	}
	if n.Similar[0].Word != "climate" || n.Similar[0].Score != 0.91 {
		t.Fatalf("unexpected first similarity entry %+v", n.Similar[0])
	}
	if n.Frequency != 42 {
		t.Fatalf("expected frequency 42, got %d", n.Frequency)
	}
	if d.Metadata.Model != "all-MiniLM-L6-v2" {
		t.Fatalf("unexpected metadata %+v", d.Metadata)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "invalid json",
			doc:  `{"words": [`,
		},
		{
			name: "empty words",
			doc:  `{"words": []}`,
		},
		{
			name: "missing word identifier",
			doc:  `{"words": [{"position": {"x": 1, "y": 2, "z": 3}}]}`,
		},
		{
			name: "missing position",
			doc:  `{"words": [{"word": "orphan"}]}`,
		},
		{
			name: "missing coordinate field",
			doc:  `{"words": [{"word": "flat", "position": {"x": 1, "y": 2}}]}`,
		},
		{
			name: "score above one",
			doc:  `{"words": [{"word": "hot", "position": {"x": 0, "y": 0, "z": 0}, "similar_words": [["cold", 1.2]]}]}`,
		},
		{
			name: "negative score",
			doc:  `{"words": [{"word": "hot", "position": {"x": 0, "y": 0, "z": 0}, "similar_words": [["cold", -0.1]]}]}`,
		},
		{
			name: "similarity entry not a pair",
			doc:  `{"words": [{"word": "hot", "position": {"x": 0, "y": 0, "z": 0}, "similar_words": [["cold"]]}]}`,
		},
		{
			name: "duplicate word",
			doc: `{"words": [
				{"word": "twin", "position": {"x": 0, "y": 0, "z": 0}},
				{"word": "twin", "position": {"x": 1, "y": 1, "z": 1}}
			]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestParse_DuplicateErrorNamesWord(t *testing.T) {
	doc := `{"words": [
		{"word": "twin", "position": {"x": 0, "y": 0, "z": 0}},
		{"word": "twin", "position": {"x": 1, "y": 1, "z": 1}}
	]}`
	_, err := Parse([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "twin") {
		t.Fatalf("expected duplicate error naming the word, got %v", err)
	}
}

func TestDataset_NormalizeOnce(t *testing.T) {
	d, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := d.Normalize(500); err != nil {
		t.Fatalf("first normalize failed: %v", err)
	}
	if err := d.Normalize(500); err != ErrAlreadyNormalized {
		t.Fatalf("expected ErrAlreadyNormalized, got %v", err)
	}
}
