package similarity

import (
	"testing"

	"github.com/poiesic/marginalia/core"
	"github.com/poiesic/marginalia/index"
	"github.com/stretchr/testify/assert"
)

func concepts(names ...string) []core.Concept {
	out := make([]core.Concept, len(names))
	for i, name := range names {
		out[i] = core.Concept{Name: name, Category: core.CategoryTechnology, Confidence: 0.9}
	}
	return out
}

func TestDirectOverlap(t *testing.T) {
	t.Run("identical sets", func(t *testing.T) {
		a := concepts("Go", "Channels")
		assert.InDelta(t, 1.0, DirectOverlap(a, a), 1e-9)
	})

	t.Run("case-insensitive", func(t *testing.T) {
		a := concepts("Go")
		b := concepts("go")
		assert.InDelta(t, 1.0, DirectOverlap(a, b), 1e-9)
	})

	t.Run("partial overlap", func(t *testing.T) {
		a := concepts("Go", "Channels")
		b := concepts("Go", "Goroutines")
		assert.InDelta(t, 0.5, DirectOverlap(a, b), 1e-9)
	})

	t.Run("disjoint sets", func(t *testing.T) {
		assert.Zero(t, DirectOverlap(concepts("Go"), concepts("Rust")))
	})

	t.Run("empty side", func(t *testing.T) {
		assert.Zero(t, DirectOverlap(nil, concepts("Go")))
	})

	t.Run("symmetric", func(t *testing.T) {
		a := concepts("Go", "Channels", "Goroutines")
		b := concepts("Go", "Rust")
		assert.Equal(t, DirectOverlap(a, b), DirectOverlap(b, a))
	})
}

func buildGraph(t *testing.T) *index.ConceptGraph {
	t.Helper()
	return index.NewConceptGraph([]*core.Fragment{
		{Id: 1, Text: "a", Concepts: concepts("Go", "Concurrency")},
		{Id: 2, Text: "b", Concepts: concepts("Concurrency", "Channels")},
	})
}

func TestGraphWalk(t *testing.T) {
	graph := buildGraph(t)

	t.Run("direct edge scores one", func(t *testing.T) {
		score := GraphWalk(concepts("Go"), concepts("Concurrency"), graph)
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("two-hop scores half", func(t *testing.T) {
		score := GraphWalk(concepts("Go"), concepts("Channels"), graph)
		assert.InDelta(t, 0.5, score, 1e-9)
	})

	t.Run("unconnected scores zero", func(t *testing.T) {
		assert.Zero(t, GraphWalk(concepts("Go"), concepts("Gardening"), graph))
	})

	t.Run("averages over pairs", func(t *testing.T) {
		// Go-Concurrency direct (1), Go-Channels two-hop (0.5)
		score := GraphWalk(concepts("Go"), concepts("Concurrency", "Channels"), graph)
		assert.InDelta(t, 0.75, score, 1e-9)
	})

	t.Run("identical concept is not a direct edge", func(t *testing.T) {
		// One fragment, one concept: "go" has no co-occurrence neighbors
		isolated := index.NewConceptGraph([]*core.Fragment{
			{Id: 1, Concepts: concepts("Go")},
		})
		assert.Zero(t, GraphWalk(concepts("Go"), concepts("go"), isolated))
	})

	t.Run("identical concept with neighbors scores half", func(t *testing.T) {
		// The (go, go) pair connects only through go's own neighbors
		score := GraphWalk(concepts("Go"), concepts("go"), graph)
		assert.InDelta(t, 0.5, score, 1e-9)
	})

	t.Run("nil graph", func(t *testing.T) {
		assert.Zero(t, GraphWalk(concepts("Go"), concepts("Concurrency"), nil))
	})

	t.Run("symmetric", func(t *testing.T) {
		a := concepts("Go", "Channels")
		b := concepts("Concurrency")
		assert.Equal(t, GraphWalk(a, b, graph), GraphWalk(b, a, graph))
	})
}

func TestCategoryWeighted(t *testing.T) {
	t.Run("same category full overlap", func(t *testing.T) {
		a := concepts("Go")
		assert.InDelta(t, 1.0, CategoryWeighted(a, a), 1e-9)
	})

	t.Run("weighted across categories", func(t *testing.T) {
		a := []core.Concept{
			{Name: "Go", Category: core.CategoryTechnology},
			{Name: "Ada Lovelace", Category: core.CategoryPerson},
		}
		b := []core.Concept{
			{Name: "Go", Category: core.CategoryTechnology},
			{Name: "Alan Turing", Category: core.CategoryPerson},
		}
		// Technology matches (1.0 weight), Person does not (0.6 weight)
		expected := (1.0*1.0 + 0.6*0.0) / (1.0 + 0.6)
		assert.InDelta(t, expected, CategoryWeighted(a, b), 1e-9)
	})

	t.Run("empty sets", func(t *testing.T) {
		assert.Zero(t, CategoryWeighted(nil, nil))
	})

	t.Run("symmetric", func(t *testing.T) {
		a := []core.Concept{{Name: "Paris", Category: core.CategoryLocation}}
		b := []core.Concept{{Name: "Paris", Category: core.CategoryLocation}, {Name: "Go", Category: core.CategoryTechnology}}
		assert.Equal(t, CategoryWeighted(a, b), CategoryWeighted(b, a))
	})
}

func TestCombinedConcept(t *testing.T) {
	graph := buildGraph(t)

	t.Run("identical concepts", func(t *testing.T) {
		a := concepts("Go", "Concurrency")
		score := CombinedConcept(a, a, graph)
		// direct 1.0, graph includes self-pairs through shared neighbors,
		// category 1.0; always within [0,1]
		assert.Greater(t, score, 0.7)
		assert.LessOrEqual(t, score, 1.0)
	})

	t.Run("single shared concept without neighbors", func(t *testing.T) {
		isolated := index.NewConceptGraph([]*core.Fragment{
			{Id: 1, Concepts: concepts("Go")},
		})
		// direct 1.0 and category 1.0 contribute; the walk term stays 0
		score := CombinedConcept(concepts("Go"), concepts("Go"), isolated)
		assert.InDelta(t, 0.7, score, 1e-9)
	})

	t.Run("disjoint unrelated concepts", func(t *testing.T) {
		score := CombinedConcept(concepts("Gardening"), concepts("Quantum"), graph)
		assert.Zero(t, score)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := concepts("Go", "Channels")
		b := concepts("Concurrency")
		assert.Equal(t, CombinedConcept(a, b, graph), CombinedConcept(b, a, graph))
	})
}

func TestSharedConceptNames(t *testing.T) {
	a := concepts("Go", "Channels", "Goroutines")
	b := concepts("goroutines", "go")

	names := SharedConceptNames(a, b)
	assert.Equal(t, []string{"Go", "Goroutines"}, names)

	assert.Empty(t, SharedConceptNames(a, nil))
}
