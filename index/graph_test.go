package index

import (
	"testing"

	"github.com/poiesic/marginalia/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conceptNamed(name string) core.Concept {
	return core.Concept{Name: name, Category: core.CategoryTechnology, Confidence: 0.9}
}

func TestConceptGraph(t *testing.T) {
	fragments := []*core.Fragment{
		{Id: 1, Text: "a", Concepts: []core.Concept{conceptNamed("Go"), conceptNamed("Concurrency")}},
		{Id: 2, Text: "b", Concepts: []core.Concept{conceptNamed("concurrency"), conceptNamed("Channels")}},
		{Id: 3, Text: "c", Concepts: []core.Concept{conceptNamed("Gardening")}},
	}

	graph := NewConceptGraph(fragments)

	t.Run("edges are symmetric", func(t *testing.T) {
		assert.True(t, graph.HasEdge("go", "concurrency"))
		assert.True(t, graph.HasEdge("concurrency", "go"))
	})

	t.Run("names compared case-insensitively", func(t *testing.T) {
		assert.True(t, graph.HasEdge("concurrency", "channels"))
	})

	t.Run("no edge without co-occurrence", func(t *testing.T) {
		assert.False(t, graph.HasEdge("go", "channels"))
		assert.False(t, graph.HasEdge("gardening", "go"))
	})

	t.Run("two-hop path via shared neighbor", func(t *testing.T) {
		// go - concurrency - channels
		assert.True(t, graph.SharesNeighbor("go", "channels"))
		assert.False(t, graph.SharesNeighbor("go", "gardening"))
	})

	t.Run("concept count", func(t *testing.T) {
		assert.Equal(t, 4, graph.ConceptCount())
	})

	t.Run("top concepts", func(t *testing.T) {
		top := graph.TopConcepts(2)
		require.Len(t, top, 2)
		assert.Equal(t, "Concurrency", top[0].Name)
		assert.Equal(t, 2, top[0].Count)
	})
}

func TestConceptGraph_Empty(t *testing.T) {
	graph := NewConceptGraph(nil)
	assert.Equal(t, 0, graph.ConceptCount())
	assert.False(t, graph.HasEdge("a", "b"))
	assert.False(t, graph.SharesNeighbor("a", "b"))
	assert.Empty(t, graph.TopConcepts(5))
}
