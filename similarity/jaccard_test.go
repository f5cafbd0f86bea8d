package similarity

import (
	"testing"

	"github.com/poiesic/marginalia/core"
	"github.com/stretchr/testify/assert"
)

func TestMultiDimensional(t *testing.T) {
	t.Run("identical fragments score one", func(t *testing.T) {
		f := &core.Fragment{
			Id:       1,
			Text:     "distributed systems require consensus protocols",
			Tags:     []string{"systems"},
			Topics:   []string{"computing"},
			Concepts: concepts("Raft", "Paxos"),
		}
		assert.InDelta(t, 1.0, MultiDimensional(f, f), 1e-9)
	})

	t.Run("fully disjoint fragments score zero", func(t *testing.T) {
		a := &core.Fragment{Id: 1, Text: "apple orchard harvest", Tags: []string{"fruit"}}
		b := &core.Fragment{Id: 2, Text: "kernel scheduler design", Tags: []string{"linux"}}
		assert.Zero(t, MultiDimensional(a, b))
	})

	t.Run("concept overlap dominates", func(t *testing.T) {
		a := &core.Fragment{Id: 1, Text: "alpha", Concepts: concepts("Raft")}
		b := &core.Fragment{Id: 2, Text: "omega", Concepts: concepts("raft")}
		assert.InDelta(t, 0.4, MultiDimensional(a, b), 1e-9)
	})

	t.Run("short words ignored", func(t *testing.T) {
		a := &core.Fragment{Id: 1, Text: "the cat sat on mat"}
		b := &core.Fragment{Id: 2, Text: "the cat ran to mat"}
		assert.Zero(t, MultiDimensional(a, b))
	})

	t.Run("word dimension uses long words only", func(t *testing.T) {
		a := &core.Fragment{Id: 1, Text: "consensus protocols matter"}
		b := &core.Fragment{Id: 2, Text: "consensus protocols win"}
		// shared long words: consensus, protocols; union also includes matter
		expected := 0.15 * (2.0 / 3.0)
		assert.InDelta(t, expected, MultiDimensional(a, b), 1e-9)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := &core.Fragment{Id: 1, Text: "graph databases store edges", Topics: []string{"storage"}}
		b := &core.Fragment{Id: 2, Text: "relational databases store tables", Topics: []string{"storage", "sql"}}
		assert.Equal(t, MultiDimensional(a, b), MultiDimensional(b, a))
	})
}

func TestJaccard(t *testing.T) {
	setOf := func(items ...string) map[string]struct{} {
		s := make(map[string]struct{})
		for _, item := range items {
			s[item] = struct{}{}
		}
		return s
	}

	assert.InDelta(t, 1.0, jaccard(setOf("a", "b"), setOf("a", "b")), 1e-9)
	assert.InDelta(t, 1.0/3.0, jaccard(setOf("a", "b"), setOf("b", "c")), 1e-9)
	assert.Zero(t, jaccard(setOf("a"), setOf("b")))
	assert.Zero(t, jaccard(nil, nil))
	assert.Zero(t, jaccard(setOf("a"), nil))
}
