package index

import (
	"sort"

	"github.com/poiesic/marginalia/core"
)

// ConceptGraph is an undirected co-occurrence graph over concept names.
// Two concepts are connected when they appear on the same fragment.
// Names are compared case-insensitively.
type ConceptGraph struct {
	adjacency map[string]map[string]struct{}
	counts    map[string]int
	names     map[string]string
}

// NewConceptGraph builds the co-occurrence graph from the given fragments.
func NewConceptGraph(fragments []*core.Fragment) *ConceptGraph {
	g := &ConceptGraph{
		adjacency: make(map[string]map[string]struct{}),
		counts:    make(map[string]int),
		names:     make(map[string]string),
	}

	for _, fragment := range fragments {
		keys := make([]string, 0, len(fragment.Concepts))
		for _, concept := range fragment.Concepts {
			key := concept.Key()
			if key == "" {
				continue
			}
			keys = append(keys, key)
			g.counts[key]++
			if _, seen := g.names[key]; !seen {
				g.names[key] = concept.Name
			}
		}

		for i, a := range keys {
			for j, b := range keys {
				if i == j || a == b {
					continue
				}
				g.addEdge(a, b)
			}
		}
	}

	return g
}

func (g *ConceptGraph) addEdge(a, b string) {
	neighbors, ok := g.adjacency[a]
	if !ok {
		neighbors = make(map[string]struct{})
		g.adjacency[a] = neighbors
	}
	neighbors[b] = struct{}{}
}

// HasEdge reports whether two concepts co-occur on any fragment.
func (g *ConceptGraph) HasEdge(a, b string) bool {
	_, ok := g.adjacency[a][b]
	return ok
}

// SharesNeighbor reports whether some third concept is directly
// connected to both a and b, forming a two-hop path.
func (g *ConceptGraph) SharesNeighbor(a, b string) bool {
	neighborsA := g.adjacency[a]
	neighborsB := g.adjacency[b]
	if len(neighborsA) == 0 || len(neighborsB) == 0 {
		return false
	}
	// Walk the smaller set
	if len(neighborsB) < len(neighborsA) {
		neighborsA, neighborsB = neighborsB, neighborsA
	}
	for n := range neighborsA {
		if _, ok := neighborsB[n]; ok {
			return true
		}
	}
	return false
}

// ConceptCount returns the number of distinct concepts in the graph.
func (g *ConceptGraph) ConceptCount() int {
	return len(g.counts)
}

// TopConcepts returns the n most frequent concepts, most frequent first.
// Ties break alphabetically so the order is deterministic.
func (g *ConceptGraph) TopConcepts(n int) []core.ConceptCount {
	all := make([]core.ConceptCount, 0, len(g.counts))
	for key, count := range g.counts {
		all = append(all, core.ConceptCount{Name: g.names[key], Count: count})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Name < all[j].Name
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}
