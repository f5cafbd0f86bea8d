package similarity

import (
	"math"

	"github.com/poiesic/marginalia/core"
)

// Graph exposes the co-occurrence relations needed for graph-walk
// similarity. Implemented by index.ConceptGraph.
type Graph interface {
	// HasEdge reports whether two concept keys co-occur directly.
	HasEdge(a, b string) bool
	// SharesNeighbor reports whether a two-hop path connects the keys.
	SharesNeighbor(a, b string) bool
}

// categoryWeights ranks how strongly a shared category signals relatedness.
var categoryWeights = map[core.ConceptCategory]float64{
	core.CategoryTechnology:   1.0,
	core.CategoryTheory:       0.9,
	core.CategoryMethod:       0.8,
	core.CategoryEvent:        0.7,
	core.CategoryPerson:       0.6,
	core.CategoryOrganization: 0.5,
	core.CategoryUnknown:      0.4,
	core.CategoryLocation:     0.3,
}

func conceptKeys(concepts []core.Concept) map[string]struct{} {
	keys := make(map[string]struct{}, len(concepts))
	for _, concept := range concepts {
		if key := concept.Key(); key != "" {
			keys[key] = struct{}{}
		}
	}
	return keys
}

func overlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var intersection int
	for key := range a {
		if _, ok := b[key]; ok {
			intersection++
		}
	}
	return clamp01(float64(intersection) / math.Sqrt(float64(len(a))*float64(len(b))))
}

// DirectOverlap measures concept-set overlap normalized by the geometric
// mean of the set sizes. Case-insensitive over concept names.
func DirectOverlap(a, b []core.Concept) float64 {
	return overlap(conceptKeys(a), conceptKeys(b))
}

// GraphWalk scores every concept pair between the two sets against the
// co-occurrence graph: 1 for a direct edge, 0.5 for a two-hop path,
// 0 otherwise, averaged over all pairs. Rewards related concepts that
// never overlap exactly.
func GraphWalk(a, b []core.Concept, graph Graph) float64 {
	if graph == nil {
		return 0
	}
	keysA := conceptKeys(a)
	keysB := conceptKeys(b)
	if len(keysA) == 0 || len(keysB) == 0 {
		return 0
	}

	var total float64
	var pairs int
	for keyA := range keysA {
		for keyB := range keysB {
			pairs++
			switch {
			case graph.HasEdge(keyA, keyB):
				total += 1
			case graph.SharesNeighbor(keyA, keyB):
				total += 0.5
			}
		}
	}
	return clamp01(total / float64(pairs))
}

// CategoryWeighted groups concepts by category, computes overlap per
// category, and averages the per-category scores using fixed weights.
// Only categories populated on at least one side participate.
func CategoryWeighted(a, b []core.Concept) float64 {
	byCategoryA := groupByCategory(a)
	byCategoryB := groupByCategory(b)

	var weightedSum, weightTotal float64
	for category, weight := range categoryWeights {
		setA := byCategoryA[category]
		setB := byCategoryB[category]
		if len(setA) == 0 && len(setB) == 0 {
			continue
		}
		weightedSum += weight * overlap(setA, setB)
		weightTotal += weight
	}
	if weightTotal == 0 {
		return 0
	}
	return clamp01(weightedSum / weightTotal)
}

func groupByCategory(concepts []core.Concept) map[core.ConceptCategory]map[string]struct{} {
	grouped := make(map[core.ConceptCategory]map[string]struct{})
	for _, concept := range concepts {
		key := concept.Key()
		if key == "" {
			continue
		}
		set, ok := grouped[concept.Category]
		if !ok {
			set = make(map[string]struct{})
			grouped[concept.Category] = set
		}
		set[key] = struct{}{}
	}
	return grouped
}

// CombinedConcept blends direct overlap (0.5), graph walk (0.3), and
// category agreement (0.2) into a single concept-based score.
func CombinedConcept(a, b []core.Concept, graph Graph) float64 {
	direct := DirectOverlap(a, b)
	walk := GraphWalk(a, b, graph)
	category := CategoryWeighted(a, b)
	return clamp01(0.5*direct + 0.3*walk + 0.2*category)
}

// SharedConceptNames returns the display names of concepts present in
// both sets, preserving the order of the first set.
func SharedConceptNames(a, b []core.Concept) []string {
	keysB := conceptKeys(b)
	seen := make(map[string]struct{})
	var names []string
	for _, concept := range a {
		key := concept.Key()
		if key == "" {
			continue
		}
		if _, ok := keysB[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, concept.Name)
	}
	return names
}
