package similarity

import (
	"math"
	"sort"
)

// Vector is a sparse TF-IDF vector keyed by term.
type Vector map[string]float64

// TFIDF computes a TF-IDF vector from raw term counts against the corpus.
// Term weight is raw count times ln(totalDocs / docFreq). Terms absent
// from the corpus or with zero frequency are skipped.
func TFIDF(termCounts map[string]int, docFreq func(term string) int, totalDocs int) Vector {
	if totalDocs == 0 {
		return Vector{}
	}

	vec := make(Vector, len(termCounts))
	for term, count := range termCounts {
		df := docFreq(term)
		if df == 0 || count == 0 {
			continue
		}
		idf := math.Log(float64(totalDocs) / float64(df))
		if idf == 0 {
			continue
		}
		vec[term] = float64(count) * idf
	}
	return vec
}

// Cosine computes the cosine similarity between two vectors.
// Returns 0 when either vector has zero magnitude.
func Cosine(a, b Vector) float64 {
	// Iterate the smaller vector
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for term, weightA := range a {
		if weightB, ok := b[term]; ok {
			dot += weightA * weightB
		}
	}
	if dot == 0 {
		return 0
	}

	magA := magnitude(a)
	magB := magnitude(b)
	if magA == 0 || magB == 0 {
		return 0
	}
	return clamp01(dot / (magA * magB))
}

func magnitude(v Vector) float64 {
	var sum float64
	for _, weight := range v {
		sum += weight * weight
	}
	return math.Sqrt(sum)
}

// SharedTerms returns up to n terms present in both vectors, ordered by
// the minimum of their two weights, heaviest first. Ties break
// alphabetically so the order is deterministic.
func SharedTerms(a, b Vector, n int) []string {
	type weighted struct {
		term   string
		weight float64
	}

	var shared []weighted
	for term, weightA := range a {
		if weightB, ok := b[term]; ok {
			shared = append(shared, weighted{term, math.Min(weightA, weightB)})
		}
	}

	sort.Slice(shared, func(i, j int) bool {
		if shared[i].weight != shared[j].weight {
			return shared[i].weight > shared[j].weight
		}
		return shared[i].term < shared[j].term
	})
	if len(shared) > n {
		shared = shared[:n]
	}

	terms := make([]string, len(shared))
	for i, s := range shared {
		terms[i] = s.term
	}
	return terms
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
