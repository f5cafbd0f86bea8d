package similarity

import (
	"strings"
	"unicode"

	"github.com/poiesic/marginalia/core"
)

// Dimension weights for multi-dimensional Jaccard similarity.
const (
	conceptWeight = 0.4
	topicWeight   = 0.3
	tagWeight     = 0.15
	wordWeight    = 0.15

	minWordLength = 5
)

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
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
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// longWordSet extracts lowercased words of at least minWordLength
// characters from the text, with punctuation stripped. No stemming.
func longWordSet(text string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	set := make(map[string]struct{})
	for _, word := range strings.Fields(cleaned) {
		if len(word) >= minWordLength {
			set[word] = struct{}{}
		}
	}
	return set
}

// MultiDimensional computes Jaccard similarity over four dimensions of
// a fragment pair and combines them with fixed weights. Used for local
// concept linking when no semantic backend is available.
func MultiDimensional(a, b *core.Fragment) float64 {
	conceptsA := conceptKeys(a.Concepts)
	conceptsB := conceptKeys(b.Concepts)

	score := conceptWeight*jaccard(conceptsA, conceptsB) +
		topicWeight*jaccard(lowerSet(a.Topics), lowerSet(b.Topics)) +
		tagWeight*jaccard(lowerSet(a.Tags), lowerSet(b.Tags)) +
		wordWeight*jaccard(longWordSet(a.Text), longWordSet(b.Text))

	return clamp01(score)
}
