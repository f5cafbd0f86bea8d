package search

import (
	"strings"
	"time"

	"github.com/poiesic/marginalia/core"
)

// Score weights for the additive relevance model.
const (
	phraseTextScore  = 10.0
	phraseNoteScore  = 8.0
	phraseTitleScore = 5.0

	termConceptScore = 4.0
	termTextScore    = 3.0
	termTopicScore   = 3.0
	termNoteScore    = 2.0
	termTagScore     = 2.0
	termTitleScore   = 1.0

	recencyWeekScore = 1.0
	recencyDayScore  = 2.0
	popularityWeight = 0.5
)

// RelevanceScore computes the relevance of a fragment for a query at a
// given point in time. Returns 0 when nothing in the fragment matches;
// recency and popularity boosts apply only when something does, so they
// never surface unrelated fragments.
func RelevanceScore(query string, fragment *core.Fragment, now time.Time) float64 {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return 0
	}

	text := strings.ToLower(fragment.Text)
	note := strings.ToLower(fragment.Note)
	title := strings.ToLower(fragment.Title)

	var score float64

	// Full phrase matches
	if strings.Contains(text, query) {
		score += phraseTextScore
	}
	if note != "" && strings.Contains(note, query) {
		score += phraseNoteScore
	}
	if title != "" && strings.Contains(title, query) {
		score += phraseTitleScore
	}

	// Per-term matches; query terms are split on whitespace, no stemming
	for _, term := range strings.Fields(query) {
		if strings.Contains(text, term) {
			score += termTextScore
		}
		if note != "" && strings.Contains(note, term) {
			score += termNoteScore
		}
		if title != "" && strings.Contains(title, term) {
			score += termTitleScore
		}
		if matchesConcept(fragment.Concepts, term) {
			score += termConceptScore
		}
		if matchesAny(fragment.Topics, term) {
			score += termTopicScore
		}
		if matchesAny(fragment.Tags, term) {
			score += termTagScore
		}
	}

	if score == 0 {
		return 0
	}

	// Recency boost
	age := now.Sub(fragment.CreatedAt)
	if age >= 0 && age < 7*24*time.Hour {
		score += recencyWeekScore
		if age < 24*time.Hour {
			score += recencyDayScore
		}
	}

	// Popularity boost
	score += popularityWeight * float64(fragment.ReferenceCount)

	return score
}

func matchesConcept(concepts []core.Concept, term string) bool {
	for _, concept := range concepts {
		if strings.Contains(strings.ToLower(concept.Name), term) {
			return true
		}
	}
	return false
}

func matchesAny(values []string, term string) bool {
	for _, value := range values {
		if strings.Contains(strings.ToLower(value), term) {
			return true
		}
	}
	return false
}
