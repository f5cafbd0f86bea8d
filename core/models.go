package core

import (
	"strings"
	"time"
)

// ID is a unique identifier for domain entities.
// IDs are generated from database sequences and are immutable once assigned.
type ID uint64

// ConceptCategory classifies a concept extracted from fragment text.
type ConceptCategory int

const (
	CategoryUnknown ConceptCategory = iota
	CategoryPerson
	CategoryOrganization
	CategoryTechnology
	CategoryTheory
	CategoryMethod
	CategoryLocation
	CategoryEvent
)

var categoryNames = map[ConceptCategory]string{
	CategoryUnknown:      "unknown",
	CategoryPerson:       "person",
	CategoryOrganization: "organization",
	CategoryTechnology:   "technology",
	CategoryTheory:       "theory",
	CategoryMethod:       "method",
	CategoryLocation:     "location",
	CategoryEvent:        "event",
}

// String returns the lowercase name of the category.
func (c ConceptCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseConceptCategory maps a category name to a ConceptCategory.
// Unrecognized names map to CategoryUnknown.
func ParseConceptCategory(s string) ConceptCategory {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "person":
		return CategoryPerson
	case "organization":
		return CategoryOrganization
	case "technology":
		return CategoryTechnology
	case "theory":
		return CategoryTheory
	case "method":
		return CategoryMethod
	case "location":
		return CategoryLocation
	case "event":
		return CategoryEvent
	default:
		return CategoryUnknown
	}
}

// Concept represents a named idea extracted from a fragment's text.
// Concept names are compared case-insensitively: two concepts whose names
// differ only by case are the same concept for similarity purposes.
type Concept struct {
	Name       string
	Category   ConceptCategory
	Confidence float64  // in [0,1]
	Related    []string // related concept names, informational only
}

// Key returns the canonical lowercase form of the concept name.
func (c *Concept) Key() string {
	return strings.ToLower(c.Name)
}

// Fragment represents a user-captured snippet of text with metadata.
// RelatedIds is owned by the FragmentStore; the engine only reads and
// writes it through the store's save operation.
type Fragment struct {
	Id             ID
	Title          string
	Text           string
	Note           string
	Tags           []string
	Topics         []string
	Concepts       []Concept
	CollectionId   string
	Color          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ReferenceCount int  // times the fragment has been revisited
	RelatedIds     []ID // never contains the fragment's own id
}

// MatchType identifies which strategy produced a link.
type MatchType string

const (
	MatchAISemantic     MatchType = "ai_semantic"
	MatchConceptBased   MatchType = "concept_based"
	MatchTextSimilarity MatchType = "text_similarity"
)

// Link is a single related-fragment result produced by the link engine.
type Link struct {
	FragmentId     ID
	Similarity     float64 // in [0,1]
	MatchType      MatchType
	SharedConcepts []string
	Reason         string
}

// SearchResult pairs a fragment with its relevance score for a query.
// Relevance scores are unbounded non-negative values.
type SearchResult struct {
	Fragment *Fragment
	Score    float64
}

// ConceptCount is a concept name with its fragment frequency.
type ConceptCount struct {
	Name  string
	Count int
}

// GraphStatistics summarizes linkage across the whole corpus.
type GraphStatistics struct {
	TotalFragments      int
	LinkedFragments     int
	LinkagePercentage   float64
	TotalLinks          int
	AvgLinksPerFragment float64
	TotalConcepts       int
	TopConcepts         []ConceptCount
}
