package search

import (
	"strings"
	"time"

	"github.com/poiesic/marginalia/core"
)

// Filters narrow search results by fragment metadata. Zero-valued
// fields are ignored; populated fields must all match.
type Filters struct {
	CollectionId  string
	Tags          []string
	Color         string
	Topics        []string
	CreatedAfter  time.Time
	CreatedBefore time.Time
}

// Match reports whether the fragment satisfies every populated filter.
func (f Filters) Match(fragment *core.Fragment) bool {
	if f.CollectionId != "" && fragment.CollectionId != f.CollectionId {
		return false
	}
	if f.Color != "" && !strings.EqualFold(fragment.Color, f.Color) {
		return false
	}
	if len(f.Tags) > 0 && !containsAny(fragment.Tags, f.Tags) {
		return false
	}
	if len(f.Topics) > 0 && !containsAny(fragment.Topics, f.Topics) {
		return false
	}
	if !f.CreatedAfter.IsZero() && fragment.CreatedAt.Before(f.CreatedAfter) {
		return false
	}
	if !f.CreatedBefore.IsZero() && fragment.CreatedAt.After(f.CreatedBefore) {
		return false
	}
	return true
}

// containsAny reports whether any wanted value appears in the haystack,
// compared case-insensitively.
func containsAny(haystack, wanted []string) bool {
	for _, want := range wanted {
		for _, have := range haystack {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}
