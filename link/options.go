package link

import "github.com/poiesic/marginalia/core"

// Defaults for FindRelated options.
const (
	DefaultMaxResults    = 5
	DefaultMinSimilarity = 0.3
)

// Options controls a single FindRelated request.
type Options struct {
	// MaxResults bounds the number of returned links.
	// Non-positive values revert to DefaultMaxResults.
	MaxResults int

	// MinSimilarity is the score threshold for the concept and text
	// similarity tiers. Negative values revert to DefaultMinSimilarity.
	MinSimilarity float64

	// UseAI enables the semantic linking tier when a backend is wired.
	UseAI bool

	// ExcludeIds removes specific fragments from the candidate set.
	ExcludeIds []core.ID
}

// DefaultOptions returns the options used when the caller passes none.
func DefaultOptions() Options {
	return Options{
		MaxResults:    DefaultMaxResults,
		MinSimilarity: DefaultMinSimilarity,
	}
}

func (o Options) normalized() Options {
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.MinSimilarity < 0 {
		o.MinSimilarity = DefaultMinSimilarity
	}
	return o
}
