package ai

import (
	"context"

	"github.com/poiesic/marginalia/core"
)

// Completer generates a single chat completion.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends a system and user prompt to the model and returns
	// the raw response text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SemanticLinker asks a language model which candidate fragments relate
// to a source fragment.
// Implementations must be thread-safe for concurrent use.
type SemanticLinker interface {
	// LinkConcepts returns candidate fragment ids ordered from most to
	// least related, at most maxLinks of them. Ids not present in the
	// candidate set are dropped. An empty result means the model found
	// no meaningful relations.
	LinkConcepts(ctx context.Context, source *core.Fragment, candidates []*core.Fragment, maxLinks int) ([]core.ID, error)
}
