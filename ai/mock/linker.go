package mock

import (
	"context"
	"sync"

	"github.com/poiesic/marginalia/ai"
	"github.com/poiesic/marginalia/core"
)

// Completer is a configurable fake chat backend.
type Completer struct {
	// CompleteFunc supplies the response. When nil, Complete returns "[]".
	CompleteFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	mu    sync.Mutex
	calls int
}

var _ ai.Completer = (*Completer)(nil)

func (c *Completer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	if c.CompleteFunc != nil {
		return c.CompleteFunc(ctx, systemPrompt, userPrompt)
	}
	return "[]", nil
}

// Calls returns how many times Complete was invoked.
func (c *Completer) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Linker is a configurable fake semantic linker.
type Linker struct {
	// LinkFunc supplies the ranked ids. When nil, LinkConcepts returns nil.
	LinkFunc func(ctx context.Context, source *core.Fragment, candidates []*core.Fragment, maxLinks int) ([]core.ID, error)

	mu    sync.Mutex
	calls int
}

var _ ai.SemanticLinker = (*Linker)(nil)

func (l *Linker) LinkConcepts(ctx context.Context, source *core.Fragment, candidates []*core.Fragment, maxLinks int) ([]core.ID, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()

	if l.LinkFunc != nil {
		return l.LinkFunc(ctx, source, candidates, maxLinks)
	}
	return nil, nil
}

// Calls returns how many times LinkConcepts was invoked.
func (l *Linker) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}
