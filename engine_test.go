package marginalia

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/marginalia/ai/mock"
	"github.com/poiesic/marginalia/core"
	"github.com/poiesic/marginalia/link"
	"github.com/poiesic/marginalia/search"
	badgerstore "github.com/poiesic/marginalia/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEngine(t *testing.T) (*Engine, func()) {
	t.Helper()
	store, backend, err := badgerstore.NewMemoryStore()
	require.NoError(t, err)

	engine, err := NewEngineWithStore(store)
	require.NoError(t, err)

	return engine, func() {
		engine.Close()
		backend.Close()
	}
}

func seedEngine(t *testing.T, engine *Engine) {
	t.Helper()
	old := time.Now().UTC().AddDate(0, -1, 0)
	concept := func(name string) []core.Concept {
		return []core.Concept{{Name: name, Category: core.CategoryTechnology, Confidence: 0.9}}
	}

	_, err := engine.CaptureFragments(context.Background(),
		&core.Fragment{
			Text:      "goroutines multiplex onto operating system threads managed by the scheduler",
			Concepts:  concept("Go Runtime"),
			Tags:      []string{"golang"},
			CreatedAt: old,
		},
		&core.Fragment{
			Text:      "the scheduler parks goroutines blocked on channel operations until ready",
			Concepts:  concept("Go Runtime"),
			CreatedAt: old,
		},
		&core.Fragment{
			Text:      "sourdough fermentation depends on wild yeast and ambient temperature",
			Concepts:  concept("Baking"),
			CreatedAt: old,
		},
	)
	require.NoError(t, err)
}

func TestEngine_SearchFragments(t *testing.T) {
	engine, cleanup := setupEngine(t)
	defer cleanup()
	seedEngine(t, engine)

	results, err := engine.SearchFragments(context.Background(), "goroutines scheduler", search.Filters{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Greater(t, results[0].Score, 0.0)
}

func TestEngine_FindRelatedFragments(t *testing.T) {
	engine, cleanup := setupEngine(t)
	defer cleanup()
	seedEngine(t, engine)

	links, err := engine.FindRelatedFragments(context.Background(), 1, link.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, core.ID(2), links[0].FragmentId)
	assert.Equal(t, core.MatchConceptBased, links[0].MatchType)

	_, err = engine.FindRelatedFragments(context.Background(), 9999, link.DefaultOptions())
	assert.ErrorIs(t, err, link.ErrSourceNotFound)
}

func TestEngine_SetSemanticLinker(t *testing.T) {
	engine, cleanup := setupEngine(t)
	defer cleanup()
	seedEngine(t, engine)

	linker := &mock.Linker{
		LinkFunc: func(ctx context.Context, source *core.Fragment, candidates []*core.Fragment, maxLinks int) ([]core.ID, error) {
			return []core.ID{3}, nil
		},
	}
	engine.SetSemanticLinker(linker)

	links, err := engine.FindRelatedFragments(context.Background(), 1, link.Options{UseAI: true})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, core.ID(3), links[0].FragmentId)
	assert.Equal(t, core.MatchAISemantic, links[0].MatchType)
}

func TestEngine_BatchBuildLinksAndStatistics(t *testing.T) {
	engine, cleanup := setupEngine(t)
	defer cleanup()
	seedEngine(t, engine)

	before, err := engine.GraphStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, before.TotalFragments)
	assert.Equal(t, 0, before.LinkedFragments)
	assert.Equal(t, 2, before.TotalConcepts)

	var lastProcessed, lastTotal int
	err = engine.BatchBuildLinks(context.Background(), 10, func(processed, total int) {
		lastProcessed, lastTotal = processed, total
	})
	require.NoError(t, err)
	assert.Equal(t, lastTotal, lastProcessed)

	after, err := engine.GraphStatistics(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, after.LinkedFragments, 2)
	assert.Greater(t, after.AvgLinksPerFragment, 0.0)
	assert.NotEmpty(t, after.TopConcepts)
}
