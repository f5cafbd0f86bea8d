package search

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/marginalia/core"
	badgerstore "github.com/poiesic/marginalia/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearcher(t *testing.T) {
	store, backend, err := badgerstore.NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()
	defer store.Close()

	ctx := context.Background()
	old := time.Now().UTC().AddDate(0, -2, 0)

	_, err = store.AddFragments(ctx,
		&core.Fragment{
			Text:         "quantum physics explains particle behavior",
			Tags:         []string{"physics"},
			CollectionId: "science",
			CreatedAt:    old,
		},
		&core.Fragment{
			Text:         "quantum gardening is not a field",
			CollectionId: "misc",
			CreatedAt:    old,
		},
		&core.Fragment{
			Text:         "sourdough starter maintenance",
			CollectionId: "cooking",
			CreatedAt:    old,
		},
	)
	require.NoError(t, err)

	searcher, err := NewSearcher(store)
	require.NoError(t, err)

	t.Run("ranks by relevance", func(t *testing.T) {
		results, err := searcher.Search(ctx, "quantum physics", Filters{})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Contains(t, results[0].Fragment.Text, "particle")
		assert.Greater(t, results[0].Score, results[1].Score)
	})

	t.Run("excludes non-matching fragments", func(t *testing.T) {
		results, err := searcher.Search(ctx, "sourdough", Filters{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Contains(t, results[0].Fragment.Text, "sourdough")
	})

	t.Run("applies filters", func(t *testing.T) {
		results, err := searcher.Search(ctx, "quantum", Filters{CollectionId: "science"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "science", results[0].Fragment.CollectionId)
	})

	t.Run("no hits", func(t *testing.T) {
		results, err := searcher.Search(ctx, "nonexistent", Filters{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := searcher.Search(ctx, "   ", Filters{})
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})
}

func TestNewSearcher_NilStore(t *testing.T) {
	_, err := NewSearcher(nil)
	assert.ErrorIs(t, err, ErrStoreRequired)
}
