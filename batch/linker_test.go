package batch

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/marginalia/core"
	"github.com/poiesic/marginalia/index"
	"github.com/poiesic/marginalia/link"
	"github.com/poiesic/marginalia/storage"
	badgerstore "github.com/poiesic/marginalia/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longText(topic string) string {
	return "extended notes about " + topic + " " + strings.Repeat("covering many details ", 3)
}

func setupLinker(t *testing.T, fragments ...*core.Fragment) (*Linker, storage.FragmentStore, func()) {
	t.Helper()
	store, backend, err := badgerstore.NewMemoryStore()
	require.NoError(t, err)

	_, err = store.AddFragments(context.Background(), fragments...)
	require.NoError(t, err)

	idx, err := index.New(store)
	require.NoError(t, err)

	finder, err := link.NewFinder(store, idx)
	require.NoError(t, err)

	linker, err := NewLinker(store, finder, WithBatchSize(2), WithPause(time.Millisecond))
	require.NoError(t, err)

	return linker, store, func() {
		store.Close()
		backend.Close()
	}
}

func sharedConcept() []core.Concept {
	return []core.Concept{{Name: "Distributed Systems", Category: core.CategoryTechnology, Confidence: 0.9}}
}

func TestLinker_Run(t *testing.T) {
	old := time.Now().UTC().AddDate(0, -1, 0)
	fragments := []*core.Fragment{
		{Text: longText("consensus"), Concepts: sharedConcept(), CreatedAt: old},
		{Text: longText("replication"), Concepts: sharedConcept(), CreatedAt: old},
		{Text: longText("sharding"), Concepts: sharedConcept(), CreatedAt: old},
		{Text: longText("gossip"), Concepts: sharedConcept(), CreatedAt: old},
		{Text: longText("quorums"), Concepts: sharedConcept(), CreatedAt: old},
		{Text: "too short", Concepts: sharedConcept(), CreatedAt: old},
	}
	linker, store, cleanup := setupLinker(t, fragments...)
	defer cleanup()

	var progress [][2]int
	err := linker.Run(context.Background(), func(processed, total int) {
		progress = append(progress, [2]int{processed, total})
	})
	require.NoError(t, err)

	t.Run("reports progress per batch", func(t *testing.T) {
		assert.Equal(t, [][2]int{{2, 5}, {4, 5}, {5, 5}}, progress)
	})

	t.Run("persists links", func(t *testing.T) {
		linked, err := store.GetFragment(context.Background(), 1)
		require.NoError(t, err)
		assert.NotEmpty(t, linked.RelatedIds)
		assert.NotContains(t, linked.RelatedIds, core.ID(1))
	})

	t.Run("short fragments skipped", func(t *testing.T) {
		short, err := store.GetFragment(context.Background(), 6)
		require.NoError(t, err)
		assert.Empty(t, short.RelatedIds)
	})

	t.Run("second run skips linked fragments", func(t *testing.T) {
		var calls [][2]int
		err := linker.Run(context.Background(), func(processed, total int) {
			calls = append(calls, [2]int{processed, total})
		})
		require.NoError(t, err)
		assert.Equal(t, [][2]int{{0, 0}}, calls)
	})
}

func TestLinker_Run_NoLinksFound(t *testing.T) {
	old := time.Now().UTC().AddDate(0, -1, 0)
	linker, store, cleanup := setupLinker(t,
		&core.Fragment{Text: longText("quantum entanglement physics"), CreatedAt: old},
		&core.Fragment{Text: strings.Repeat("completely different subject matter entirely ", 3), CreatedAt: old},
	)
	defer cleanup()

	err := linker.Run(context.Background(), nil)
	require.NoError(t, err)

	// Nothing similar enough; fragments stay unlinked and eligible
	fragment, err := store.GetFragment(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, fragment.RelatedIds)
}

func TestLinker_Run_Cancellation(t *testing.T) {
	old := time.Now().UTC().AddDate(0, -1, 0)
	fragments := make([]*core.Fragment, 0, 6)
	for _, topic := range []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"} {
		fragments = append(fragments, &core.Fragment{
			Text:      longText(topic),
			Concepts:  sharedConcept(),
			CreatedAt: old,
		})
	}
	linker, _, cleanup := setupLinker(t, fragments...)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())

	var progress [][2]int
	err := linker.Run(ctx, func(processed, total int) {
		progress = append(progress, [2]int{processed, total})
		cancel()
	})
	assert.ErrorIs(t, err, context.Canceled)
	// First batch completed before cancellation took effect
	require.NotEmpty(t, progress)
	assert.Equal(t, [2]int{2, 6}, progress[0])
}

func TestNewLinker_Validation(t *testing.T) {
	store, backend, err := badgerstore.NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()
	defer store.Close()

	idx, err := index.New(store)
	require.NoError(t, err)
	finder, err := link.NewFinder(store, idx)
	require.NoError(t, err)

	_, err = NewLinker(nil, finder)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewLinker(store, nil)
	assert.ErrorIs(t, err, ErrFinderRequired)

	_, err = NewLinker(store, finder, WithBatchSize(0))
	assert.ErrorIs(t, err, ErrInvalidBatchSize)

	_, err = NewLinker(store, finder, WithMaxLinks(0))
	assert.ErrorIs(t, err, ErrInvalidMaxLinks)
}
