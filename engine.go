// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package marginalia

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/marginalia/ai"
	"github.com/poiesic/marginalia/batch"
	"github.com/poiesic/marginalia/core"
	"github.com/poiesic/marginalia/index"
	"github.com/poiesic/marginalia/link"
	"github.com/poiesic/marginalia/search"
	"github.com/poiesic/marginalia/storage"
	"github.com/poiesic/marginalia/storage/badger"
)

// Engine ties the fragment store, corpus index, searcher, and link
// finder into one unit. Index and cache state is private to an Engine
// instance; two engines never share mutable index state.
type Engine struct {
	backend  *badger.Backend
	store    storage.FragmentStore
	index    *index.Index
	cache    *link.Cache
	finder   *link.Finder
	searcher *search.Searcher
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig        *ai.Config
	refreshInterval time.Duration
	cacheTTL        time.Duration
}

// WithAIConfig enables the semantic linking tier with the given
// backend configuration. Without it the engine is fully local.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithRefreshInterval overrides how long index snapshots stay valid.
func WithRefreshInterval(interval time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.refreshInterval = interval
	}
}

// WithCacheTTL overrides how long link results stay cached.
func WithCacheTTL(ttl time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.cacheTTL = ttl
	}
}

// NewEngine opens the fragment database at filePath and assembles the
// engine around it.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	store, err := badger.NewFragmentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	engine, err := newEngine(store, opts...)
	if err != nil {
		store.Close()
		backend.Close()
		return nil, err
	}
	engine.backend = backend
	return engine, nil
}

// NewEngineWithStore assembles an engine over an existing fragment
// store. The caller keeps ownership of the store's backend.
func NewEngineWithStore(store storage.FragmentStore, opts ...EngineOption) (*Engine, error) {
	return newEngine(store, opts...)
}

func newEngine(store storage.FragmentStore, opts ...EngineOption) (*Engine, error) {
	// Apply options
	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var indexOpts []index.Option
	if options.refreshInterval > 0 {
		indexOpts = append(indexOpts, index.WithRefreshInterval(options.refreshInterval))
	}
	idx, err := index.New(store, indexOpts...)
	if err != nil {
		return nil, err
	}

	cache := link.NewCache(options.cacheTTL)

	finderOpts := []link.Option{link.WithCache(cache)}
	if options.aiConfig != nil && options.aiConfig.Provider != ai.ProviderNone {
		completer, err := ai.NewCompleter(context.Background(), options.aiConfig)
		if err != nil {
			return nil, err
		}
		linker, err := ai.NewConceptLinker(completer, options.aiConfig)
		if err != nil {
			return nil, err
		}
		finderOpts = append(finderOpts, link.WithSemanticLinker(linker))
	}

	finder, err := link.NewFinder(store, idx, finderOpts...)
	if err != nil {
		return nil, err
	}

	searcher, err := search.NewSearcher(store)
	if err != nil {
		return nil, err
	}

	return &Engine{
		store:    store,
		index:    idx,
		cache:    cache,
		finder:   finder,
		searcher: searcher,
		logger:   slog.Default(),
	}, nil
}

// Close releases the store and, when the engine opened it, the backend.
func (e *Engine) Close() error {
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing fragment store", "err", err)
		return err
	}
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			e.logger.Error("error closing backend storage", "err", err)
			return err
		}
	}
	return nil
}

// Store exposes the underlying fragment store.
func (e *Engine) Store() storage.FragmentStore {
	return e.store
}

// CaptureFragments stores new fragments and invalidates the index so
// the next query sees them.
func (e *Engine) CaptureFragments(ctx context.Context, fragments ...*core.Fragment) ([]*core.Fragment, error) {
	added, err := e.store.AddFragments(ctx, fragments...)
	if err != nil {
		return nil, err
	}
	e.index.Invalidate()
	return added, nil
}

// FindRelatedFragments returns fragments related to the source, ranked
// by similarity. Fails with link.ErrSourceNotFound for unknown ids.
func (e *Engine) FindRelatedFragments(ctx context.Context, sourceId core.ID, opts link.Options) ([]core.Link, error) {
	return e.finder.FindRelated(ctx, sourceId, opts)
}

// SearchFragments returns fragments matching the query, ordered by
// relevance score descending.
func (e *Engine) SearchFragments(ctx context.Context, query string, filters search.Filters) ([]*core.SearchResult, error) {
	return e.searcher.Search(ctx, query, filters)
}

// BatchBuildLinks links every unlinked eligible fragment in throttled
// batches, reporting progress after each batch. Already linked
// fragments are skipped, so repeated calls are idempotent.
func (e *Engine) BatchBuildLinks(ctx context.Context, batchSize int, onProgress batch.ProgressFunc) error {
	var batchOpts []batch.Option
	if batchSize > 0 {
		batchOpts = append(batchOpts, batch.WithBatchSize(batchSize))
	}
	linker, err := batch.NewLinker(e.store, e.finder, batchOpts...)
	if err != nil {
		return err
	}

	if err := linker.Run(ctx, onProgress); err != nil {
		return err
	}
	e.index.Invalidate()
	e.cache.Flush()
	return nil
}

// SetSemanticLinker swaps the semantic backend at runtime. The link
// cache is flushed because cached results may embed the old backend's
// judgment.
func (e *Engine) SetSemanticLinker(linker ai.SemanticLinker) {
	e.finder.SetSemanticLinker(linker)
}

// GraphStatistics summarizes linkage across the corpus.
func (e *Engine) GraphStatistics(ctx context.Context) (*core.GraphStatistics, error) {
	snapshot, err := e.index.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	stats := &core.GraphStatistics{
		TotalFragments: len(snapshot.Fragments),
		TotalConcepts:  snapshot.Graph.ConceptCount(),
		TopConcepts:    snapshot.Graph.TopConcepts(10),
	}
	for _, fragment := range snapshot.Fragments {
		if len(fragment.RelatedIds) > 0 {
			stats.LinkedFragments++
			stats.TotalLinks += len(fragment.RelatedIds)
		}
	}
	if stats.TotalFragments > 0 {
		stats.LinkagePercentage = float64(stats.LinkedFragments) / float64(stats.TotalFragments) * 100.0
		stats.AvgLinksPerFragment = float64(stats.TotalLinks) / float64(stats.TotalFragments)
	}
	return stats, nil
}
