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

package link

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/poiesic/marginalia/core"
	"github.com/poiesic/marginalia/index"
	"github.com/poiesic/marginalia/similarity"
	"github.com/poiesic/marginalia/storage"
)

const (
	// decayWindow is how long a fragment counts as recent.
	decayWindow = 30 * 24 * time.Hour
	// decayBoost is the maximum recency boost.
	decayBoost = 0.1
)

// Finder selects a linking strategy per request and ranks the results.
type Finder struct {
	store  storage.FragmentStore
	index  *index.Index
	linker SemanticLinker
	cache  *Cache
	logger *slog.Logger
	now    func() time.Time
}

// SemanticLinker mirrors ai.SemanticLinker without importing it, so the
// ai package stays an optional collaborator.
type SemanticLinker interface {
	LinkConcepts(ctx context.Context, source *core.Fragment, candidates []*core.Fragment, maxLinks int) ([]core.ID, error)
}

// Option configures a Finder.
type Option func(*Finder) error

// WithSemanticLinker wires an optional semantic backend for the first
// strategy tier. Without one, UseAI requests fall through to concept
// similarity.
func WithSemanticLinker(linker SemanticLinker) Option {
	return func(f *Finder) error {
		f.linker = linker
		return nil
	}
}

// WithCache memoizes results per request.
func WithCache(cache *Cache) Option {
	return func(f *Finder) error {
		f.cache = cache
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// NewFinder creates a new Finder over the store and corpus index.
func NewFinder(store storage.FragmentStore, idx *index.Index, opts ...Option) (*Finder, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}

	f := &Finder{
		store:  store,
		index:  idx,
		logger: slog.Default(),
		now:    time.Now,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// SetSemanticLinker swaps the semantic backend at runtime and flushes
// the cache, since cached results may embed the old backend's judgment.
func (f *Finder) SetSemanticLinker(linker SemanticLinker) {
	f.linker = linker
	if f.cache != nil {
		f.cache.Flush()
	}
}

// cacheRequest is the serialized form of a FindRelated request.
type cacheRequest struct {
	SourceId      core.ID   `json:"sourceId"`
	MaxResults    int       `json:"maxResults"`
	MinSimilarity float64   `json:"minSimilarity"`
	UseAI         bool      `json:"useAI"`
	ExcludeIds    []core.ID `json:"excludeIds,omitempty"`
}

// FindRelated returns fragments related to the source, ranked by
// similarity descending. Fails with ErrSourceNotFound when the source
// id is absent from the store; every other internal failure degrades to
// a weaker strategy tier instead of surfacing.
func (f *Finder) FindRelated(ctx context.Context, sourceId core.ID, opts Options) ([]core.Link, error) {
	opts = opts.normalized()

	request := cacheRequest{
		SourceId:      sourceId,
		MaxResults:    opts.MaxResults,
		MinSimilarity: opts.MinSimilarity,
		UseAI:         opts.UseAI,
		ExcludeIds:    opts.ExcludeIds,
	}
	if f.cache != nil {
		if links, ok := f.cache.GetLinks("find_related", request); ok {
			return links, nil
		}
	}

	// The store is the source of truth for existence; the snapshot may
	// trail it by up to the refresh interval.
	source, err := f.store.GetFragment(ctx, sourceId)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSourceNotFound
		}
		return nil, err
	}

	snapshot, err := f.index.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	excluded := make(map[core.ID]struct{}, len(opts.ExcludeIds)+1)
	excluded[sourceId] = struct{}{}
	for _, id := range opts.ExcludeIds {
		excluded[id] = struct{}{}
	}

	candidates := make([]*core.Fragment, 0, len(snapshot.Fragments))
	for _, fragment := range snapshot.Fragments {
		if _, skip := excluded[fragment.Id]; skip {
			continue
		}
		candidates = append(candidates, fragment)
	}

	links := f.selectTier(ctx, source, candidates, snapshot, opts)

	f.applyTemporalDecay(links, snapshot)

	// Stable sort preserves the tier's ordering between equal scores
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Similarity > links[j].Similarity
	})
	if len(links) > opts.MaxResults {
		links = links[:opts.MaxResults]
	}

	if f.cache != nil {
		f.cache.SetLinks("find_related", request, links)
	}

	return links, nil
}

// selectTier evaluates the strategy tiers in fixed order and returns
// the first non-empty result set.
func (f *Finder) selectTier(ctx context.Context, source *core.Fragment, candidates []*core.Fragment, snapshot *index.Snapshot, opts Options) []core.Link {
	if opts.UseAI && f.linker != nil {
		if links := f.semanticTier(ctx, source, candidates, opts); len(links) > 0 {
			return links
		}
	}

	if len(source.Concepts) > 0 {
		if links := f.conceptTier(source, candidates, snapshot, opts); len(links) > 0 {
			return links
		}
	}

	return f.textTier(source, candidates, snapshot, opts)
}

// semanticTier asks the model to rank candidates. Any failure is logged
// and treated as an empty result so the caller falls through.
func (f *Finder) semanticTier(ctx context.Context, source *core.Fragment, candidates []*core.Fragment, opts Options) []core.Link {
	ids, err := f.linker.LinkConcepts(ctx, source, candidates, opts.MaxResults)
	if err != nil {
		f.logger.Warn("semantic linker failed, falling back", "sourceId", source.Id, "err", err)
		return nil
	}
	if len(ids) == 0 {
		return nil
	}

	byID := make(map[core.ID]*core.Fragment, len(candidates))
	for _, candidate := range candidates {
		byID[candidate.Id] = candidate
	}

	links := make([]core.Link, 0, len(ids))
	for rank, id := range ids {
		candidate, ok := byID[id]
		if !ok {
			continue
		}
		score := 0.9 - 0.1*float64(rank)
		if score < 0 {
			score = 0
		}
		links = append(links, core.Link{
			FragmentId:     id,
			Similarity:     score,
			MatchType:      core.MatchAISemantic,
			SharedConcepts: similarity.SharedConceptNames(source.Concepts, candidate.Concepts),
			Reason:         semanticReason,
		})
	}
	return links
}

// conceptTier scores candidates by combined concept similarity.
func (f *Finder) conceptTier(source *core.Fragment, candidates []*core.Fragment, snapshot *index.Snapshot, opts Options) []core.Link {
	var links []core.Link
	for _, candidate := range candidates {
		score := similarity.CombinedConcept(source.Concepts, candidate.Concepts, snapshot.Graph)
		if score < opts.MinSimilarity {
			continue
		}
		shared := similarity.SharedConceptNames(source.Concepts, candidate.Concepts)
		links = append(links, core.Link{
			FragmentId:     candidate.Id,
			Similarity:     score,
			MatchType:      core.MatchConceptBased,
			SharedConcepts: shared,
			Reason:         conceptReason(shared),
		})
	}
	return links
}

// textTier scores candidates by TF-IDF cosine similarity.
func (f *Finder) textTier(source *core.Fragment, candidates []*core.Fragment, snapshot *index.Snapshot, opts Options) []core.Link {
	vocab := snapshot.Vocab
	sourceVec := similarity.TFIDF(vocab.TermCounts(source.Id), vocab.DocFreq, vocab.DocCount())
	if len(sourceVec) == 0 {
		// Source absent from the snapshot (created after the last
		// rebuild); index it against the snapshot's corpus statistics.
		counts := make(map[string]int)
		for _, field := range []string{source.Title, source.Text, source.Note} {
			for _, term := range index.Tokenize(field) {
				counts[term]++
			}
		}
		sourceVec = similarity.TFIDF(counts, vocab.DocFreq, vocab.DocCount())
	}

	var links []core.Link
	for _, candidate := range candidates {
		candidateVec := similarity.TFIDF(vocab.TermCounts(candidate.Id), vocab.DocFreq, vocab.DocCount())
		score := similarity.Cosine(sourceVec, candidateVec)
		if score < opts.MinSimilarity {
			continue
		}
		links = append(links, core.Link{
			FragmentId: candidate.Id,
			Similarity: score,
			MatchType:  core.MatchTextSimilarity,
			Reason:     textReason(similarity.SharedTerms(sourceVec, candidateVec, 3)),
		})
	}
	return links
}

// applyTemporalDecay boosts recently created fragments. The boost fades
// linearly over the decay window and never pushes a score above 1.
func (f *Finder) applyTemporalDecay(links []core.Link, snapshot *index.Snapshot) {
	now := f.now()
	for i := range links {
		fragment, ok := snapshot.ByID[links[i].FragmentId]
		if !ok {
			continue
		}
		age := now.Sub(fragment.CreatedAt)
		if age < 0 || age >= decayWindow {
			continue
		}
		boost := (1 - float64(age)/float64(decayWindow)) * decayBoost
		links[i].Similarity += boost
		if links[i].Similarity > 1 {
			links[i].Similarity = 1
		}
	}
}
