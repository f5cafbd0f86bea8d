package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/poiesic/marginalia/core"
	"github.com/poiesic/marginalia/storage"
)

// Searcher ranks fragments against free-text queries.
type Searcher struct {
	store  storage.FragmentStore
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher over the given fragment store.
func NewSearcher(store storage.FragmentStore, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	s := &Searcher{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search scores every fragment against the query, drops non-matching
// fragments and those excluded by the filters, and returns the rest
// ordered by relevance score descending. Ties break on fragment id so
// the ordering is deterministic.
func (s *Searcher) Search(ctx context.Context, query string, filters Filters) ([]*core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	fragments, err := s.store.GetAllFragments(ctx)
	if err != nil {
		s.logger.Error("failed to load fragments for search", "err", err)
		return nil, err
	}

	now := s.now()
	results := make([]*core.SearchResult, 0, len(fragments))
	for _, fragment := range fragments {
		score := RelevanceScore(query, fragment, now)
		if score == 0 {
			continue
		}
		if !filters.Match(fragment) {
			continue
		}
		results = append(results, &core.SearchResult{
			Fragment: fragment,
			Score:    score,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Fragment.Id < results[j].Fragment.Id
	})

	s.logger.Debug("search complete", "query", query, "hits", len(results))

	return results, nil
}
