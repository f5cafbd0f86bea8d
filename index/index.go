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

package index

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/poiesic/marginalia/core"
	"github.com/poiesic/marginalia/storage"
	"golang.org/x/sync/singleflight"
)

const defaultRefreshInterval = 5 * time.Minute

// Snapshot is an immutable view of the corpus at one rebuild point.
// All retrieval structures inside it refer to the same fragment set.
type Snapshot struct {
	Fragments []*core.Fragment
	ByID      map[core.ID]*core.Fragment
	Vocab     *Vocabulary
	Graph     *ConceptGraph
	BuiltAt   time.Time
}

// Index maintains the current corpus snapshot, rebuilding it from the
// fragment store whenever the previous build is older than the refresh
// interval. Rebuilds are rebuilt wholesale and swapped atomically;
// concurrent requests arriving mid-rebuild share the in-flight result.
type Index struct {
	store           storage.FragmentStore
	refreshInterval time.Duration
	logger          *slog.Logger

	current atomic.Pointer[Snapshot]
	rebuild singleflight.Group
}

// Option configures an Index.
type Option func(*Index) error

// WithRefreshInterval sets how long a snapshot stays valid.
// Default is 5 minutes.
func WithRefreshInterval(interval time.Duration) Option {
	return func(idx *Index) error {
		if interval <= 0 {
			return ErrInvalidRefreshInterval
		}
		idx.refreshInterval = interval
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
		return nil
	}
}

// New creates a new Index over the given fragment store.
func New(store storage.FragmentStore, opts ...Option) (*Index, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	idx := &Index{
		store:           store,
		refreshInterval: defaultRefreshInterval,
		logger:          slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(idx); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// Snapshot returns the current corpus snapshot, rebuilding it first if
// it is missing or older than the refresh interval.
func (idx *Index) Snapshot(ctx context.Context) (*Snapshot, error) {
	snapshot := idx.current.Load()
	if snapshot != nil && time.Since(snapshot.BuiltAt) < idx.refreshInterval {
		return snapshot, nil
	}

	result, err, _ := idx.rebuild.Do("rebuild", func() (any, error) {
		// Another caller may have finished a rebuild while we waited.
		if snap := idx.current.Load(); snap != nil && time.Since(snap.BuiltAt) < idx.refreshInterval {
			return snap, nil
		}
		return idx.build(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}

// Invalidate discards the current snapshot so the next query rebuilds.
func (idx *Index) Invalidate() {
	idx.current.Store(nil)
}

func (idx *Index) build(ctx context.Context) (*Snapshot, error) {
	started := time.Now()

	fragments, err := idx.store.GetAllFragments(ctx)
	if err != nil {
		idx.logger.Error("failed to load fragments for index rebuild", "err", err)
		return nil, err
	}

	byID := make(map[core.ID]*core.Fragment, len(fragments))
	for _, fragment := range fragments {
		byID[fragment.Id] = fragment
	}

	snapshot := &Snapshot{
		Fragments: fragments,
		ByID:      byID,
		Vocab:     NewVocabulary(fragments),
		Graph:     NewConceptGraph(fragments),
		BuiltAt:   time.Now(),
	}
	idx.current.Store(snapshot)

	idx.logger.Debug("index rebuilt",
		"fragments", len(fragments),
		"terms", snapshot.Vocab.TermCount(),
		"concepts", snapshot.Graph.ConceptCount(),
		"elapsed", time.Since(started))

	return snapshot, nil
}
