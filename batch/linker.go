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

package batch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/marginalia/core"
	"github.com/poiesic/marginalia/link"
	"github.com/poiesic/marginalia/storage"
)

const (
	defaultBatchSize        = 10
	defaultMinContentLength = 50
	defaultPause            = 100 * time.Millisecond
)

// ProgressFunc receives (processed, total) after every completed batch.
type ProgressFunc func(processed, total int)

// Linker builds related-fragment links for every eligible fragment.
// Eligible means the fragment has no links yet and carries enough text
// to produce a meaningful similarity signal.
type Linker struct {
	store            storage.FragmentStore
	finder           *link.Finder
	batchSize        int
	minContentLength int
	maxLinks         int
	minSimilarity    float64
	pause            time.Duration
	logger           *slog.Logger
}

// Option configures a Linker.
type Option func(*Linker) error

// WithBatchSize sets the batch size, which also bounds how many link
// computations run concurrently. Default is 10.
func WithBatchSize(size int) Option {
	return func(l *Linker) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		l.batchSize = size
		return nil
	}
}

// WithMinContentLength sets the minimum text length for a fragment to
// be linked. Default is 50.
func WithMinContentLength(length int) Option {
	return func(l *Linker) error {
		if length < 0 {
			length = 0
		}
		l.minContentLength = length
		return nil
	}
}

// WithMaxLinks bounds how many links each fragment receives.
// Default is link.DefaultMaxResults.
func WithMaxLinks(maxLinks int) Option {
	return func(l *Linker) error {
		if maxLinks < 1 {
			return ErrInvalidMaxLinks
		}
		l.maxLinks = maxLinks
		return nil
	}
}

// WithMinSimilarity sets the similarity threshold passed through to the
// link finder. Default is link.DefaultMinSimilarity.
func WithMinSimilarity(threshold float64) Option {
	return func(l *Linker) error {
		l.minSimilarity = threshold
		return nil
	}
}

// WithPause sets the pause between batches. The pause yields to other
// work sharing the process, it is not needed for correctness.
func WithPause(pause time.Duration) Option {
	return func(l *Linker) error {
		if pause < 0 {
			pause = 0
		}
		l.pause = pause
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linker) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLinker creates a batch linker over the store and link finder.
func NewLinker(store storage.FragmentStore, finder *link.Finder, opts ...Option) (*Linker, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if finder == nil {
		return nil, ErrFinderRequired
	}

	l := &Linker{
		store:            store,
		finder:           finder,
		batchSize:        defaultBatchSize,
		minContentLength: defaultMinContentLength,
		maxLinks:         link.DefaultMaxResults,
		minSimilarity:    link.DefaultMinSimilarity,
		pause:            defaultPause,
		logger:           slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Run links every eligible fragment and persists the results. The
// semantic tier is never used here; batch runs stay local and cheap.
// Cancellation is honored between batches, leaving already processed
// fragments linked. Per-fragment failures are logged, not fatal.
func (l *Linker) Run(ctx context.Context, onProgress ProgressFunc) error {
	fragments, err := l.store.GetAllFragments(ctx)
	if err != nil {
		return err
	}

	eligible := make([]*core.Fragment, 0, len(fragments))
	for _, fragment := range fragments {
		if len(fragment.RelatedIds) == 0 && len(fragment.Text) >= l.minContentLength {
			eligible = append(eligible, fragment)
		}
	}

	total := len(eligible)
	l.logger.Info("batch linking started", "eligible", total, "batchSize", l.batchSize)
	if total == 0 {
		if onProgress != nil {
			onProgress(0, 0)
		}
		return nil
	}

	pool, err := ants.NewPool(l.batchSize)
	if err != nil {
		return err
	}
	defer pool.Release()

	processed := 0
	for start := 0; start < total; start += l.batchSize {
		// Check cancellation between batches, never mid-batch
		if err := ctx.Err(); err != nil {
			l.logger.Info("batch linking cancelled", "processed", processed, "total", total)
			return err
		}

		end := min(start+l.batchSize, total)
		batch := eligible[start:end]

		var wg sync.WaitGroup
		for _, fragment := range batch {
			wg.Add(1)
			fragment := fragment
			submitErr := pool.Submit(func() {
				defer wg.Done()
				l.linkOne(ctx, fragment)
			})
			if submitErr != nil {
				wg.Done()
				l.logger.Error("failed to submit link task", "fragmentId", fragment.Id, "err", submitErr)
			}
		}
		wg.Wait()

		processed += len(batch)
		if onProgress != nil {
			onProgress(processed, total)
		}

		if end < total && l.pause > 0 {
			timer := time.NewTimer(l.pause)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	l.logger.Info("batch linking finished", "processed", processed)
	return nil
}

// linkOne computes and persists links for a single fragment. Fragments
// with no links found are left untouched so a later run retries them.
func (l *Linker) linkOne(ctx context.Context, fragment *core.Fragment) {
	links, err := l.finder.FindRelated(ctx, fragment.Id, link.Options{
		MaxResults:    l.maxLinks,
		MinSimilarity: l.minSimilarity,
	})
	if err != nil {
		if errors.Is(err, link.ErrSourceNotFound) {
			// Deleted between listing and linking
			return
		}
		l.logger.Warn("failed to find links", "fragmentId", fragment.Id, "err", err)
		return
	}
	if len(links) == 0 {
		return
	}

	relatedIds := make([]core.ID, len(links))
	for i, lnk := range links {
		relatedIds[i] = lnk.FragmentId
	}
	fragment.RelatedIds = relatedIds

	if err := l.store.SaveFragment(ctx, fragment); err != nil {
		l.logger.Warn("failed to persist links", "fragmentId", fragment.Id, "err", err)
	}
}
