package storage

import (
	"context"
	"time"

	"github.com/poiesic/marginalia/core"
)

// FragmentStore provides operations for managing fragments.
// Implementations must be thread-safe and support concurrent access.
// The store is the single source of truth for fragment data; the link
// engine only writes the related-fragment-id field, through SaveFragment.
type FragmentStore interface {
	// AddFragments adds one or more fragments to storage.
	// Generates new IDs from sequence and sets CreatedAt/UpdatedAt if unset.
	// Returns the fragments with generated IDs and timestamps populated.
	AddFragments(ctx context.Context, fragments ...*core.Fragment) ([]*core.Fragment, error)

	// SaveFragment updates an existing fragment.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if the fragment doesn't exist.
	SaveFragment(ctx context.Context, fragment *core.Fragment) error

	// GetFragment retrieves a single fragment by ID.
	// Returns ErrNotFound if the fragment doesn't exist.
	GetFragment(ctx context.Context, id core.ID) (*core.Fragment, error)

	// GetFragments retrieves multiple fragments by their IDs.
	// Returns only the fragments that exist (no error for missing ones).
	GetFragments(ctx context.Context, ids ...core.ID) ([]*core.Fragment, error)

	// GetAllFragments retrieves every fragment in the store.
	GetAllFragments(ctx context.Context) ([]*core.Fragment, error)

	// GetFragmentsByDateRange retrieves fragments created within a time range.
	// Returns fragments where start <= CreatedAt < end, ordered by creation time.
	GetFragmentsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Fragment, error)

	// GetRecentFragments retrieves the N most recently created fragments,
	// ordered by creation time descending.
	GetRecentFragments(ctx context.Context, limit int) ([]*core.Fragment, error)

	// DeleteFragments removes fragments by their IDs.
	// Returns ErrNotFound if any fragment doesn't exist.
	DeleteFragments(ctx context.Context, ids ...core.ID) error

	// Close closes the storage backend and releases resources.
	Close() error
}
