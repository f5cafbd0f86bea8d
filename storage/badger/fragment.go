package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/marginalia/core"
	"github.com/poiesic/marginalia/storage"
)

// FragmentRepository implements storage.FragmentStore for BadgerDB.
type FragmentRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.FragmentStore = (*FragmentRepository)(nil)

// NewFragmentRepository creates a new FragmentRepository.
func NewFragmentRepository(backend *Backend) (*FragmentRepository, error) {
	idSeq, err := backend.GetSequence(fragmentIDSeq)
	if err != nil {
		return nil, err
	}

	return &FragmentRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *FragmentRepository) Close() error {
	return r.idSeq.Release()
}

// AddFragments adds one or more fragments to storage.
func (r *FragmentRepository) AddFragments(ctx context.Context, fragments ...*core.Fragment) ([]*core.Fragment, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, fragment := range fragments {
			if err := core.ValidateFragment(fragment); err != nil {
				return err
			}

			// Always generate new ID from sequence
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			fragment.Id = core.ID(nextID)

			now := time.Now().UTC()
			if fragment.CreatedAt.IsZero() {
				fragment.CreatedAt = now
			}
			fragment.UpdatedAt = now

			// Store primary record
			key := makeFragmentKey(fragment.Id)
			value := storage.MarshalFragment(fragment)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update date index
			dateKey := makeFragmentDateKey(fragment.CreatedAt, fragment.Id)
			if err := tx.Set(dateKey, storage.MarshalID(fragment.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return fragments, err
}

// SaveFragment updates an existing fragment.
func (r *FragmentRepository) SaveFragment(ctx context.Context, fragment *core.Fragment) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeFragmentKey(fragment.Id)

		// Read old record to detect creation-time changes
		old, err := r.readFragment(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		fragment.UpdatedAt = time.Now().UTC()

		value := storage.MarshalFragment(fragment)
		if err := tx.Set(key, value); err != nil {
			return err
		}

		// Update date index if creation time changed
		if !old.CreatedAt.Equal(fragment.CreatedAt) {
			oldDateKey := makeFragmentDateKey(old.CreatedAt, old.Id)
			if err := tx.Delete(oldDateKey); err != nil {
				return err
			}
			newDateKey := makeFragmentDateKey(fragment.CreatedAt, fragment.Id)
			if err := tx.Set(newDateKey, storage.MarshalID(fragment.Id)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)
}

// GetFragment retrieves a single fragment by ID.
func (r *FragmentRepository) GetFragment(ctx context.Context, id core.ID) (*core.Fragment, error) {
	var result *core.Fragment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeFragmentKey(id)
		var err error
		result, err = r.readFragment(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetFragments retrieves multiple fragments by their IDs.
func (r *FragmentRepository) GetFragments(ctx context.Context, ids ...core.ID) ([]*core.Fragment, error) {
	var result []*core.Fragment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeFragmentKey(id)
			fragment, err := r.readFragment(tx, key)
			if err != nil {
				return err
			}
			if fragment != nil {
				result = append(result, fragment)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetAllFragments retrieves every fragment in the store.
func (r *FragmentRepository) GetAllFragments(ctx context.Context) ([]*core.Fragment, error) {
	var results []*core.Fragment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(fragmentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var fragment *core.Fragment
			err := iter.Item().Value(func(val []byte) error {
				var err error
				fragment, err = storage.UnmarshalFragment(val)
				return err
			})
			if err != nil {
				return err
			}
			if fragment != nil {
				results = append(results, fragment)
			}
		}
		return nil
	}, false)
	return results, err
}

// GetFragmentsByDateRange retrieves fragments created within a time range.
func (r *FragmentRepository) GetFragmentsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Fragment, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.Fragment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialFragmentDateKey(start)
		endKey := makePartialFragmentDateKey(end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) > 0 {
				break
			}

			var fragmentID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				fragmentID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			fragment, err := r.readFragment(tx, makeFragmentKey(fragmentID))
			if err != nil {
				return err
			}
			if fragment != nil {
				results = append(results, fragment)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetRecentFragments retrieves the N most recently created fragments,
// ordered by creation time descending.
func (r *FragmentRepository) GetRecentFragments(ctx context.Context, limit int) ([]*core.Fragment, error) {
	var results []*core.Fragment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key in the date index
		startKey := makePartialFragmentDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(fragmentDatePrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var fragmentID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				fragmentID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			fragment, err := r.readFragment(tx, makeFragmentKey(fragmentID))
			if err != nil {
				return err
			}
			if fragment != nil {
				results = append(results, fragment)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// DeleteFragments removes fragments by their IDs.
func (r *FragmentRepository) DeleteFragments(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeFragmentKey(id)

			fragment, err := r.readFragment(tx, key)
			if err != nil {
				return err
			}
			if fragment == nil {
				return storage.ErrNotFound
			}

			dateKey := makeFragmentDateKey(fragment.CreatedAt, fragment.Id)
			if err := tx.Delete(dateKey); err != nil {
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readFragment reads a fragment from the transaction.
func (r *FragmentRepository) readFragment(tx *badger.Txn, key []byte) (*core.Fragment, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var fragment *core.Fragment
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		fragment, unmarshalErr = storage.UnmarshalFragment(val)
		return unmarshalErr
	})
	return fragment, err
}
