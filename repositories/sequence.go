package repositories

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
)

const sequenceBandwidth = 100

// newSequence leases ids from Badger in batches. Leased but unused ids are
// lost on restart, ids are unique, not contiguous.
func newSequence(db *badger.DB, name string) (*badger.Sequence, error) {
	return db.GetSequence([]byte("seq:"+name), sequenceBandwidth)
}

// nextID shifts Badger's zero-based sequence so that 0 never names a row.
func nextID(seq *badger.Sequence) (int64, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, err
	}
	return int64(n) + 1, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, badger.ErrKeyNotFound)
}

func isConflict(err error) bool {
	return errors.Is(err, badger.ErrConflict)
}
