//go:generate go run go.uber.org/mock/mockgen -source=space.go -destination=../mocks/mock_space_repository.go -package=mocks
package repositories

import (
	"fmt"
	"time"

	"space-chat/codec"
	"space-chat/domain"
	"space-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

type ISpaceRepository interface {
	CreateSpace(ownerID int64) (domain.Space, error)
	GetSpace(spaceID int64) (domain.Space, error)
}

type SpaceRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

func NewSpaceRepository(db *badger.DB) (*SpaceRepository, error) {
	seq, err := newSequence(db, "space")
	if err != nil {
		return nil, fmt.Errorf("space sequence: %w", err)
	}
	return &SpaceRepository{db: db, seq: seq}, nil
}

type spaceRecord struct {
	ID        int64 `cbor:"id"`
	OwnerID   int64 `cbor:"owner_id"`
	CreatedAt int64 `cbor:"created_at"`
}

func spaceKey(spaceID int64) []byte {
	return []byte(fmt.Sprintf("space:%d", spaceID))
}

func (s *SpaceRepository) CreateSpace(ownerID int64) (domain.Space, error) {
	id, err := nextID(s.seq)
	if err != nil {
		return domain.Space{}, fmt.Errorf("space id: %w", err)
	}
	space := domain.Space{ID: id, OwnerID: ownerID, CreatedAt: time.Now().UTC()}
	data, err := codec.Marshal(spaceRecord{
		ID:        space.ID,
		OwnerID:   space.OwnerID,
		CreatedAt: space.CreatedAt.UnixNano(),
	})
	if err != nil {
		return domain.Space{}, fmt.Errorf("marshal failed: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(spaceKey(id), data)
	})
	if err != nil {
		return domain.Space{}, err
	}
	return space, nil
}

// GetSpace doubles as the existence check, unknown ids yield ErrNotFound.
func (s *SpaceRepository) GetSpace(spaceID int64) (domain.Space, error) {
	var record spaceRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(spaceKey(spaceID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return codec.Unmarshal(val, &record)
		})
	})
	if isNotFound(err) {
		return domain.Space{}, fmt.Errorf("%w: space %d", errors.ErrNotFound, spaceID)
	}
	if err != nil {
		return domain.Space{}, err
	}
	return domain.Space{
		ID:        record.ID,
		OwnerID:   record.OwnerID,
		CreatedAt: time.Unix(0, record.CreatedAt).UTC(),
	}, nil
}

func (s *SpaceRepository) Close() error {
	return s.seq.Release()
}
