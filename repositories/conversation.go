//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"space-chat/codec"
	"space-chat/domain"
	"space-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

type IConversationRepository interface {
	FindByID(conversationID int64) (domain.Conversation, error)
	FindByPair(spaceID, renterID int64) (domain.Conversation, error)
	Create(conversation domain.Conversation) (domain.Conversation, error)
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
	seq *badger.Sequence
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) (*ConversationRepository, error) {
	seq, err := newSequence(db, "conversation")
	if err != nil {
		return nil, fmt.Errorf("conversation sequence: %w", err)
	}
	return &ConversationRepository{db: db, log: log, seq: seq}, nil
}

type conversationRecord struct {
	ID        int64 `cbor:"id"`
	SpaceID   int64 `cbor:"space_id"`
	OwnerID   int64 `cbor:"owner_id"`
	RenterID  int64 `cbor:"renter_id"`
	CreatedAt int64 `cbor:"created_at"`
}

func conversationKey(conversationID int64) []byte {
	return []byte(fmt.Sprintf("conv:%d", conversationID))
}

// pairKey is the uniqueness index: one conversation per (space, renter).
func pairKey(spaceID, renterID int64) []byte {
	return []byte(fmt.Sprintf("conv:pair:%d:%d", spaceID, renterID))
}

func (r *ConversationRepository) FindByID(conversationID int64) (domain.Conversation, error) {
	var conversation domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		conversation, err = readConversation(txn, conversationID)
		return err
	})
	if isNotFound(err) {
		return domain.Conversation{}, fmt.Errorf("%w: conversation %d", errors.ErrNotFound, conversationID)
	}
	return conversation, err
}

func (r *ConversationRepository) FindByPair(spaceID, renterID int64) (domain.Conversation, error) {
	var conversation domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pairKey(spaceID, renterID))
		if err != nil {
			return err
		}
		var conversationID int64
		err = item.Value(func(val []byte) error {
			conversationID, err = strconv.ParseInt(string(val), 10, 64)
			return err
		})
		if err != nil {
			return err
		}
		conversation, err = readConversation(txn, conversationID)
		return err
	})
	if isNotFound(err) {
		return domain.Conversation{}, fmt.Errorf("%w: conversation for space %d", errors.ErrNotFound, spaceID)
	}
	return conversation, err
}

// Create inserts the conversation and its pair index in one transaction.
// If the pair already exists, or a concurrent transaction wrote it first
// (Badger reports ErrConflict on commit), ErrConversationExists is returned
// and the caller is expected to read the winner's row.
func (r *ConversationRepository) Create(conversation domain.Conversation) (domain.Conversation, error) {
	id, err := nextID(r.seq)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("conversation id: %w", err)
	}
	conversation.ID = id
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = time.Now().UTC()
	}
	data, err := codec.Marshal(fromConversation(conversation))
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		index := pairKey(conversation.SpaceID, conversation.RenterID)
		_, err := txn.Get(index)
		switch {
		case err == nil:
			return errors.ErrConversationExists
		case !isNotFound(err):
			return err
		}
		if err := txn.Set(index, []byte(strconv.FormatInt(id, 10))); err != nil {
			return err
		}
		return txn.Set(conversationKey(id), data)
	})
	if isConflict(err) {
		r.log.Debug("Concurrent conversation creation lost the race",
			"space_id", conversation.SpaceID, "renter_id", conversation.RenterID)
		return domain.Conversation{}, errors.ErrConversationExists
	}
	if err != nil {
		return domain.Conversation{}, err
	}
	return conversation, nil
}

func (r *ConversationRepository) Close() error {
	return r.seq.Release()
}

func readConversation(txn *badger.Txn, conversationID int64) (domain.Conversation, error) {
	item, err := txn.Get(conversationKey(conversationID))
	if err != nil {
		return domain.Conversation{}, err
	}
	var record conversationRecord
	if err := item.Value(func(val []byte) error {
		return codec.Unmarshal(val, &record)
	}); err != nil {
		return domain.Conversation{}, err
	}
	return toConversation(record), nil
}

func fromConversation(c domain.Conversation) conversationRecord {
	return conversationRecord{
		ID:        c.ID,
		SpaceID:   c.SpaceID,
		OwnerID:   c.OwnerID,
		RenterID:  c.RenterID,
		CreatedAt: c.CreatedAt.UnixNano(),
	}
}

func toConversation(record conversationRecord) domain.Conversation {
	return domain.Conversation{
		ID:        record.ID,
		SpaceID:   record.SpaceID,
		OwnerID:   record.OwnerID,
		RenterID:  record.RenterID,
		CreatedAt: time.Unix(0, record.CreatedAt).UTC(),
	}
}
