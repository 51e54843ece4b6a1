//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"space-chat/codec"
	"space-chat/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	SaveMessage(message domain.Message) error
	GetMessages(conversationID int64) ([]domain.Message, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log}
}

type messageRecord struct {
	ID             string `cbor:"id"`
	ConversationID int64  `cbor:"conversation_id"`
	SenderID       int64  `cbor:"sender_id"`
	Ciphertext     string `cbor:"body_encrypted"`
	SentAt         int64  `cbor:"sent_at"`
}

func messagePrefix(conversationID int64) []byte {
	return []byte(fmt.Sprintf("msg:%d:", conversationID))
}

// SaveMessage persists an already encrypted message.
// The key is formatted as "msg:{conversation_id}:{timestamp_padded}:{uuid}" so that:
//  1. a forward prefix scan returns the conversation in chronological order
//     (19-digit zero padding keeps lexicographic == numeric order);
//  2. two messages sent in the same nanosecond do not overwrite each other.
func (m *MessageRepository) SaveMessage(message domain.Message) error {
	key := fmt.Sprintf("msg:%d:%019d:%s",
		message.ConversationID,
		message.SentAt.UnixNano(),
		message.ID,
	)
	data, err := codec.Marshal(fromMessage(message))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// GetMessages returns every message of a conversation, oldest first.
func (m *MessageRepository) GetMessages(conversationID int64) ([]domain.Message, error) {
	var messages []domain.Message
	prefix := messagePrefix(conversationID)

	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record messageRecord
			if err := it.Item().Value(func(val []byte) error {
				return codec.Unmarshal(val, &record)
			}); err != nil {
				return fmt.Errorf("failed to unmarshal message: %w", err)
			}
			message, err := toMessage(record)
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.log.Debug("Messages loaded", "conversation_id", conversationID, "count", len(messages))
	return messages, nil
}

func fromMessage(message domain.Message) messageRecord {
	return messageRecord{
		ID:             message.ID.String(),
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		Ciphertext:     message.Ciphertext,
		SentAt:         message.SentAt.UnixNano(),
	}
}

func toMessage(record messageRecord) (domain.Message, error) {
	parsedID, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:             parsedID,
		ConversationID: record.ConversationID,
		SenderID:       record.SenderID,
		Ciphertext:     record.Ciphertext,
		SentAt:         time.Unix(0, record.SentAt).UTC(),
	}, nil
}
