//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"space-chat/domain"
)

// MessageSink receives decrypted messages pushed to a live subscriber.
// Implementations must not block the sender for long.
type MessageSink interface {
	Consume(ctx context.Context, message domain.MessageView) error
}

// Recipient is one live subscription of a conversation participant.
type Recipient struct {
	UserID int64
	Sink   MessageSink
}

type IRegistry interface {
	GetRecipients(conversationID int64) []Recipient
	Subscribe(subscriptionID string, userID, conversationID int64, sink MessageSink)
	Unsubscribe(subscriptionID string, conversationID int64)
}
