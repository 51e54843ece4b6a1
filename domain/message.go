// Package domain contains core concepts of the space chat.
// This file defines Message records and their decrypted views.
// Messages are immutable: there is no edit nor delete.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is the persisted form. Ciphertext is base64(nonce||ciphertext||tag),
// the body is never stored in clear.
type Message struct {
	ID             uuid.UUID
	ConversationID int64
	SenderID       int64
	Ciphertext     string
	SentAt         time.Time
}

// MessageView is a decrypted message as seen by one requester.
// Err is set, and Body left empty, when this message could not be decrypted.
type MessageView struct {
	ID             uuid.UUID
	ConversationID int64
	SenderID       int64
	Body           string
	SentAt         time.Time
	FromMe         bool
	Err            error
}

// Readable is false when the body failed its integrity check.
func (v MessageView) Readable() bool {
	return v.Err == nil
}

// ForRecipient returns a copy of the view with FromMe computed for userID.
func (v MessageView) ForRecipient(userID int64) MessageView {
	v.FromMe = v.SenderID == userID
	return v
}
