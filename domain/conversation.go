// Package domain contains core concepts of the space chat.
// This file defines Conversation entities and related invariants.
// The participant set {OwnerID, RenterID} never changes after creation.
package domain

import "time"

const (
	OwnerDisplayName  = "Space owner"
	RenterDisplayName = "Renter"
)

// Conversation is the unique thread between a space owner and one renter.
// At most one exists per (SpaceID, RenterID).
type Conversation struct {
	ID        int64
	SpaceID   int64
	OwnerID   int64
	RenterID  int64
	CreatedAt time.Time
}

// HasParticipant reports whether userID is the owner or the renter.
func (c Conversation) HasParticipant(userID int64) bool {
	return userID == c.OwnerID || userID == c.RenterID
}

// ConversationView is what a participant sees: the other party stays anonymous.
type ConversationView struct {
	ID                    int64
	SpaceID               int64
	OtherPartyDisplayName string
}

func (c Conversation) ViewFor(requesterID int64) ConversationView {
	name := OwnerDisplayName
	if requesterID == c.OwnerID {
		name = RenterDisplayName
	}
	return ConversationView{
		ID:                    c.ID,
		SpaceID:               c.SpaceID,
		OtherPartyDisplayName: name,
	}
}
