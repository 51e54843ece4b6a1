package domain

import "time"

// Space is a rentable space. Only its owner matters to the chat.
type Space struct {
	ID        int64
	OwnerID   int64
	CreatedAt time.Time
}
