// Package domain contains core concepts of the space chat.
// This file defines the authenticated Identity handed to every core operation.
package domain

// Identity is an authenticated caller, resolved once at the boundary.
// It is passed explicitly to the services; nothing looks up a "current user".
type Identity struct {
	UserID   int64
	Username string
}
