// Package api is the wire contract of the space chat gRPC services.
// Messages travel as CBOR (content-subtype "cbor"), see package codec.
package api

import (
	"time"

	"space-chat/codec"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

func init() {
	encoding.RegisterCodec(codec.GRPCCodec{})
}

// WithCBOR makes every call of a client connection use the CBOR codec.
func WithCBOR() grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codec.Name))
}

type RegisterRequest struct {
	Username string `cbor:"username"`
	Password string `cbor:"password"`
}

type LoginRequest struct {
	Username string `cbor:"username"`
	Password string `cbor:"password"`
}

type AuthResponse struct {
	Token    string `cbor:"token"`
	Type     string `cbor:"type"`
	Username string `cbor:"username"`
}

type CreateSpaceRequest struct{}

type SpaceResponse struct {
	SpaceID int64 `cbor:"space_id"`
	OwnerID int64 `cbor:"owner_id"`
}

type GetOrCreateConversationRequest struct {
	SpaceID int64 `cbor:"space_id"`
}

type ConversationResponse struct {
	ID                    int64  `cbor:"id"`
	SpaceID               int64  `cbor:"space_id"`
	OtherPartyDisplayName string `cbor:"other_party_display_name"`
}

type SendMessageRequest struct {
	ConversationID int64  `cbor:"conversation_id"`
	Text           string `cbor:"text"`
}

// MessageResponse carries a decrypted body. Unreadable is set, and Body
// empty, when the stored ciphertext failed its integrity check.
type MessageResponse struct {
	ID             string    `cbor:"id"`
	ConversationID int64     `cbor:"conversation_id"`
	SenderID       int64     `cbor:"sender_id"`
	Body           string    `cbor:"body"`
	SentAt         time.Time `cbor:"sent_at"`
	FromMe         bool      `cbor:"from_me"`
	Unreadable     bool      `cbor:"unreadable"`
}

type ListMessagesRequest struct {
	ConversationID int64 `cbor:"conversation_id"`
}

type ListMessagesResponse struct {
	Messages []*MessageResponse `cbor:"messages"`
}

type SubscribeRequest struct {
	ConversationID int64 `cbor:"conversation_id"`
}
