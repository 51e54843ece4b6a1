package runtime

import (
	"context"
	"testing"

	"space-chat/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	name string
}

func (s Sink) Consume(_ context.Context, _ domain.MessageView) error {
	return nil
}

func TestRegistry_Subscribe_One_Conversation_One_Participant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	subscriptionID := uuid.NewString()
	conversationID := int64(1)
	sink := Sink{name: "owner"}

	// Given nobody is listening
	req.Empty(registry.sessions)
	req.Empty(registry.conversationMembers)
	req.Nil(registry.GetRecipients(conversationID))

	// When a participant subscribes
	registry.Subscribe(subscriptionID, 1, conversationID, sink)

	// Then
	req.Len(registry.sessions, 1)
	req.Len(registry.conversationMembers, 1)
	recipients := registry.GetRecipients(conversationID)
	req.Len(recipients, 1)
	req.Equal(int64(1), recipients[0].UserID)
	req.Equal(sink, recipients[0].Sink)
}

func TestRegistry_Same_User_Several_Streams(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conversationID := int64(7)

	registry.Subscribe(uuid.NewString(), 2, conversationID, Sink{name: "phone"})
	registry.Subscribe(uuid.NewString(), 2, conversationID, Sink{name: "laptop"})
	registry.Subscribe(uuid.NewString(), 1, conversationID, Sink{name: "owner"})

	req.Len(registry.GetRecipients(conversationID), 3)
	req.Empty(registry.GetRecipients(conversationID + 1))
}

func TestRegistry_Unsubscribe_Cleans_Empty_Conversation(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	first := uuid.NewString()
	second := uuid.NewString()
	conversationID := int64(3)

	registry.Subscribe(first, 1, conversationID, Sink{name: "owner"})
	registry.Subscribe(second, 2, conversationID, Sink{name: "renter"})

	registry.Unsubscribe(first, conversationID)
	req.Len(registry.GetRecipients(conversationID), 1)

	registry.Unsubscribe(second, conversationID)
	req.Empty(registry.sessions)
	req.NotContains(registry.conversationMembers, conversationID)

	// Unknown subscriptions are ignored
	registry.Unsubscribe(uuid.NewString(), conversationID)
}
