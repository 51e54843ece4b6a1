package runtime

import (
	"sync"

	"space-chat/contract"
)

type Set map[string]struct{}

type subscription struct {
	userID int64
	sink   contract.MessageSink
}

// Registry tracks live subscriptions per conversation.
// A participant may hold several subscriptions (one per open stream).
type Registry struct {
	mu                  sync.RWMutex
	sessions            map[string]subscription // subscription -> owner and sink
	conversationMembers map[int64]Set           // conversation -> subscriptions
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:            make(map[string]subscription),
		conversationMembers: make(map[int64]Set),
	}
}

// GetRecipients resolves the live sinks of a conversation.
// Returns nil if nobody is listening.
func (r *Registry) GetRecipients(conversationID int64) []contract.Recipient {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.conversationMembers[conversationID]
	if !ok {
		return nil
	}
	var recipients []contract.Recipient
	for subscriptionID := range members {
		if s, exists := r.sessions[subscriptionID]; exists {
			recipients = append(recipients, contract.Recipient{UserID: s.userID, Sink: s.sink})
		}
	}
	return recipients
}

// Subscribe registers a sink for a conversation.
// Authorization is the caller's job, the registry trusts its input.
func (r *Registry) Subscribe(subscriptionID string, userID, conversationID int64, sink contract.MessageSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[subscriptionID] = subscription{userID: userID, sink: sink}

	if _, ok := r.conversationMembers[conversationID]; !ok {
		r.conversationMembers[conversationID] = make(Set)
	}
	r.conversationMembers[conversationID][subscriptionID] = struct{}{}
}

// Unsubscribe removes the subscription and drops empty conversation sets.
func (r *Registry) Unsubscribe(subscriptionID string, conversationID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, subscriptionID)

	if members, ok := r.conversationMembers[conversationID]; ok {
		delete(members, subscriptionID)
		if len(members) == 0 {
			delete(r.conversationMembers, conversationID)
		}
	}
}
