package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"space-chat/contract"
	"space-chat/domain"
	"space-chat/errors"
	"space-chat/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// MessageCipher is the at-rest protection applied to message bodies.
type MessageCipher interface {
	EncryptString(plaintext string) (string, error)
	DecryptString(encoded string) (string, error)
}

type IChatService interface {
	Send(ctx context.Context, conversationID int64, sender domain.Identity, body string) (domain.MessageView, error)
	List(conversationID int64, requester domain.Identity) ([]domain.MessageView, error)
	Subscribe(conversationID int64, subscriber domain.Identity, sink contract.MessageSink) (func(), error)
}

// ChatService gates every message operation on conversation membership
// and keeps bodies encrypted between the caller and the store.
type ChatService struct {
	log               *slog.Logger
	conversations     IConversationService
	messageRepository repositories.IMessageRepository
	cipher            MessageCipher
	registry          contract.IRegistry
	validate          *validator.Validate
	maxContentLength  int
	now               func() time.Time
}

func NewChatService(log *slog.Logger, conversations IConversationService,
	messageRepository repositories.IMessageRepository, cipher MessageCipher,
	registry contract.IRegistry, maxContentLength int) *ChatService {
	return &ChatService{
		log:               log,
		conversations:     conversations,
		messageRepository: messageRepository,
		cipher:            cipher,
		registry:          registry,
		validate:          validator.New(),
		maxContentLength:  maxContentLength,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// Send stores an encrypted message and echoes it back in clear to the sender.
// Nothing is persisted unless the sender is a participant.
func (s *ChatService) Send(ctx context.Context, conversationID int64, sender domain.Identity, body string) (domain.MessageView, error) {
	if _, err := s.conversations.Authorize(conversationID, sender.UserID); err != nil {
		return domain.MessageView{}, err
	}
	if err := s.validateBody(body); err != nil {
		return domain.MessageView{}, err
	}

	ciphertext, err := s.cipher.EncryptString(body)
	if err != nil {
		return domain.MessageView{}, fmt.Errorf("encrypt message: %w", err)
	}
	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       sender.UserID,
		Ciphertext:     ciphertext,
		SentAt:         s.now(),
	}
	if err := s.messageRepository.SaveMessage(message); err != nil {
		return domain.MessageView{}, fmt.Errorf("save message: %w", err)
	}

	view := domain.MessageView{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		Body:           body,
		SentAt:         message.SentAt,
	}
	s.publish(ctx, view)
	return view.ForRecipient(sender.UserID), nil
}

// List decrypts the whole conversation, oldest first.
// A message that fails its integrity check is returned with Err set
// instead of aborting the listing.
func (s *ChatService) List(conversationID int64, requester domain.Identity) ([]domain.MessageView, error) {
	if _, err := s.conversations.Authorize(conversationID, requester.UserID); err != nil {
		return nil, err
	}
	messages, err := s.messageRepository.GetMessages(conversationID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	return lo.Map(messages, func(message domain.Message, _ int) domain.MessageView {
		return s.toView(message, requester.UserID)
	}), nil
}

// Subscribe registers a live sink for the conversation.
// The returned function must be called once the subscriber goes away.
func (s *ChatService) Subscribe(conversationID int64, subscriber domain.Identity, sink contract.MessageSink) (func(), error) {
	if _, err := s.conversations.Authorize(conversationID, subscriber.UserID); err != nil {
		return nil, err
	}
	subscriptionID := uuid.NewString()
	s.registry.Subscribe(subscriptionID, subscriber.UserID, conversationID, sink)
	s.log.Debug("Subscriber joined", "conversation_id", conversationID, "user_id", subscriber.UserID)
	return func() {
		s.registry.Unsubscribe(subscriptionID, conversationID)
		s.log.Debug("Subscriber left", "conversation_id", conversationID, "user_id", subscriber.UserID)
	}, nil
}

func (s *ChatService) toView(message domain.Message, requesterID int64) domain.MessageView {
	view := domain.MessageView{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		SentAt:         message.SentAt,
	}
	body, err := s.cipher.DecryptString(message.Ciphertext)
	if err != nil {
		s.log.Warn("Unreadable message",
			"conversation_id", message.ConversationID,
			"message_id", message.ID,
			"error", err)
		view.Err = errors.ErrIntegrity
	} else {
		view.Body = body
	}
	return view.ForRecipient(requesterID)
}

// publish is best effort: the message is already stored.
func (s *ChatService) publish(ctx context.Context, view domain.MessageView) {
	for _, recipient := range s.registry.GetRecipients(view.ConversationID) {
		if err := recipient.Sink.Consume(ctx, view.ForRecipient(recipient.UserID)); err != nil {
			s.log.Warn("Live delivery failed",
				"conversation_id", view.ConversationID,
				"user_id", recipient.UserID,
				"error", err)
		}
	}
}

func (s *ChatService) validateBody(body string) error {
	if err := s.validate.Var(strings.TrimSpace(body), "required"); err != nil {
		return fmt.Errorf("%w: body is blank", errors.ErrInvalidMessage)
	}
	if s.maxContentLength > 0 {
		if err := s.validate.Var(body, fmt.Sprintf("max=%d", s.maxContentLength)); err != nil {
			return fmt.Errorf("%w: body longer than %d characters", errors.ErrInvalidMessage, s.maxContentLength)
		}
	}
	return nil
}
