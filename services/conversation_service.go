package services

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"space-chat/domain"
	"space-chat/errors"
	"space-chat/repositories"
)

// SpaceOwnerLookup resolves the owner of a space, ErrNotFound if it does not exist.
type SpaceOwnerLookup interface {
	OwnerOf(spaceID int64) (int64, error)
}

type IConversationService interface {
	GetOrCreate(spaceID int64, requester domain.Identity) (domain.Conversation, error)
	IsParticipant(conversationID, userID int64) (bool, error)
	Authorize(conversationID, userID int64) (domain.Conversation, error)
}

// ConversationService owns the participant set of every conversation.
type ConversationService struct {
	log                    *slog.Logger
	spaces                 SpaceOwnerLookup
	conversationRepository repositories.IConversationRepository
}

func NewConversationService(log *slog.Logger, spaces SpaceOwnerLookup,
	repo repositories.IConversationRepository) *ConversationService {
	return &ConversationService{log: log, spaces: spaces, conversationRepository: repo}
}

// GetOrCreate returns the conversation between the requester, as renter, and the space owner.
// Concurrent callers for the same (space, renter) converge on a single row:
// the repository refuses a second insert and the loser reads the winner's row.
func (s *ConversationService) GetOrCreate(spaceID int64, requester domain.Identity) (domain.Conversation, error) {
	ownerID, err := s.spaces.OwnerOf(spaceID)
	if err != nil {
		return domain.Conversation{}, err
	}
	if ownerID == requester.UserID {
		return domain.Conversation{}, errors.ErrSelfConversation
	}

	conversation, err := s.conversationRepository.FindByPair(spaceID, requester.UserID)
	if err == nil {
		return conversation, nil
	}
	if !stderrors.Is(err, errors.ErrNotFound) {
		return domain.Conversation{}, fmt.Errorf("find conversation: %w", err)
	}

	conversation, err = s.conversationRepository.Create(domain.Conversation{
		SpaceID:  spaceID,
		OwnerID:  ownerID,
		RenterID: requester.UserID,
	})
	switch {
	case err == nil:
		s.log.Info("Conversation created",
			"conversation_id", conversation.ID, "space_id", spaceID)
		return conversation, nil
	case stderrors.Is(err, errors.ErrConversationExists):
		return s.conversationRepository.FindByPair(spaceID, requester.UserID)
	default:
		return domain.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
}

// IsParticipant is true iff the conversation exists and userID is its owner or renter.
func (s *ConversationService) IsParticipant(conversationID, userID int64) (bool, error) {
	_, err := s.Authorize(conversationID, userID)
	switch {
	case err == nil:
		return true, nil
	case stderrors.Is(err, errors.ErrAuthorization):
		return false, nil
	default:
		return false, err
	}
}

// Authorize returns the conversation if userID may read and write it.
// A missing conversation is reported as ErrAuthorization so callers cannot
// probe which ids exist.
func (s *ConversationService) Authorize(conversationID, userID int64) (domain.Conversation, error) {
	conversation, err := s.conversationRepository.FindByID(conversationID)
	if stderrors.Is(err, errors.ErrNotFound) {
		return domain.Conversation{}, errors.ErrAuthorization
	}
	if err != nil {
		return domain.Conversation{}, err
	}
	if !conversation.HasParticipant(userID) {
		return domain.Conversation{}, errors.ErrAuthorization
	}
	return conversation, nil
}
