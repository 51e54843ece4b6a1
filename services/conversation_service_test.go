package services

import (
	"testing"

	"space-chat/domain"
	"space-chat/errors"
	"space-chat/mocks"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	owner  = domain.Identity{UserID: 1, Username: "owner"}
	renter = domain.Identity{UserID: 2, Username: "renter"}
	other  = domain.Identity{UserID: 3, Username: "other"}
)

func newConversationFixture(t *testing.T) (*ConversationService, *mocks.MockISpaceRepository, *mocks.MockIConversationRepository) {
	ctrl := gomock.NewController(t)
	spaceRepo := mocks.NewMockISpaceRepository(ctrl)
	conversationRepo := mocks.NewMockIConversationRepository(ctrl)
	log := logs.GetLoggerFromString("ERROR")
	svc := NewConversationService(log, NewSpaceService(log, spaceRepo), conversationRepo)
	return svc, spaceRepo, conversationRepo
}

func TestConversationService_GetOrCreate(t *testing.T) {
	space := domain.Space{ID: 5, OwnerID: owner.UserID}
	existing := domain.Conversation{ID: 11, SpaceID: 5, OwnerID: owner.UserID, RenterID: renter.UserID}

	t.Run("owner cannot chat with themselves", func(t *testing.T) {
		req := require.New(t)
		svc, spaceRepo, conversationRepo := newConversationFixture(t)
		spaceRepo.EXPECT().GetSpace(int64(5)).Return(space, nil)
		conversationRepo.EXPECT().FindByPair(gomock.Any(), gomock.Any()).Times(0)
		conversationRepo.EXPECT().Create(gomock.Any()).Times(0)

		_, err := svc.GetOrCreate(5, owner)

		req.ErrorIs(err, errors.ErrSelfConversation)
	})

	t.Run("unknown space", func(t *testing.T) {
		req := require.New(t)
		svc, spaceRepo, conversationRepo := newConversationFixture(t)
		spaceRepo.EXPECT().GetSpace(int64(99)).Return(domain.Space{}, errors.ErrNotFound)
		conversationRepo.EXPECT().Create(gomock.Any()).Times(0)

		_, err := svc.GetOrCreate(99, renter)

		req.ErrorIs(err, errors.ErrNotFound)
	})

	t.Run("creates the conversation on first contact", func(t *testing.T) {
		req := require.New(t)
		svc, spaceRepo, conversationRepo := newConversationFixture(t)
		spaceRepo.EXPECT().GetSpace(int64(5)).Return(space, nil)
		conversationRepo.EXPECT().FindByPair(int64(5), renter.UserID).Return(domain.Conversation{}, errors.ErrNotFound)
		conversationRepo.EXPECT().
			Create(domain.Conversation{SpaceID: 5, OwnerID: owner.UserID, RenterID: renter.UserID}).
			Return(existing, nil)

		conversation, err := svc.GetOrCreate(5, renter)

		req.NoError(err)
		req.Equal(existing, conversation)
	})

	t.Run("returns the existing conversation", func(t *testing.T) {
		req := require.New(t)
		svc, spaceRepo, conversationRepo := newConversationFixture(t)
		spaceRepo.EXPECT().GetSpace(int64(5)).Return(space, nil).Times(2)
		conversationRepo.EXPECT().FindByPair(int64(5), renter.UserID).Return(existing, nil).Times(2)
		conversationRepo.EXPECT().Create(gomock.Any()).Times(0)

		first, err := svc.GetOrCreate(5, renter)
		req.NoError(err)
		second, err := svc.GetOrCreate(5, renter)
		req.NoError(err)
		req.Equal(first.ID, second.ID)
	})

	t.Run("losing a creation race reads the winner", func(t *testing.T) {
		req := require.New(t)
		svc, spaceRepo, conversationRepo := newConversationFixture(t)
		spaceRepo.EXPECT().GetSpace(int64(5)).Return(space, nil)
		gomock.InOrder(
			conversationRepo.EXPECT().FindByPair(int64(5), renter.UserID).Return(domain.Conversation{}, errors.ErrNotFound),
			conversationRepo.EXPECT().Create(gomock.Any()).Return(domain.Conversation{}, errors.ErrConversationExists),
			conversationRepo.EXPECT().FindByPair(int64(5), renter.UserID).Return(existing, nil),
		)

		conversation, err := svc.GetOrCreate(5, renter)

		req.NoError(err)
		req.Equal(existing.ID, conversation.ID)
	})
}

func TestConversationService_Authorize(t *testing.T) {
	conversation := domain.Conversation{ID: 11, SpaceID: 5, OwnerID: owner.UserID, RenterID: renter.UserID}

	t.Run("both participants are allowed", func(t *testing.T) {
		req := require.New(t)
		svc, _, conversationRepo := newConversationFixture(t)
		conversationRepo.EXPECT().FindByID(int64(11)).Return(conversation, nil).Times(2)

		_, err := svc.Authorize(11, owner.UserID)
		req.NoError(err)
		_, err = svc.Authorize(11, renter.UserID)
		req.NoError(err)
	})

	t.Run("outsider is refused", func(t *testing.T) {
		req := require.New(t)
		svc, _, conversationRepo := newConversationFixture(t)
		conversationRepo.EXPECT().FindByID(int64(11)).Return(conversation, nil)

		_, err := svc.Authorize(11, other.UserID)
		req.ErrorIs(err, errors.ErrAuthorization)
	})

	t.Run("missing conversation looks like a refusal", func(t *testing.T) {
		req := require.New(t)
		svc, _, conversationRepo := newConversationFixture(t)
		conversationRepo.EXPECT().FindByID(int64(404)).Return(domain.Conversation{}, errors.ErrNotFound)

		_, err := svc.Authorize(404, owner.UserID)
		req.ErrorIs(err, errors.ErrAuthorization)
	})

	t.Run("is participant", func(t *testing.T) {
		req := require.New(t)
		svc, _, conversationRepo := newConversationFixture(t)
		conversationRepo.EXPECT().FindByID(int64(11)).Return(conversation, nil).Times(2)
		conversationRepo.EXPECT().FindByID(int64(404)).Return(domain.Conversation{}, errors.ErrNotFound)

		ok, err := svc.IsParticipant(11, renter.UserID)
		req.NoError(err)
		req.True(ok)
		ok, err = svc.IsParticipant(11, other.UserID)
		req.NoError(err)
		req.False(ok)
		ok, err = svc.IsParticipant(404, renter.UserID)
		req.NoError(err)
		req.False(ok)
	})
}
