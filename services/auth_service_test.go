package services

import (
	"testing"
	"time"

	"space-chat/auth"
	"space-chat/domain"
	"space-chat/errors"
	"space-chat/mocks"
	"space-chat/repositories"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	key, err := auth.DeriveSigningKey("service-test-secret")
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, 24*time.Hour)
	require.NoError(t, err)
	return tokens
}

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	tokens := newTestTokens(t)
	svc := NewAuthService(mockRepo, tokens)

	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		username := "alice"
		password := "ComplexPass123!"

		// The repository only ever sees the hash.
		mockRepo.EXPECT().
			CreateUser(username, gomock.Not(password)).
			Return(repositories.User{ID: 1, Username: username}, nil).
			Times(1)

		token, err := svc.Register(username, password)

		req.NoError(err)
		valid, err := tokens.Validate(string(token), username)
		req.NoError(err)
		req.True(valid)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		token, err := svc.Register("alice", "simple")

		req.ErrorIs(err, errors.ErrInvalidPassword)
		req.Empty(token)
	})

	t.Run("should fail when username is not alphanumeric", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Register("al ice", "ComplexPass123!")

		req.ErrorIs(err, errors.ErrInvalidUsername)
	})

	t.Run("should fail when user already exists in repository", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			CreateUser("bob", gomock.Any()).
			Return(repositories.User{}, errors.ErrUserAlreadyExists).
			Times(1)

		_, err := svc.Register("bob", "ComplexPass123!")

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	tokens := newTestTokens(t)
	svc := NewAuthService(mockRepo, tokens)

	password := "ComplexPass123!"
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	stored := repositories.User{ID: 3, Username: "carol", PasswordHash: hash}

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().GetUserByUsername("carol").Return(stored, nil).Times(1)

		token, err := svc.Login("carol", password)

		req.NoError(err)
		valid, err := tokens.Validate(string(token), "carol")
		req.NoError(err)
		req.True(valid)
	})

	t.Run("should fail with a wrong password", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().GetUserByUsername("carol").Return(stored, nil).Times(1)

		token, err := svc.Login("carol", "WrongPassword1!")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
		req.Empty(token)
	})

	t.Run("unknown user fails the same way", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().GetUserByUsername("nobody").Return(repositories.User{}, errors.ErrNotFound).Times(1)

		_, err := svc.Login("nobody", password)

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}

func TestAuthService_Resolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, newTestTokens(t))

	t.Run("known subject", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().GetUserByUsername("dave").Return(repositories.User{ID: 9, Username: "dave"}, nil)

		identity, err := svc.Resolve("dave")

		req.NoError(err)
		req.Equal(domain.Identity{UserID: 9, Username: "dave"}, identity)
	})

	t.Run("unknown subject", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().GetUserByUsername("ghost").Return(repositories.User{}, errors.ErrNotFound)

		_, err := svc.Resolve("ghost")

		req.ErrorIs(err, errors.ErrNotFound)
	})
}
