package services

import (
	stderrors "errors"
	"fmt"

	"space-chat/auth"
	"space-chat/domain"
	"space-chat/errors"
	"space-chat/repositories"
)

// IdentityResolver turns an authenticated username into an Identity.
type IdentityResolver interface {
	Resolve(username string) (domain.Identity, error)
}

type IAuthService interface {
	Login(username, password string) (Token, error)
	Register(username, password string) (Token, error)
	IdentityResolver
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         *auth.TokenService
}

type Token string

func NewAuthService(repo repositories.IUserRepository, tokens *auth.TokenService) *AuthService {
	return &AuthService{userRepository: repo, tokens: tokens}
}

func (s *AuthService) Register(username, password string) (Token, error) {
	// 1. Validate business rules before any expensive cryptographic operation.
	if err := auth.ValidateRegister(auth.RegisterRequest{
		Username: username,
		Password: password,
	}); err != nil {
		return "", err
	}

	// 2. Hash in the service layer, the repository never sees the plain password.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	// 3. Persist, ErrUserAlreadyExists propagates as is.
	user, err := s.userRepository.CreateUser(username, hashedPassword)
	if err != nil {
		return "", err
	}

	return s.issue(user)
}

func (s *AuthService) Login(username, password string) (Token, error) {
	// Same error whatever failed, to prevent user enumeration.
	user, err := s.userRepository.GetUserByUsername(username)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Resolve maps a token subject to the account behind it.
func (s *AuthService) Resolve(username string) (domain.Identity, error) {
	user, err := s.userRepository.GetUserByUsername(username)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{UserID: user.ID, Username: user.Username}, nil
}

func (s *AuthService) issue(user repositories.User) (Token, error) {
	token, err := s.tokens.Issue(domain.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		if stderrors.Is(err, errors.ErrTokenGeneration) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}
	return Token(token), nil
}
