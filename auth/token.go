package auth

import (
	stderrors "errors"
	"fmt"
	"time"

	"space-chat/domain"
	"space-chat/errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer     = "space-chat"
	sha256Size = 32
)

// Claims is the payload of a signed token. Only registered claims are used.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 tokens.
// The signing key is copied at construction and never replaced, so the
// service is safe for concurrent use.
func init() {
	// Lifetimes are configured in milliseconds; whole-second dates would cut exp short.
	jwt.TimePrecision = time.Millisecond
}

type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(signingKey []byte, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(signingKey) != sha256Size {
		return nil, fmt.Errorf("%w: signing key must be %d bytes", errors.ErrConfig, sha256Size)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: token ttl must be positive", errors.ErrConfig)
	}
	s := &TokenService{
		signingKey: append([]byte(nil), signingKey...),
		ttl:        ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	return s, nil
}

// Issue creates a signed token for the given identity. The subject is the username.
func (s *TokenService) Issue(subject domain.Identity) (string, error) {
	if subject.Username == "" {
		return "", fmt.Errorf("%w: empty subject", errors.ErrTokenGeneration)
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.Username,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}
	return token, nil
}

// Parse verifies the signature and expiry of a token and returns its claims.
// It fails closed: every failure is either ErrTokenExpired or ErrTokenMalformed.
func (s *TokenService) Parse(tokenString string) (Claims, error) {
	var claims Claims
	token, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	})
	switch {
	case err == nil && token.Valid:
	case stderrors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, errors.ErrTokenExpired
	default:
		return Claims{}, errors.ErrTokenMalformed
	}
	if claims.Subject == "" {
		return Claims{}, errors.ErrTokenMalformed
	}
	return claims, nil
}

// Validate reports whether the token is authentic, unexpired and issued to expectedSubject.
// A well formed token for another subject is simply invalid, not an error.
func (s *TokenService) Validate(tokenString, expectedSubject string) (bool, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return false, err
	}
	return claims.Subject == expectedSubject, nil
}

// TTL is the lifetime given to issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
