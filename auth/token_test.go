package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"space-chat/domain"
	"space-chat/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newTestTokenService(t *testing.T, ttl time.Duration) (*TokenService, *fakeClock) {
	t.Helper()
	key, err := DeriveSigningKey("test-signing-secret")
	require.NoError(t, err)
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tokens, err := NewTokenService(key, ttl, WithClock(clock.Now))
	require.NoError(t, err)
	return tokens, clock
}

func TestNewTokenService(t *testing.T) {
	key := make([]byte, 32)

	t.Run("rejects a key that is not 32 bytes", func(t *testing.T) {
		req := require.New(t)
		_, err := NewTokenService(make([]byte, 16), time.Hour)
		req.ErrorIs(err, errors.ErrConfig)
	})

	t.Run("rejects a non positive ttl", func(t *testing.T) {
		req := require.New(t)
		_, err := NewTokenService(key, 0)
		req.ErrorIs(err, errors.ErrConfig)
		_, err = NewTokenService(key, -time.Second)
		req.ErrorIs(err, errors.ErrConfig)
	})

	t.Run("copies the key", func(t *testing.T) {
		req := require.New(t)
		mutable := make([]byte, 32)
		tokens, err := NewTokenService(mutable, time.Hour)
		req.NoError(err)
		token, err := tokens.Issue(domain.Identity{UserID: 1, Username: "alice"})
		req.NoError(err)

		mutable[0] = 0xff
		_, err = tokens.Parse(token)
		req.NoError(err)
	})
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	tokens, clock := newTestTokenService(t, time.Hour)

	t.Run("valid for its subject", func(t *testing.T) {
		req := require.New(t)
		token, err := tokens.Issue(domain.Identity{UserID: 7, Username: "alice"})
		req.NoError(err)
		req.Len(strings.Split(token, "."), 3)

		valid, err := tokens.Validate(token, "alice")
		req.NoError(err)
		req.True(valid)

		claims, err := tokens.Parse(token)
		req.NoError(err)
		req.Equal("alice", claims.Subject)
		req.Equal("space-chat", claims.Issuer)
		req.Equal(clock.now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("another subject is not valid, without error", func(t *testing.T) {
		req := require.New(t)
		token, err := tokens.Issue(domain.Identity{UserID: 7, Username: "alice"})
		req.NoError(err)

		valid, err := tokens.Validate(token, "bob")
		req.NoError(err)
		req.False(valid)
	})

	t.Run("empty subject cannot be issued", func(t *testing.T) {
		req := require.New(t)
		_, err := tokens.Issue(domain.Identity{UserID: 7})
		req.ErrorIs(err, errors.ErrTokenGeneration)
	})
}

func TestTokenService_Expiry(t *testing.T) {
	req := require.New(t)
	tokens, clock := newTestTokenService(t, time.Minute)
	start := clock.now

	token, err := tokens.Issue(domain.Identity{UserID: 1, Username: "alice"})
	req.NoError(err)

	clock.now = start.Add(59 * time.Second)
	valid, err := tokens.Validate(token, "alice")
	req.NoError(err)
	req.True(valid)

	clock.now = start.Add(time.Minute + time.Second)
	valid, err = tokens.Validate(token, "alice")
	req.ErrorIs(err, errors.ErrTokenExpired)
	req.False(valid)
}

func TestTokenService_SubSecondExpiry(t *testing.T) {
	t.Run("lifetime is not rounded to whole seconds", func(t *testing.T) {
		req := require.New(t)
		tokens, clock := newTestTokenService(t, 1500*time.Millisecond)
		start := clock.now.Add(900 * time.Millisecond)
		clock.now = start

		token, err := tokens.Issue(domain.Identity{UserID: 1, Username: "alice"})
		req.NoError(err)

		clock.now = start.Add(1200 * time.Millisecond)
		valid, err := tokens.Validate(token, "alice")
		req.NoError(err)
		req.True(valid)

		clock.now = start.Add(1600 * time.Millisecond)
		valid, err = tokens.Validate(token, "alice")
		req.ErrorIs(err, errors.ErrTokenExpired)
		req.False(valid)
	})

	t.Run("a short lifetime is valid when issued", func(t *testing.T) {
		req := require.New(t)
		tokens, clock := newTestTokenService(t, 50*time.Millisecond)
		start := clock.now.Add(300 * time.Millisecond)
		clock.now = start

		token, err := tokens.Issue(domain.Identity{UserID: 1, Username: "alice"})
		req.NoError(err)

		valid, err := tokens.Validate(token, "alice")
		req.NoError(err)
		req.True(valid)

		clock.now = start.Add(60 * time.Millisecond)
		_, err = tokens.Parse(token)
		req.ErrorIs(err, errors.ErrTokenExpired)
	})
}

func TestTokenService_RejectsForgedTokens(t *testing.T) {
	tokens, clock := newTestTokenService(t, time.Hour)
	genuine, err := tokens.Issue(domain.Identity{UserID: 1, Username: "alice"})
	require.NoError(t, err)
	parts := strings.Split(genuine, ".")

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(clock.now),
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}}

	otherKey, err := DeriveSigningKey("another-secret")
	require.NoError(t, err)
	signedWithOtherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(otherKey)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	otherPayload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"bob","iss":"space-chat","iat":1772366400,"exp":1772370000}`))

	expiredClaims := claims
	expiredClaims.IssuedAt = jwt.NewNumericDate(clock.now.Add(-2 * time.Hour))
	expiredClaims.ExpiresAt = jwt.NewNumericDate(clock.now.Add(-time.Hour))
	expiredWithOtherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString(otherKey)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":                  "",
		"garbage":                "not.a.token",
		"swapped payload":        parts[0] + "." + otherPayload + "." + parts[2],
		"truncated signature":    parts[0] + "." + parts[1] + "." + parts[2][:10],
		"other key":              signedWithOtherKey,
		"alg none":               unsigned,
		"expired with other key": expiredWithOtherKey,
	} {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			valid, err := tokens.Validate(token, "alice")
			req.ErrorIs(err, errors.ErrTokenMalformed)
			req.False(valid)
		})
	}
}
