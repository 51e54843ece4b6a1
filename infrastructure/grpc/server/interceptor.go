package server

import (
	"context"
	"log/slog"
	"strings"

	"space-chat/api"
	"space-chat/auth"
	"space-chat/domain"
	"space-chat/services"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Methods that do not require a bearer token.
var publicMethods = map[string]struct{}{
	api.AuthService_Login_FullMethodName:    {},
	api.AuthService_Register_FullMethodName: {},
}

type contextKey string

const identityKey contextKey = "identity"

const bearerPrefix = "Bearer "

// TokenVerifier is the part of auth.TokenService the interceptors need.
type TokenVerifier interface {
	Parse(tokenString string) (auth.Claims, error)
	Validate(tokenString, expectedSubject string) (bool, error)
}

// Authenticator turns the bearer token of an incoming call into an Identity.
type Authenticator struct {
	log        *slog.Logger
	tokens     TokenVerifier
	identities services.IdentityResolver
}

func NewAuthenticator(log *slog.Logger, tokens TokenVerifier, identities services.IdentityResolver) *Authenticator {
	return &Authenticator{log: log, tokens: tokens, identities: identities}
}

// UnaryInterceptor rejects protected unary calls without a valid token.
func (a *Authenticator) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if isPublicMethod(info.FullMethod) {
			return handler(ctx, req)
		}
		identity, err := a.authenticate(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(ContextWithIdentity(ctx, identity), req)
	}
}

// StreamInterceptor does the same for streaming calls.
func (a *Authenticator) StreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if isPublicMethod(info.FullMethod) {
			return handler(srv, ss)
		}
		identity, err := a.authenticate(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &authenticatedStream{
			ServerStream: ss,
			ctx:          ContextWithIdentity(ss.Context(), identity),
		})
	}
}

// authenticate never says why a token was refused.
func (a *Authenticator) authenticate(ctx context.Context, method string) (domain.Identity, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return domain.Identity{}, status.Error(codes.Unauthenticated, "metadata is missing")
	}
	values := md.Get("authorization")
	if len(values) == 0 || !strings.HasPrefix(values[0], bearerPrefix) {
		return domain.Identity{}, status.Error(codes.Unauthenticated, "authorization token is missing")
	}
	token := strings.TrimPrefix(values[0], bearerPrefix)

	claims, err := a.tokens.Parse(token)
	if err != nil {
		a.log.Debug("Token refused", "method", method, "error", err)
		return domain.Identity{}, status.Error(codes.Unauthenticated, "invalid or expired token")
	}
	identity, err := a.identities.Resolve(claims.Subject)
	if err != nil {
		a.log.Debug("Unknown token subject", "method", method)
		return domain.Identity{}, status.Error(codes.Unauthenticated, "invalid or expired token")
	}
	// Validate verifies the whole token again, bound to the resolved username. Keep it.
	valid, err := a.tokens.Validate(token, identity.Username)
	if err != nil || !valid {
		return domain.Identity{}, status.Error(codes.Unauthenticated, "invalid or expired token")
	}
	return identity, nil
}

func isPublicMethod(method string) bool {
	_, ok := publicMethods[method]
	return ok
}

func ContextWithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the caller set by the interceptors.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

type authenticatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authenticatedStream) Context() context.Context {
	return s.ctx
}
