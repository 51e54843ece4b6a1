package server

import (
	"context"

	"space-chat/api"
	"space-chat/errors"
	"space-chat/services"
)

const tokenType = "Bearer"

type AuthServer struct {
	api.UnimplementedAuthServiceServer
	authService services.IAuthService
}

// NewAuthServer creates a new gRPC server for authentication.
func NewAuthServer(authService services.IAuthService) *AuthServer {
	return &AuthServer{authService: authService}
}

// Register creates the account and signs the caller in.
func (s *AuthServer) Register(_ context.Context, in *api.RegisterRequest) (*api.AuthResponse, error) {
	token, err := s.authService.Register(in.Username, in.Password)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.AuthResponse{Token: string(token), Type: tokenType, Username: in.Username}, nil
}

// Login verifies credentials and returns a session token.
func (s *AuthServer) Login(_ context.Context, in *api.LoginRequest) (*api.AuthResponse, error) {
	token, err := s.authService.Login(in.Username, in.Password)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.AuthResponse{Token: string(token), Type: tokenType, Username: in.Username}, nil
}
