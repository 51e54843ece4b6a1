package server

import (
	"log/slog"

	"space-chat/api"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
)

// NewGRPCServer assembles the gRPC server: request logging first, then
// authentication, then both services.
func NewGRPCServer(logger *slog.Logger, authenticator *Authenticator,
	authServer api.AuthServiceServer, chatServer api.ChatServiceServer) *grpc.Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc3.UnaryLoggingInterceptor(logger),
			authenticator.UnaryInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			authenticator.StreamInterceptor(),
		),
	)
	api.RegisterAuthServiceServer(s, authServer)
	api.RegisterChatServiceServer(s, chatServer)
	return s
}
