package internal

import (
	"fmt"
	"log/slog"

	"space-chat/auth"
	"space-chat/encryption"
	"space-chat/infrastructure/grpc/server"
	"space-chat/repositories"
	"space-chat/runtime"
	"space-chat/services"

	"github.com/dgraph-io/badger/v4"
	"google.golang.org/grpc"
)

// App is the fully wired chat backend on top of an open Badger database.
// The caller owns the database and closes it after Close.
type App struct {
	Server  *grpc.Server
	closers []func() error
}

// LoadKeys validates the configuration and derives the key material.
// Every failure wraps errors.ErrConfig.
func LoadKeys(config Config) (auth.Keys, error) {
	if err := config.Validate(); err != nil {
		return auth.Keys{}, err
	}
	return auth.LoadKeys(config.JWTSecret, config.ChatEncryptionKey)
}

// NewApp builds repositories, services and the gRPC server.
func NewApp(config Config, keys auth.Keys, logger *slog.Logger, db *badger.DB) (*App, error) {
	ttl, err := config.TokenTTL()
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenService(keys.SigningKey, ttl)
	if err != nil {
		return nil, err
	}
	cipher, err := encryption.NewMessageCipher(keys.EncryptionKey)
	if err != nil {
		return nil, err
	}

	app := &App{}
	userRepository, err := repositories.NewUserRepository(db)
	if err != nil {
		return nil, fmt.Errorf("user repository: %w", err)
	}
	app.closers = append(app.closers, userRepository.Close)

	spaceRepository, err := repositories.NewSpaceRepository(db)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("space repository: %w", err)
	}
	app.closers = append(app.closers, spaceRepository.Close)

	conversationRepository, err := repositories.NewConversationRepository(db, logger)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("conversation repository: %w", err)
	}
	app.closers = append(app.closers, conversationRepository.Close)

	messageRepository := repositories.NewMessageRepository(db, logger)
	registry := runtime.NewRegistry()

	authService := services.NewAuthService(userRepository, tokens)
	spaceService := services.NewSpaceService(logger, spaceRepository)
	conversationService := services.NewConversationService(logger, spaceService, conversationRepository)
	chatService := services.NewChatService(logger, conversationService, messageRepository,
		cipher, registry, config.MaxContentLength)

	authenticator := server.NewAuthenticator(logger, tokens, authService)
	app.Server = server.NewGRPCServer(logger, authenticator,
		server.NewAuthServer(authService),
		server.NewChatServer(logger, spaceService, conversationService, chatService,
			config.SubscriberBufferSize, config.DeliveryTimeout))
	return app, nil
}

// Close releases the id sequences. Call it after the gRPC server stopped.
func (a *App) Close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
