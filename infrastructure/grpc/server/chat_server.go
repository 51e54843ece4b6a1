package server

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"space-chat/api"
	"space-chat/domain"
	"space-chat/errors"
	"space-chat/services"
	"space-chat/sink"

	"github.com/samber/lo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ChatServer struct {
	api.UnimplementedChatServiceServer
	log                  *slog.Logger
	spaceService         services.ISpaceService
	conversationService  services.IConversationService
	chatService          services.IChatService
	connectionBufferSize int
	deliveryTimeout      time.Duration
}

func NewChatServer(log *slog.Logger, spaceService services.ISpaceService,
	conversationService services.IConversationService, chatService services.IChatService,
	connectionBufferSize int, deliveryTimeout time.Duration) *ChatServer {
	return &ChatServer{
		log:                  log,
		spaceService:         spaceService,
		conversationService:  conversationService,
		chatService:          chatService,
		connectionBufferSize: connectionBufferSize,
		deliveryTimeout:      deliveryTimeout,
	}
}

func (s *ChatServer) CreateSpace(ctx context.Context, _ *api.CreateSpaceRequest) (*api.SpaceResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	space, err := s.spaceService.Create(caller)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.SpaceResponse{SpaceID: space.ID, OwnerID: space.OwnerID}, nil
}

// GetOrCreateConversation opens, or reopens, the caller's thread with the owner of a space.
func (s *ChatServer) GetOrCreateConversation(ctx context.Context, req *api.GetOrCreateConversationRequest) (*api.ConversationResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	conversation, err := s.conversationService.GetOrCreate(req.SpaceID, caller)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	view := conversation.ViewFor(caller.UserID)
	return &api.ConversationResponse{
		ID:                    view.ID,
		SpaceID:               view.SpaceID,
		OtherPartyDisplayName: view.OtherPartyDisplayName,
	}, nil
}

func (s *ChatServer) SendMessage(ctx context.Context, req *api.SendMessageRequest) (*api.MessageResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	view, err := s.chatService.Send(ctx, req.ConversationID, caller, req.Text)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toMessageResponse(view), nil
}

func (s *ChatServer) ListMessages(ctx context.Context, req *api.ListMessagesRequest) (*api.ListMessagesResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	views, err := s.chatService.List(req.ConversationID, caller)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.ListMessagesResponse{
		Messages: lo.Map(views, func(view domain.MessageView, _ int) *api.MessageResponse {
			return toMessageResponse(view)
		}),
	}, nil
}

// Subscribe streams every message sent to the conversation after the call.
// It blocks until the client goes away; the registry entry is removed on return.
func (s *ChatServer) Subscribe(req *api.SubscribeRequest, stream api.ChatService_SubscribeServer) error {
	ctx := stream.Context()
	caller, err := callerFrom(ctx)
	if err != nil {
		return err
	}
	grpcSink := sink.NewGrpcSink(s.log, s.connectionBufferSize, s.deliveryTimeout)
	unsubscribe, err := s.chatService.Subscribe(req.ConversationID, caller, grpcSink)
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	defer unsubscribe()

	// Headers tell the client the subscription is live.
	if err := stream.SendHeader(metadata.Pairs("conversation-id", strconv.FormatInt(req.ConversationID, 10))); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Subscriber disconnected",
				"conversation_id", req.ConversationID,
				"user_id", caller.UserID)
			return nil
		case view := <-grpcSink.Messages:
			if err := stream.Send(toMessageResponse(view)); err != nil {
				s.log.Error("Failed to push message to stream",
					"conversation_id", req.ConversationID,
					"user_id", caller.UserID,
					"error", err)
				return err
			}
		}
	}
}

func callerFrom(ctx context.Context) (domain.Identity, error) {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return domain.Identity{}, status.Error(codes.Unauthenticated, "missing identity")
	}
	return identity, nil
}

func toMessageResponse(view domain.MessageView) *api.MessageResponse {
	return &api.MessageResponse{
		ID:             view.ID.String(),
		ConversationID: view.ConversationID,
		SenderID:       view.SenderID,
		Body:           view.Body,
		SentAt:         view.SentAt,
		FromMe:         view.FromMe,
		Unreadable:     !view.Readable(),
	}
}
