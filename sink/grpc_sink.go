package sink

import (
	"context"
	"log/slog"
	"time"

	"space-chat/domain"
)

// GrpcSink buffers messages for one open Subscribe stream.
// The stream handler drains Messages and writes them to the client.
type GrpcSink struct {
	Messages        chan domain.MessageView
	log             *slog.Logger
	deliveryTimeout time.Duration
}

func NewGrpcSink(log *slog.Logger, bufferSize int, deliveryTimeout time.Duration) *GrpcSink {
	return &GrpcSink{
		Messages:        make(chan domain.MessageView, bufferSize),
		log:             log,
		deliveryTimeout: deliveryTimeout,
	}
}

// Consume is called by the sender's goroutine.
// It waits at most deliveryTimeout for room in the buffer, then drops the message:
// a slow reader can always catch up with ListMessages.
func (s *GrpcSink) Consume(ctx context.Context, message domain.MessageView) error {
	select {
	case s.Messages <- message:
		return nil
	default:
	}

	timer := time.NewTimer(s.deliveryTimeout)
	defer timer.Stop()
	select {
	case s.Messages <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		s.log.Warn("Subscriber too slow, message dropped",
			"conversation_id", message.ConversationID,
			"message_id", message.ID)
		return nil
	}
}
