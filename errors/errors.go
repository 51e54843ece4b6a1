package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrTokenMalformed     = fmt.Errorf("token malformed")
	ErrTokenExpired       = fmt.Errorf("token expired")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrConfig             = fmt.Errorf("invalid configuration")
	ErrAuthorization      = fmt.Errorf("not a participant of this conversation")
	ErrSelfConversation   = fmt.Errorf("owner cannot start a chat with themselves")
	ErrNotFound           = fmt.Errorf("not found")
	ErrIntegrity          = fmt.Errorf("message integrity check failed")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidPassword    = fmt.Errorf("password does not meet requirements")
	ErrInvalidUsername    = fmt.Errorf("username does not meet requirements")
	ErrInvalidMessage     = fmt.Errorf("invalid message")
	ErrConversationExists = fmt.Errorf("conversation already exists")
)

// MapToGRPCError turns a domain error into a gRPC status.
// Unknown errors collapse to Internal so no storage detail leaks to the caller.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, ErrTokenMalformed), errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, ErrAuthorization):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, ErrSelfConversation):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrIntegrity):
		return status.Error(codes.DataLoss, err.Error())
	case errors.Is(err, ErrInvalidPassword), errors.Is(err, ErrInvalidUsername),
		errors.Is(err, ErrInvalidMessage):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrUserAlreadyExists), errors.Is(err, ErrConversationExists):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
