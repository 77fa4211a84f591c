// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

// Map converts domain/repo/infra errors into gRPC-friendly status errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrEmbeddingFailure):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, ErrNotEnrolled),
		errors.Is(err, ErrMatchNotActive),
		errors.Is(err, ErrPhotoMismatch):
		return status.Error(codes.FailedPrecondition, err.Error())

	case errors.Is(err, ErrMessageNotAllowed):
		return status.Error(codes.PermissionDenied, err.Error())

	case errors.Is(err, ErrIdentityNotFound),
		errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrMatchNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, gorm.ErrRecordNotFound):
		return status.Error(codes.NotFound, "record not found")

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")

	default:
		// fallback → bubble up error message for debugging
		return status.Error(codes.Internal, err.Error())
	}
}

// InvalidArgument creates a gRPC InvalidArgument error.
// Use this in the transport layer for malformed requests.
func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}

// PermissionDenied creates a gRPC PermissionDenied error.
func PermissionDenied(msg string) error {
	return status.Error(codes.PermissionDenied, msg)
}

// IsInternal reports whether a mapped error carries codes.Internal.
func IsInternal(err error) bool {
	return status.Code(err) == codes.Internal
}
