package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the parent of every caller-input failure. Validation
	// failures are never retried and never partially applied.
	ErrValidation = errors.New("validation error")

	ErrWrongImageCount = fmt.Errorf("%w: exactly 3 images are required", ErrValidation)
	ErrSelfSwipe       = fmt.Errorf("%w: cannot swipe on yourself", ErrValidation)
	ErrInvalidAction   = fmt.Errorf("%w: action must be like or dislike", ErrValidation)
	ErrEmptyMessage    = fmt.Errorf("%w: message content is empty", ErrValidation)
	ErrTooManyPhotos   = fmt.Errorf("%w: too many profile photos", ErrValidation)
	ErrSelfModeration  = fmt.Errorf("%w: cannot target yourself", ErrValidation)

	// ErrEmbeddingFailure means an image could not be turned into a vector.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrNotEnrolled is a precondition failure, distinct from a failed
	// similarity check.
	ErrNotEnrolled = errors.New("identity is not enrolled")

	ErrIdentityNotFound  = errors.New("identity not found")
	ErrRoomNotFound      = errors.New("chat room not found")
	ErrMatchNotFound     = errors.New("match not found")
	ErrMatchNotActive    = errors.New("match is not active")
	ErrMessageNotAllowed = errors.New("sender may not post in this room")
	ErrPhotoMismatch     = errors.New("photos do not match enrollment")
)
