package errors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	svcErr "github.com/hey-granth/profile-guard/internal/errors"
)

func TestValidationSentinelsShareParent(t *testing.T) {
	for _, err := range []error{
		svcErr.ErrWrongImageCount,
		svcErr.ErrSelfSwipe,
		svcErr.ErrInvalidAction,
		svcErr.ErrEmptyMessage,
		svcErr.ErrTooManyPhotos,
		svcErr.ErrSelfModeration,
	} {
		assert.ErrorIs(t, err, svcErr.ErrValidation, err.Error())
	}
	assert.NotErrorIs(t, svcErr.ErrNotEnrolled, svcErr.ErrValidation)
}

func TestMap(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"wrong count", svcErr.ErrWrongImageCount, codes.InvalidArgument},
		{"wrapped self swipe", fmt.Errorf("record swipe: %w", svcErr.ErrSelfSwipe), codes.InvalidArgument},
		{"embedding", fmt.Errorf("%w: image 2", svcErr.ErrEmbeddingFailure), codes.InvalidArgument},
		{"not enrolled", svcErr.ErrNotEnrolled, codes.FailedPrecondition},
		{"match inactive", svcErr.ErrMatchNotActive, codes.FailedPrecondition},
		{"message gate", svcErr.ErrMessageNotAllowed, codes.PermissionDenied},
		{"identity", svcErr.ErrIdentityNotFound, codes.NotFound},
		{"gorm not found", gorm.ErrRecordNotFound, codes.NotFound},
		{"deadline", context.DeadlineExceeded, codes.DeadlineExceeded},
		{"canceled", context.Canceled, codes.Canceled},
		{"storage", errors.New("connection refused"), codes.Internal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, ok := status.FromError(svcErr.Map(tc.err))
			assert.True(t, ok)
			assert.Equal(t, tc.want, st.Code())
		})
	}

	assert.NoError(t, svcErr.Map(nil))

	already := status.Error(codes.Unavailable, "down")
	assert.Equal(t, already, svcErr.Map(already))
}
