package photos_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/config"
	"github.com/hey-granth/profile-guard/internal/db"
	"github.com/hey-granth/profile-guard/internal/dbtest"
	"github.com/hey-granth/profile-guard/internal/embedding"
	svcErr "github.com/hey-granth/profile-guard/internal/errors"
	"github.com/hey-granth/profile-guard/internal/service/gate"
	"github.com/hey-granth/profile-guard/internal/service/photos"
	"github.com/hey-granth/profile-guard/internal/service/verification"
)

type fixture struct {
	svc      *photos.Service
	verifier *verification.Service
	gdb      *gorm.DB
}

func setup(t *testing.T) fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	policy := config.Policy{SimilarityThreshold: 0.8, EmbeddingDim: 64, MaxProfilePhotos: 3}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(gdb, nil, logger, embedding.NewPixelSource(64), policy)
	verifier := verification.NewService(appCtx)
	return fixture{
		svc:      photos.NewService(appCtx, verifier, gate.NewService(appCtx)),
		verifier: verifier,
		gdb:      gdb,
	}
}

func (f fixture) enrolledUser(t *testing.T, name string) *db.User {
	t.Helper()
	u := dbtest.CreateUser(t, f.gdb, name, db.GenderFemale)
	img := embedding.SyntheticPNG(0, 64)
	_, err := f.verifier.Enroll(context.Background(), u.ID, [][]byte{img, img, img})
	require.NoError(t, err)
	return u
}

func upload(key string, seed int) photos.Upload {
	return photos.Upload{ImageKey: key, Image: embedding.SyntheticPNG(seed, 64)}
}

func TestAddPhoto_RequiresEnrollment(t *testing.T) {
	f := setup(t)
	u := dbtest.CreateUser(t, f.gdb, "bob", db.GenderMale)

	_, err := f.svc.AddPhoto(context.Background(), u.ID, upload("p1.png", 0))
	assert.ErrorIs(t, err, svcErr.ErrNotEnrolled)

	list, err := f.svc.ListPhotos(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddPhoto_OrderingAndLimit(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	u := f.enrolledUser(t, "ann")

	first, err := f.svc.AddPhoto(ctx, u.ID, upload("p1.png", 0))
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, 1, first.Position)
	assert.True(t, first.IsPrimary)
	assert.True(t, first.IsVerified)

	second, err := f.svc.AddPhoto(ctx, u.ID, upload("p2.png", 1))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Position)
	assert.False(t, second.IsPrimary)
	assert.False(t, second.IsVerified, "a different face is admitted unverified")

	_, err = f.svc.AddPhoto(ctx, u.ID, upload("p3.png", 0))
	require.NoError(t, err)
	_, err = f.svc.AddPhoto(ctx, u.ID, upload("p4.png", 0))
	assert.ErrorIs(t, err, svcErr.ErrTooManyPhotos)

	list, err := f.svc.ListPhotos(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, p := range list {
		assert.Equal(t, i+1, p.Position)
		assert.Equal(t, fmt.Sprintf("p%d.png", i+1), p.ImageKey)
	}
}

func TestAddPhoto_Validation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	u := f.enrolledUser(t, "ann")

	_, err := f.svc.AddPhoto(ctx, u.ID, photos.Upload{Image: embedding.SyntheticPNG(0, 64)})
	assert.ErrorIs(t, err, svcErr.ErrValidation)

	_, err = f.svc.AddPhoto(ctx, u.ID, photos.Upload{ImageKey: "x.png", Image: []byte("garbage")})
	assert.ErrorIs(t, err, svcErr.ErrEmbeddingFailure)
}

func TestReplacePhotos(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	u := f.enrolledUser(t, "ann")

	_, err := f.svc.AddPhoto(ctx, u.ID, upload("old.png", 0))
	require.NoError(t, err)

	got, err := f.svc.ReplacePhotos(ctx, u.ID, []photos.Upload{upload("b.png", 2), upload("a.png", 0)})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b.png", got[0].ImageKey)
	assert.True(t, got[0].IsPrimary)
	assert.False(t, got[0].IsVerified)
	assert.Equal(t, 2, got[1].Position)
	assert.True(t, got[1].IsVerified)

	list, err := f.svc.ListPhotos(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b.png", list[0].ImageKey)
}

func TestReplacePhotos_MismatchChangesNothing(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	u := f.enrolledUser(t, "ann")

	_, err := f.svc.AddPhoto(ctx, u.ID, upload("keep.png", 0))
	require.NoError(t, err)

	_, err = f.svc.ReplacePhotos(ctx, u.ID, []photos.Upload{upload("x.png", 1), upload("y.png", 2)})
	assert.ErrorIs(t, err, svcErr.ErrPhotoMismatch)

	_, err = f.svc.ReplacePhotos(ctx, u.ID, nil)
	assert.ErrorIs(t, err, svcErr.ErrValidation)

	tooMany := []photos.Upload{upload("1", 0), upload("2", 0), upload("3", 0), upload("4", 0)}
	_, err = f.svc.ReplacePhotos(ctx, u.ID, tooMany)
	assert.ErrorIs(t, err, svcErr.ErrTooManyPhotos)

	list, err := f.svc.ListPhotos(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "keep.png", list[0].ImageKey)
}
