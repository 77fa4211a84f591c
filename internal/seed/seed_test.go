package seed_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/config"
	"github.com/hey-granth/profile-guard/internal/db"
	"github.com/hey-granth/profile-guard/internal/dbtest"
	"github.com/hey-granth/profile-guard/internal/embedding"
	"github.com/hey-granth/profile-guard/internal/seed"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	policy := config.Policy{SimilarityThreshold: 0.8, EmbeddingDim: 64, MaxProfilePhotos: 5}
	appCtx := app.New(gdb, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), embedding.NewPixelSource(64), policy)

	// stale rows are wiped
	dbtest.CreateUser(t, gdb, "stale", db.GenderOther)

	steps := 0
	opts := seed.Options{Users: 6, SwipesPerUser: 4, RandSeed: 7, Step: func() { steps++ }}
	sum, err := seed.Run(ctx, appCtx, opts)
	require.NoError(t, err)
	assert.Equal(t, opts.Steps(), steps)
	assert.Equal(t, 6, sum.Users)

	var users []db.User
	require.NoError(t, gdb.Order("id").Find(&users).Error)
	require.Len(t, users, 6)
	for _, u := range users {
		assert.True(t, u.IsVerified, u.Username)
		assert.NotEqual(t, "stale", u.Username)
	}

	var refs int64
	require.NoError(t, gdb.Model(&db.ReferenceEmbedding{}).Count(&refs).Error)
	assert.Equal(t, int64(6), refs)

	var photos []db.ProfilePhoto
	require.NoError(t, gdb.Find(&photos).Error)
	require.Len(t, photos, 6)
	for _, p := range photos {
		assert.True(t, p.IsPrimary)
		assert.True(t, p.IsVerified)
	}
	assert.Equal(t, 6, sum.Photos)

	var answers, questions int64
	require.NoError(t, gdb.Model(&db.PromptAnswer{}).Count(&answers).Error)
	require.NoError(t, gdb.Model(&db.PromptQuestion{}).Count(&questions).Error)
	assert.Equal(t, int64(6), answers)
	assert.Equal(t, int64(5), questions)

	var swipes []db.Swipe
	require.NoError(t, gdb.Find(&swipes).Error)
	genders := map[uint64]db.Gender{}
	for _, u := range users {
		genders[u.ID] = u.Gender
	}
	for _, s := range swipes {
		assert.NotEqual(t, genders[s.ActorID], genders[s.TargetID])
	}
	if sum.Swipes > 0 {
		assert.Positive(t, sum.Matches, "the first seeded swipe is always mutual")
	}
}
