package matching_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/cache"
	"github.com/hey-granth/profile-guard/internal/config"
	"github.com/hey-granth/profile-guard/internal/db"
	"github.com/hey-granth/profile-guard/internal/dbtest"
	svcErr "github.com/hey-granth/profile-guard/internal/errors"
	"github.com/hey-granth/profile-guard/internal/service/matching"
)

// setupService spins up an in-memory SQLite DB and a miniredis and wires
// them into a matching Service.
func setupService(t *testing.T) (*matching.Service, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()
	gdb := dbtest.Open(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()
	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(gdb, rc, logger, nil, config.DefaultPolicy())
	return matching.NewService(appCtx), gdb, mr
}

func countMatches(t *testing.T, gdb *gorm.DB, a, b uint64) int64 {
	t.Helper()
	low, high := db.CanonicalPair(a, b)
	var n int64
	require.NoError(t, gdb.Model(&db.Match{}).Where("user_low_id = ? AND user_high_id = ?", low, high).Count(&n).Error)
	return n
}

func TestRecordSwipe_Validation(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)
	a := dbtest.CreateUser(t, gdb, "ann", db.GenderFemale)
	b := dbtest.CreateUser(t, gdb, "bob", db.GenderMale)

	_, err := svc.RecordSwipe(ctx, a.ID, a.ID, db.ActionLike)
	assert.ErrorIs(t, err, svcErr.ErrSelfSwipe)

	_, err = svc.RecordSwipe(ctx, a.ID, b.ID, db.SwipeAction("superlike"))
	assert.ErrorIs(t, err, svcErr.ErrInvalidAction)

	_, err = svc.RecordSwipe(ctx, a.ID, 9999, db.ActionLike)
	assert.ErrorIs(t, err, svcErr.ErrIdentityNotFound)

	var swipes int64
	require.NoError(t, gdb.Model(&db.Swipe{}).Count(&swipes).Error)
	assert.Zero(t, swipes, "failed swipes must not be persisted")
}

func TestRecordSwipe_RepeatedLikeIsOneRow(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)
	a := dbtest.CreateUser(t, gdb, "ann", db.GenderFemale)
	b := dbtest.CreateUser(t, gdb, "bob", db.GenderMale)

	for i := 0; i < 5; i++ {
		m, err := svc.RecordSwipe(ctx, a.ID, b.ID, db.ActionLike)
		require.NoError(t, err)
		assert.Nil(t, m)
	}

	var swipes int64
	require.NoError(t, gdb.Model(&db.Swipe{}).Where("actor_id = ? AND target_id = ?", a.ID, b.ID).Count(&swipes).Error)
	assert.Equal(t, int64(1), swipes)
}

func TestRecordSwipe_MutualLikeCreatesOneMatch(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)
	a := dbtest.CreateUser(t, gdb, "ann", db.GenderFemale)
	b := dbtest.CreateUser(t, gdb, "bob", db.GenderMale)

	m, err := svc.RecordSwipe(ctx, b.ID, a.ID, db.ActionLike)
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = svc.RecordSwipe(ctx, a.ID, b.ID, db.ActionLike)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, db.MatchActive, m.Status)
	assert.Equal(t, a.ID, m.UserLowID)
	assert.Equal(t, b.ID, m.UserHighID)

	// liking again returns the same match
	again, err := svc.RecordSwipe(ctx, b.ID, a.ID, db.ActionLike)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, m.ID, again.ID)
	assert.Equal(t, int64(1), countMatches(t, gdb, a.ID, b.ID))

	matches, err := svc.ListMatches(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	other, ok := matches[0].OtherUser(b.ID)
	assert.True(t, ok)
	assert.Equal(t, a.ID, other)
}

func TestRecordSwipe_DislikeHasNoRetroactiveEffect(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)
	a := dbtest.CreateUser(t, gdb, "ann", db.GenderFemale)
	b := dbtest.CreateUser(t, gdb, "bob", db.GenderMale)
	c := dbtest.CreateUser(t, gdb, "cid", db.GenderMale)

	// c liked a; a disliking c must not create a match
	_, err := svc.RecordSwipe(ctx, c.ID, a.ID, db.ActionLike)
	require.NoError(t, err)
	m, err := svc.RecordSwipe(ctx, a.ID, c.ID, db.ActionDislike)
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Zero(t, countMatches(t, gdb, a.ID, c.ID))

	// an existing match survives a later dislike
	_, err = svc.RecordSwipe(ctx, a.ID, b.ID, db.ActionLike)
	require.NoError(t, err)
	m, err = svc.RecordSwipe(ctx, b.ID, a.ID, db.ActionLike)
	require.NoError(t, err)
	require.NotNil(t, m)

	after, err := svc.RecordSwipe(ctx, a.ID, b.ID, db.ActionDislike)
	require.NoError(t, err)
	assert.Nil(t, after)
	assert.Equal(t, int64(1), countMatches(t, gdb, a.ID, b.ID))
}

func TestRecordSwipe_ConcurrentReciprocalLikes(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)

	for round := 0; round < 10; round++ {
		a := dbtest.CreateUser(t, gdb, "a"+string(rune('a'+round)), db.GenderFemale)
		b := dbtest.CreateUser(t, gdb, "b"+string(rune('a'+round)), db.GenderMale)

		var wg sync.WaitGroup
		start := make(chan struct{})
		results := make([]*db.Match, 2)
		errs := make([]error, 2)
		pairs := [][2]uint64{{a.ID, b.ID}, {b.ID, a.ID}}
		for i, p := range pairs {
			wg.Add(1)
			go func(i int, actor, target uint64) {
				defer wg.Done()
				<-start
				results[i], errs[i] = svc.RecordSwipe(ctx, actor, target, db.ActionLike)
			}(i, p[0], p[1])
		}
		close(start)
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])
		assert.Equal(t, int64(1), countMatches(t, gdb, a.ID, b.ID))

		var ids []uint64
		for _, m := range results {
			if m != nil {
				ids = append(ids, m.ID)
			}
		}
		require.NotEmpty(t, ids, "the later swipe must observe the match")
		for _, id := range ids {
			assert.Equal(t, ids[0], id)
		}
	}
}

func TestRecordSwipe_ConcurrentRelikesShareMatch(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)
	a := dbtest.CreateUser(t, gdb, "ann", db.GenderFemale)
	b := dbtest.CreateUser(t, gdb, "bob", db.GenderMale)

	_, err := svc.RecordSwipe(ctx, a.ID, b.ID, db.ActionLike)
	require.NoError(t, err)
	first, err := svc.RecordSwipe(ctx, b.ID, a.ID, db.ActionLike)
	require.NoError(t, err)
	require.NotNil(t, first)

	var wg sync.WaitGroup
	results := make([]*db.Match, 2)
	for i, actor := range []uint64{a.ID, b.ID} {
		wg.Add(1)
		go func(i int, actor uint64) {
			defer wg.Done()
			target := a.ID
			if actor == a.ID {
				target = b.ID
			}
			m, err := svc.RecordSwipe(ctx, actor, target, db.ActionLike)
			assert.NoError(t, err)
			results[i] = m
		}(i, actor)
	}
	wg.Wait()

	for _, m := range results {
		require.NotNil(t, m)
		assert.Equal(t, first.ID, m.ID)
	}
	assert.Equal(t, int64(1), countMatches(t, gdb, a.ID, b.ID))
}

func TestCountLikers_CacheFirstAndInvalidation(t *testing.T) {
	ctx := context.Background()
	svc, gdb, mr := setupService(t)
	target := dbtest.CreateUser(t, gdb, "ann", db.GenderFemale)
	b := dbtest.CreateUser(t, gdb, "bob", db.GenderMale)
	c := dbtest.CreateUser(t, gdb, "cid", db.GenderMale)

	_, err := svc.RecordSwipe(ctx, b.ID, target.ID, db.ActionLike)
	require.NoError(t, err)

	n, err := svc.CountLikers(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.True(t, mr.Exists("likes:count:1"))

	// a cached value is served as-is
	require.NoError(t, mr.Set("likes:count:1", "7"))
	n, err = svc.CountLikers(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	// a new like drops the cache, the next read recomputes
	_, err = svc.RecordSwipe(ctx, c.ID, target.ID, db.ActionLike)
	require.NoError(t, err)
	assert.False(t, mr.Exists("likes:count:1"))
	n, err = svc.CountLikers(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// the target disliking a liker lowers their own count
	_, err = svc.RecordSwipe(ctx, target.ID, c.ID, db.ActionDislike)
	require.NoError(t, err)
	n, err = svc.CountLikers(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCountLikers_RedisDownFallsBackToDB(t *testing.T) {
	ctx := context.Background()
	svc, gdb, mr := setupService(t)
	a := dbtest.CreateUser(t, gdb, "ann", db.GenderFemale)
	b := dbtest.CreateUser(t, gdb, "bob", db.GenderMale)

	mr.Close()
	_, err := svc.RecordSwipe(ctx, b.ID, a.ID, db.ActionLike)
	require.NoError(t, err)

	n, err := svc.CountLikers(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestListLikersAndPotentialMatches(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)
	a := dbtest.CreateUser(t, gdb, "ann", db.GenderFemale)
	b := dbtest.CreateUser(t, gdb, "bob", db.GenderMale)
	c := dbtest.CreateUser(t, gdb, "cid", db.GenderMale)

	_, err := svc.RecordSwipe(ctx, b.ID, a.ID, db.ActionLike)
	require.NoError(t, err)
	_, err = svc.RecordSwipe(ctx, c.ID, a.ID, db.ActionLike)
	require.NoError(t, err)
	_, err = svc.RecordSwipe(ctx, a.ID, b.ID, db.ActionLike)
	require.NoError(t, err)

	likers, _, err := svc.ListLikers(ctx, a.ID, nil, 0)
	require.NoError(t, err)
	assert.Len(t, likers, 2)

	fresh, _, err := svc.ListNewLikers(ctx, a.ID, nil, 10)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, c.ID, fresh[0].ActorID)

	candidates, err := svc.PotentialMatches(ctx, a.ID, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, c.ID, candidates[0].ID)

	liked, err := svc.ListLiked(ctx, a.ID, 0)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, b.ID, liked[0].TargetID)

	_, err = svc.GetMatch(ctx, 12345)
	assert.ErrorIs(t, err, svcErr.ErrMatchNotFound)
}
