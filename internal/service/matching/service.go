package matching

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/db"
	svcErr "github.com/hey-granth/profile-guard/internal/errors"
	"github.com/hey-granth/profile-guard/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Service is the swipe-to-match engine plus the "liked you" listings built on
// the same swipe rows.
type Service struct {
	appCtx    *app.AppContext
	userRepo  *repository.UserRepository
	swipeRepo *repository.SwipeRepository
	matchRepo *repository.MatchRepository
}

// NewService creates the engine with dependencies from AppContext.
// Dependencies include:
//   - DB connection (users, swipes, matches)
//   - RedisCache for like counters, optional
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		userRepo:  repository.NewUserRepository(appCtx.DB),
		swipeRepo: repository.NewSwipeRepository(appCtx.DB),
		matchRepo: repository.NewMatchRepository(appCtx.DB),
	}
}

// RecordSwipe stores actor's action on target and returns the match when the
// swipe completes (or repeats) a mutual like.
//
// Behavior:
//   - Both user rows are locked in canonical order, so reciprocal swipes on
//     the same pair run one after the other and the second one always sees
//     the first.
//   - The swipe is upserted: one row per (actor, target), last action wins.
//   - Only a like looks for the reciprocal like. A dislike never creates or
//     removes a match.
//   - The match is fetched or created on the canonical pair; a lost insert
//     race resolves to the existing row and is never reported.
//   - Cached like counts of both users are dropped after commit.
//
// Example:
//
//	m, err := svc.RecordSwipe(ctx, 1, 2, db.ActionLike) // m != nil iff 2 already liked 1
func (s *Service) RecordSwipe(ctx context.Context, actorID, targetID uint64, action db.SwipeAction) (*db.Match, error) {
	if actorID == targetID {
		return nil, svcErr.ErrSelfSwipe
	}
	if !action.Valid() {
		return nil, svcErr.ErrInvalidAction
	}

	var match *db.Match
	var created bool
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.userRepo.WithTx(tx).LockPair(ctx, actorID, targetID)
		if err != nil {
			return fmt.Errorf("lock users: %w", err)
		}
		if n != 2 {
			return svcErr.ErrIdentityNotFound
		}

		swipeRepo := s.swipeRepo.WithTx(tx)
		if err := swipeRepo.Upsert(ctx, actorID, targetID, action); err != nil {
			return fmt.Errorf("upsert swipe: %w", err)
		}
		if action != db.ActionLike {
			return nil
		}

		reciprocal, err := swipeRepo.HasLiked(ctx, targetID, actorID, true)
		if err != nil {
			return fmt.Errorf("reciprocal lookup: %w", err)
		}
		if !reciprocal {
			return nil
		}

		match, created, err = s.matchRepo.WithTx(tx).GetOrCreate(ctx, actorID, targetID)
		if err != nil {
			return fmt.Errorf("get or create match: %w", err)
		}
		return nil
	})
	if err != nil {
		s.appCtx.Logger.Error("RecordSwipe failed", "actor", actorID, "target", targetID, "err", err)
		return nil, err
	}

	s.invalidateCounts(ctx, actorID, targetID)

	if created {
		s.appCtx.Logger.Info("match created", "match_id", match.ID, "low", match.UserLowID, "high", match.UserHighID)
	}
	s.appCtx.Logger.Debug("swipe recorded", "actor", actorID, "target", targetID, "action", action, "matched", match != nil)
	return match, nil
}

// ListMatches returns the user's active matches, newest first.
func (s *Service) ListMatches(ctx context.Context, userID uint64) ([]db.Match, error) {
	return s.matchRepo.ListForUser(ctx, userID, db.MatchActive)
}

// GetMatch returns a match by id.
func (s *Service) GetMatch(ctx context.Context, matchID uint64) (*db.Match, error) {
	m, err := s.matchRepo.Get(ctx, matchID)
	if repository.IsNotFound(err) {
		return nil, svcErr.ErrMatchNotFound
	}
	return m, err
}

// ListLikers returns who liked the user, excluding people the user disliked.
func (s *Service) ListLikers(ctx context.Context, userID uint64, token *string, limit int) ([]db.Swipe, *string, error) {
	return s.swipeRepo.GetLikers(ctx, userID, token, pageSize(limit))
}

// ListNewLikers is ListLikers minus people the user already liked back.
func (s *Service) ListNewLikers(ctx context.Context, userID uint64, token *string, limit int) ([]db.Swipe, *string, error) {
	return s.swipeRepo.GetNewLikers(ctx, userID, token, pageSize(limit))
}

// ListLiked returns the users the actor liked, most recent first.
func (s *Service) ListLiked(ctx context.Context, actorID uint64, limit int) ([]db.Swipe, error) {
	return s.swipeRepo.GetLiked(ctx, actorID, pageSize(limit))
}

// CountLikers returns how many users liked the user.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID).
//  2. If cache miss or Redis error, falls back to DB via repository.CountLikers.
//  3. On DB fetch, updates Redis with a 1h TTL.
func (s *Service) CountLikers(ctx context.Context, userID uint64) (int64, error) {
	rc := s.appCtx.RedisCache
	if rc != nil {
		n, ok, err := rc.GetLikeCount(ctx, userID)
		if err != nil {
			s.appCtx.Logger.Warn("like count cache read failed", "user_id", userID, "err", err)
		} else if ok {
			return n, nil
		}
	}

	// fallback: DB
	count, err := s.swipeRepo.CountLikers(ctx, userID)
	if err != nil {
		return 0, err
	}

	if rc != nil {
		if err := rc.SetLikeCount(ctx, userID, count); err != nil {
			s.appCtx.Logger.Warn("like count cache write failed", "user_id", userID, "err", err)
		}
	}
	return count, nil
}

// PotentialMatches returns users the given user can still swipe on.
func (s *Service) PotentialMatches(ctx context.Context, userID uint64, limit int) ([]db.User, error) {
	return s.userRepo.PotentialMatches(ctx, userID, pageSize(limit), time.Now().UTC())
}

func (s *Service) invalidateCounts(ctx context.Context, userIDs ...uint64) {
	if s.appCtx.RedisCache == nil {
		return
	}
	// best effort: a stale counter expires with its TTL
	if err := s.appCtx.RedisCache.InvalidateLikeCounts(ctx, userIDs...); err != nil {
		s.appCtx.Logger.Warn("like count invalidation failed", "users", userIDs, "err", err)
	}
}

func pageSize(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	return min(limit, MaxPageSize)
}
