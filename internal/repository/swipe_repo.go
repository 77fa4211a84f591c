package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hey-granth/profile-guard/internal/db"
	"github.com/hey-granth/profile-guard/internal/utils/pagination"
)

// SwipeRepository provides data access methods for the Swipe model.
// It encapsulates all queries related to likes/dislikes between users.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *SwipeRepository) WithTx(tx *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: tx}
}

// Upsert inserts or updates a swipe made by actor -> target.
//
// Behavior:
//   - If (actor_id, target_id) pair exists → the row is updated with the new action.
//   - If it doesn't exist → a new row is inserted.
//   - Composite PK ensures overwrite guarantee, repeating a swipe is a no-op.
//
// Example:
//
//	repo.Upsert(ctx, 1, 2, db.ActionLike) // user 1 liked user 2
func (r *SwipeRepository) Upsert(
	ctx context.Context,
	actorID, targetID uint64,
	action db.SwipeAction,
) error {
	swipe := db.Swipe{
		ActorID:  actorID,
		TargetID: targetID,
		Action:   action,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "actor_id"}, {Name: "target_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"action", "updated_at"}),
		}).
		Create(&swipe).Error
}

// Get returns the swipe for the ordered pair, or gorm.ErrRecordNotFound.
func (r *SwipeRepository) Get(ctx context.Context, actorID, targetID uint64) (*db.Swipe, error) {
	var s db.Swipe
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND target_id = ?", actorID, targetID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// HasLiked checks whether an actor has liked a target.
//
// Behavior:
//   - Returns true if there exists a swipe row where actor_id = X,
//     target_id = Y, and action = like.
//   - With lock set, the row is read with FOR SHARE so the answer reflects the
//     latest committed state inside a transaction. sqlite drops the clause.
//
// Example:
//
//	repo.HasLiked(ctx, 2, 1, true) // -> true if user 2 already liked user 1
func (r *SwipeRepository) HasLiked(
	ctx context.Context,
	actorID, targetID uint64,
	lock bool,
) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("actor_id = ? AND target_id = ? AND action = ?", actorID, targetID, db.ActionLike)
	if lock {
		query = query.Clauses(clause.Locking{Strength: clause.LockingStrengthShare})
	}

	var ids []uint64
	if err := query.Limit(1).Pluck("actor_id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// GetLikers returns all users who liked the given target.
//
// Behavior:
//   - Only swipes where target_id = X and action = like are returned.
//   - Excludes users that the target explicitly disliked.
//   - Ordered by updated_at DESC, actor_id DESC.
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.GetLikers(ctx, 42, nil, 20) // list first 20 people who liked user 42
func (r *SwipeRepository) GetLikers(
	ctx context.Context,
	targetID uint64,
	paginationToken *string,
	limit int,
) ([]db.Swipe, *string, error) {
	return r.likers(ctx, targetID, paginationToken, limit, false)
}

// GetNewLikers returns users who liked the target but have not been liked back.
//
// Behavior:
//   - Same filter and ordering as GetLikers.
//   - Excludes mutual likes (target already liked them back).
//
// Example:
//
//	repo.GetNewLikers(ctx, 42, nil, 20) // list first 20 one-way likes for user 42
func (r *SwipeRepository) GetNewLikers(
	ctx context.Context,
	targetID uint64,
	paginationToken *string,
	limit int,
) ([]db.Swipe, *string, error) {
	return r.likers(ctx, targetID, paginationToken, limit, true)
}

func (r *SwipeRepository) likers(
	ctx context.Context,
	targetID uint64,
	paginationToken *string,
	limit int,
	excludeMutual bool,
) ([]db.Swipe, *string, error) {
	var swipes []db.Swipe

	// decode cursor if provided
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.likersQuery(ctx, targetID)
	if excludeMutual {
		query = query.Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s3
				WHERE s3.actor_id = s.target_id
				  AND s3.target_id = s.actor_id
				  AND s3.action = ?
			)`, db.ActionLike)
	}
	query = query.
		Order("s.updated_at DESC, s.actor_id DESC").
		Limit(limit + 1)

	// apply cursor
	if !cursor.IsZero() {
		ts := cursor.UpdatedAt()
		query = query.Where(
			"(s.updated_at < ? OR (s.updated_at = ? AND s.actor_id < ?))",
			ts, ts, cursor.UserID,
		)
	}

	if err := query.Find(&swipes).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(swipes) > limit {
		last := swipes[limit-1]
		token, err := pagination.Encode(pagination.Cursor{
			UserID:      last.ActorID,
			UpdatedUnix: last.UpdatedAt.UnixMilli(),
		})
		if err != nil {
			return nil, nil, err
		}
		nextToken = &token
		swipes = swipes[:limit]
	}

	return swipes, nextToken, nil
}

// CountLikers returns how many users liked the given target.
//
// Behavior:
//   - Counts only swipes where target_id = X and action = like.
//   - Excludes users that target explicitly disliked.
//   - Used in conjunction with Redis cache (DB is fallback).
func (r *SwipeRepository) CountLikers(ctx context.Context, targetID uint64) (int64, error) {
	var count int64
	if err := r.likersQuery(ctx, targetID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// likersQuery selects likes on targetID minus actors the target disliked.
func (r *SwipeRepository) likersQuery(ctx context.Context, targetID uint64) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.target_id = ? AND s.action = ?", targetID, db.ActionLike).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s2
				WHERE s2.actor_id = ?
				  AND s2.target_id = s.actor_id
				  AND s2.action = ?
			)`, targetID, db.ActionDislike)
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetLiked returns the like swipes made by actorID, newest first.
func (r *SwipeRepository) GetLiked(ctx context.Context, actorID uint64, limit int) ([]db.Swipe, error) {
	var swipes []db.Swipe
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND action = ?", actorID, db.ActionLike).
		Order("updated_at DESC, target_id DESC").
		Limit(limit).
		Find(&swipes).Error
	if err != nil {
		return nil, err
	}
	return swipes, nil
}
