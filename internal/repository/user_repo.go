package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hey-granth/profile-guard/internal/db"
)

// UserRepository reads identities and writes the few flags this service owns.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// Get returns the user or gorm.ErrRecordNotFound.
func (r *UserRepository) Get(ctx context.Context, id uint64) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// LockPair locks both user rows for update, lowest id first, and returns how
// many of the two exist.
//
// Behavior:
//   - Every writer on a pair takes the locks in the same canonical order, so
//     reciprocal swipes on the same pair serialize instead of deadlocking.
//   - sqlite has no row locks; the clause is dropped there.
func (r *UserRepository) LockPair(ctx context.Context, a, b uint64) (int, error) {
	low, high := db.CanonicalPair(a, b)
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id IN ?", []uint64{low, high}).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Lock locks a single user row for update.
func (r *UserRepository) Lock(ctx context.Context, id uint64) (*db.User, error) {
	var u db.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// MarkVerified sets the verification flag and timestamp.
func (r *UserRepository) MarkVerified(ctx context.Context, id uint64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_verified": true, "verified_at": at}).Error
}

// SetModerationFlags writes the active/banned pair owned by moderation.
func (r *UserRepository) SetModerationFlags(ctx context.Context, id uint64, active, banned bool) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"active": active, "banned": banned}).Error
}

// PotentialMatches returns users the given user has not swiped on yet, who
// are not blocked in either direction and not serving a ban at now.
//
// Behavior:
//   - A user deactivated without a ban (active = false, banned = false) is hidden.
//   - The banned flag alone does not hide a user: once every ban has expired
//     the user shows up again even before an explicit unban clears the flags.
//
// Example:
//
//	repo.PotentialMatches(ctx, 42, 20, time.Now()) // next 20 profiles to show user 42
func (r *UserRepository) PotentialMatches(ctx context.Context, userID uint64, limit int, now time.Time) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Table("users u").
		Where("u.id <> ?", userID).
		Where("u.active = ? OR u.banned = ?", true, true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM bans bn
				WHERE bn.user_id = u.id AND bn.active = ?
				  AND (bn.expires_at IS NULL OR bn.expires_at > ?)
			)`, true, now).
		Where("NOT EXISTS (SELECT 1 FROM swipes s WHERE s.actor_id = ? AND s.target_id = u.id)", userID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM blocks b
				WHERE (b.blocker_id = ? AND b.blocked_id = u.id)
				   OR (b.blocker_id = u.id AND b.blocked_id = ?)
			)`, userID, userID).
		Order("u.id").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
