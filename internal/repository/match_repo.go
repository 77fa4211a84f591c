package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hey-granth/profile-guard/internal/db"
)

// MatchRepository owns the canonical Match rows.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *MatchRepository) WithTx(tx *gorm.DB) *MatchRepository {
	return &MatchRepository{db: tx}
}

// GetOrCreate returns the match for the unordered pair {a, b}, creating it as
// active if absent. created reports whether this call inserted the row.
//
// Behavior:
//   - The pair is stored as (low, high) and guarded by idx_match_pair.
//   - The insert runs in a savepoint. If another writer won the race the
//     unique index rejects it with gorm.ErrDuplicatedKey, the savepoint is
//     rolled back and the winner's row is returned instead.
//   - An existing match keeps its status; moderation may have changed it.
//
// Example:
//
//	m, created, err := repo.GetOrCreate(ctx, 7, 3) // stored as (3, 7)
func (r *MatchRepository) GetOrCreate(ctx context.Context, a, b uint64) (*db.Match, bool, error) {
	low, high := db.CanonicalPair(a, b)

	existing, err := r.GetByPair(ctx, low, high)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	m := db.Match{UserLowID: low, UserHighID: high, Status: db.MatchActive}
	err = r.db.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
		return sp.Create(&m).Error
	})
	switch {
	case err == nil:
		return &m, true, nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		existing, err := r.GetByPair(ctx, low, high)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	default:
		return nil, false, err
	}
}

// GetByPair looks a match up by its canonical pair.
func (r *MatchRepository) GetByPair(ctx context.Context, a, b uint64) (*db.Match, error) {
	low, high := db.CanonicalPair(a, b)
	var m db.Match
	err := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Get returns the match or gorm.ErrRecordNotFound.
func (r *MatchRepository) Get(ctx context.Context, id uint64) (*db.Match, error) {
	var m db.Match
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListForUser returns the user's matches with the given status, newest first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID uint64, status db.MatchStatus) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("(user_low_id = ? OR user_high_id = ?) AND status = ?", userID, userID, status).
		Order("matched_at DESC, id DESC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// SetStatus changes the status of the match on the pair {a, b}, if any.
func (r *MatchRepository) SetStatus(ctx context.Context, a, b uint64, status db.MatchStatus) (bool, error) {
	low, high := db.CanonicalPair(a, b)
	res := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		Update("status", status)
	return res.RowsAffected > 0, res.Error
}
