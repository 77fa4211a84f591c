package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hey-granth/profile-guard/internal/db"
)

// PhotoRepository stores profiles and their ordered photos.
type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(database *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *PhotoRepository) WithTx(tx *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: tx}
}

// EnsureProfile returns the user's profile, creating an empty one if needed.
// profiles.user_id is unique, so concurrent callers end up with the same row.
func (r *PhotoRepository) EnsureProfile(ctx context.Context, userID uint64) (*db.Profile, error) {
	p := db.Profile{UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&p).Error
	if err != nil {
		return nil, err
	}

	var out db.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile returns the user's profile or gorm.ErrRecordNotFound.
func (r *PhotoRepository) GetProfile(ctx context.Context, userID uint64) (*db.Profile, error) {
	var p db.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// LockProfile locks the profile row so photo slot assignment serializes.
func (r *PhotoRepository) LockProfile(ctx context.Context, profileID uint64) error {
	var p db.Profile
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&p, profileID).Error
}

// ListPhotos returns the profile photos ordered by position.
func (r *PhotoRepository) ListPhotos(ctx context.Context, profileID uint64) ([]db.ProfilePhoto, error) {
	var photos []db.ProfilePhoto
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("position ASC").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// CreatePhotos inserts photos whose Position/IsPrimary were already assigned.
func (r *PhotoRepository) CreatePhotos(ctx context.Context, photos []db.ProfilePhoto) error {
	if len(photos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&photos).Error
}

// DeletePhotos removes every photo of the profile.
func (r *PhotoRepository) DeletePhotos(ctx context.Context, profileID uint64) error {
	return r.db.WithContext(ctx).Where("profile_id = ?", profileID).Delete(&db.ProfilePhoto{}).Error
}
