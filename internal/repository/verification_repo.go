package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hey-granth/profile-guard/internal/db"
)

// VerificationRepository stores reference embeddings and the audit trail.
type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(database *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *VerificationRepository) WithTx(tx *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: tx}
}

// UpsertReference writes the user's three reference vectors.
//
// Behavior:
//   - First enrollment inserts the row.
//   - Re-enrollment overwrites all three vectors in the same statement, so a
//     mix of old and new vectors is never visible.
func (r *VerificationRepository) UpsertReference(ctx context.Context, ref *db.ReferenceEmbedding) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(ref).Error
}

// GetReference returns the reference set or gorm.ErrRecordNotFound.
func (r *VerificationRepository) GetReference(ctx context.Context, userID uint64) (*db.ReferenceEmbedding, error) {
	var ref db.ReferenceEmbedding
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// HasReference reports whether the user completed enrollment.
func (r *VerificationRepository) HasReference(ctx context.Context, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.ReferenceEmbedding{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

// AppendRecord writes an audit entry. Records are never updated.
func (r *VerificationRepository) AppendRecord(ctx context.Context, rec *db.VerificationRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// ListRecords returns the user's audit trail, newest first.
func (r *VerificationRepository) ListRecords(ctx context.Context, userID uint64, limit int) ([]db.VerificationRecord, error) {
	var recs []db.VerificationRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
