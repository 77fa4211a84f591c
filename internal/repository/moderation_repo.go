package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hey-granth/profile-guard/internal/db"
)

// ModerationRepository stores blocks, bans and reports.
type ModerationRepository struct {
	db *gorm.DB
}

func NewModerationRepository(database *gorm.DB) *ModerationRepository {
	return &ModerationRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *ModerationRepository) WithTx(tx *gorm.DB) *ModerationRepository {
	return &ModerationRepository{db: tx}
}

// IsBlocked reports whether either user blocked the other.
func (r *ModerationRepository) IsBlocked(ctx context.Context, a, b uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// Block records blocker -> blocked. Blocking again only refreshes the reason.
func (r *ModerationRepository) Block(ctx context.Context, blockerID, blockedID uint64, reason string) error {
	b := db.Block{BlockerID: blockerID, BlockedID: blockedID, Reason: reason}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "blocker_id"}, {Name: "blocked_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"reason"}),
		}).
		Create(&b).Error
}

// Unblock removes blocker -> blocked and reports whether a row existed.
func (r *ModerationRepository) Unblock(ctx context.Context, blockerID, blockedID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&db.Block{})
	return res.RowsAffected > 0, res.Error
}

// HasActiveBan reports whether the user has a ban in force at now.
//
// Behavior:
//   - A ban is in force while active = true and expires_at is NULL or later
//     than now.
func (r *ModerationRepository) HasActiveBan(ctx context.Context, userID uint64, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Ban{}).
		Where("user_id = ? AND active = ?", userID, true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Count(&count).Error
	return count > 0, err
}

// DeactivateBans lifts every active ban of the user and returns how many.
func (r *ModerationRepository) DeactivateBans(ctx context.Context, userID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Ban{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false)
	return res.RowsAffected, res.Error
}

func (r *ModerationRepository) CreateBan(ctx context.Context, ban *db.Ban) error {
	return r.db.WithContext(ctx).Create(ban).Error
}

// UpsertReport files a report, one per (reporter, reported). Reporting again
// reopens the report with the new reason.
func (r *ModerationRepository) UpsertReport(ctx context.Context, rep *db.Report) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "reporter_id"}, {Name: "reported_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"reason":      rep.Reason,
				"description": rep.Description,
				"resolved":    false,
				"updated_at":  time.Now().UTC(),
			}),
		}).
		Create(rep).Error
}

// OpenReports returns unresolved reports, newest first. A non-zero
// reportedID narrows the list to reports against that user.
func (r *ModerationRepository) OpenReports(ctx context.Context, reportedID uint64, limit int) ([]db.Report, error) {
	var reps []db.Report
	query := r.db.WithContext(ctx).
		Where("resolved = ?", false).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if reportedID != 0 {
		query = query.Where("reported_id = ?", reportedID)
	}
	if err := query.Find(&reps).Error; err != nil {
		return nil, err
	}
	return reps, nil
}

// ListBlocked returns the blocks made by blockerID, newest first.
func (r *ModerationRepository) ListBlocked(ctx context.Context, blockerID uint64) ([]db.Block, error) {
	var blocks []db.Block
	err := r.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC, blocked_id DESC").
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	return blocks, nil
}
