package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/db"
	svcErr "github.com/hey-granth/profile-guard/internal/errors"
	"github.com/hey-granth/profile-guard/internal/repository"
)

const maxReportPage = 100

// Service owns blocks, bans and reports, and answers the two boolean checks
// the transport consults before swipes and messages.
type Service struct {
	appCtx    *app.AppContext
	modRepo   *repository.ModerationRepository
	userRepo  *repository.UserRepository
	matchRepo *repository.MatchRepository
	chatRepo  *repository.ChatRepository
	now       func() time.Time
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		modRepo:   repository.NewModerationRepository(appCtx.DB),
		userRepo:  repository.NewUserRepository(appCtx.DB),
		matchRepo: repository.NewMatchRepository(appCtx.DB),
		chatRepo:  repository.NewChatRepository(appCtx.DB),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// IsBlocked reports whether either user blocked the other.
func (s *Service) IsBlocked(ctx context.Context, a, b uint64) (bool, error) {
	return s.modRepo.IsBlocked(ctx, a, b)
}

// IsBanned reports whether the user has an active, unexpired ban.
func (s *Service) IsBanned(ctx context.Context, userID uint64) (bool, error) {
	return s.modRepo.HasActiveBan(ctx, userID, s.now())
}

// Block records blocker -> blocked. An existing match between them is moved
// to blocked and its private room closed, in the same transaction.
func (s *Service) Block(ctx context.Context, blockerID, blockedID uint64, reason string) error {
	if blockerID == blockedID {
		return svcErr.ErrSelfModeration
	}
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.userRepo.WithTx(tx).LockPair(ctx, blockerID, blockedID)
		if err != nil {
			return err
		}
		if n != 2 {
			return svcErr.ErrIdentityNotFound
		}
		if err := s.modRepo.WithTx(tx).Block(ctx, blockerID, blockedID, strings.TrimSpace(reason)); err != nil {
			return fmt.Errorf("store block: %w", err)
		}

		m, err := s.matchRepo.WithTx(tx).GetByPair(ctx, blockerID, blockedID)
		if repository.IsNotFound(err) {
			return nil
		} else if err != nil {
			return err
		}
		if _, err := s.matchRepo.WithTx(tx).SetStatus(ctx, blockerID, blockedID, db.MatchBlocked); err != nil {
			return err
		}
		return s.chatRepo.WithTx(tx).DeactivateMatchRoom(ctx, m.ID)
	})
	if err != nil {
		return err
	}
	s.appCtx.Logger.Info("user blocked", "blocker", blockerID, "blocked", blockedID)
	return nil
}

// Unblock removes blocker -> blocked. A match blocked earlier stays blocked.
func (s *Service) Unblock(ctx context.Context, blockerID, blockedID uint64) (bool, error) {
	return s.modRepo.Unblock(ctx, blockerID, blockedID)
}

// ListBlocked returns the users the blocker has blocked, newest first.
func (s *Service) ListBlocked(ctx context.Context, blockerID uint64) ([]db.Block, error) {
	return s.modRepo.ListBlocked(ctx, blockerID)
}

// PendingReports returns unresolved reports, newest first. reportedID 0
// lists reports against everyone.
func (s *Service) PendingReports(ctx context.Context, reportedID uint64, limit int) ([]db.Report, error) {
	if limit <= 0 || limit > maxReportPage {
		limit = maxReportPage
	}
	return s.modRepo.OpenReports(ctx, reportedID, limit)
}

// Report files (or refreshes) reporter's report against reported.
func (s *Service) Report(ctx context.Context, reporterID, reportedID uint64, reason, description string) error {
	if reporterID == reportedID {
		return svcErr.ErrSelfModeration
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("%w: report reason is required", svcErr.ErrValidation)
	}
	if _, err := s.userRepo.Get(ctx, reportedID); repository.IsNotFound(err) {
		return svcErr.ErrIdentityNotFound
	} else if err != nil {
		return err
	}
	return s.modRepo.UpsertReport(ctx, &db.Report{
		ReporterID:  reporterID,
		ReportedID:  reportedID,
		Reason:      reason,
		Description: description,
	})
}

// Ban replaces any active ban of the user with a new one and flags the user
// inactive and banned. A nil expiresAt bans indefinitely.
func (s *Service) Ban(ctx context.Context, userID uint64, bannedBy *uint64, reason string, expiresAt *time.Time) (*db.Ban, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: ban reason is required", svcErr.ErrValidation)
	}
	if bannedBy != nil && *bannedBy == userID {
		return nil, svcErr.ErrSelfModeration
	}
	if expiresAt != nil && !expiresAt.After(s.now()) {
		return nil, fmt.Errorf("%w: ban expiry must be in the future", svcErr.ErrValidation)
	}

	ban := &db.Ban{UserID: userID, BannedBy: bannedBy, Reason: reason, Active: true, ExpiresAt: expiresAt}
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.userRepo.WithTx(tx).Lock(ctx, userID); repository.IsNotFound(err) {
			return svcErr.ErrIdentityNotFound
		} else if err != nil {
			return err
		}
		modRepo := s.modRepo.WithTx(tx)
		if _, err := modRepo.DeactivateBans(ctx, userID); err != nil {
			return err
		}
		if err := modRepo.CreateBan(ctx, ban); err != nil {
			return err
		}
		return s.userRepo.WithTx(tx).SetModerationFlags(ctx, userID, false, true)
	})
	if err != nil {
		return nil, err
	}
	s.appCtx.Logger.Warn("user banned", "user_id", userID, "ban_id", ban.ID, "expires_at", expiresAt)
	return ban, nil
}

// Unban lifts every active ban and reactivates the user. It reports whether
// there was anything to lift.
func (s *Service) Unban(ctx context.Context, userID uint64) (bool, error) {
	var lifted bool
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.userRepo.WithTx(tx).Lock(ctx, userID); repository.IsNotFound(err) {
			return svcErr.ErrIdentityNotFound
		} else if err != nil {
			return err
		}
		n, err := s.modRepo.WithTx(tx).DeactivateBans(ctx, userID)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		lifted = true
		return s.userRepo.WithTx(tx).SetModerationFlags(ctx, userID, true, false)
	})
	if err != nil {
		return false, err
	}
	if lifted {
		s.appCtx.Logger.Info("user unbanned", "user_id", userID)
	}
	return lifted, nil
}
