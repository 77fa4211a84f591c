package prompts

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/db"
	svcErr "github.com/hey-granth/profile-guard/internal/errors"
	"github.com/hey-granth/profile-guard/internal/repository"
)

// DefaultQuestions are installed by EnsureDefaults in this order.
var DefaultQuestions = []string{
	"What's your ideal first date?",
	"What are you passionate about?",
	"What's your favorite way to spend a weekend?",
	"What's something you're proud of?",
	"What makes you laugh?",
}

// Answer is one submitted prompt answer.
type Answer struct {
	QuestionID uint64
	Text       string
}

// Service manages profile prompt questions and answers.
type Service struct {
	appCtx     *app.AppContext
	promptRepo *repository.PromptRepository
	photoRepo  *repository.PhotoRepository
	userRepo   *repository.UserRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:     appCtx,
		promptRepo: repository.NewPromptRepository(appCtx.DB),
		photoRepo:  repository.NewPhotoRepository(appCtx.DB),
		userRepo:   repository.NewUserRepository(appCtx.DB),
	}
}

// EnsureDefaults installs DefaultQuestions that are not present yet.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	return s.promptRepo.EnsureQuestions(ctx, DefaultQuestions)
}

// ActiveQuestions returns the questions users can answer, in display order.
func (s *Service) ActiveQuestions(ctx context.Context) ([]db.PromptQuestion, error) {
	return s.promptRepo.ActiveQuestions(ctx)
}

// SaveAnswers stores the user's answers in one transaction and returns the
// profile's full answer set.
//
// Behavior:
//   - Entries without a question id or with a blank answer are skipped.
//   - Entries naming a missing or inactive question are skipped.
//   - An existing answer to the same question is overwritten.
func (s *Service) SaveAnswers(ctx context.Context, userID uint64, answers []Answer) ([]db.PromptAnswer, error) {
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: at least one answer is required", svcErr.ErrValidation)
	}
	if _, err := s.userRepo.Get(ctx, userID); repository.IsNotFound(err) {
		return nil, svcErr.ErrIdentityNotFound
	} else if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(answers))
	for _, a := range answers {
		if a.QuestionID != 0 {
			ids = append(ids, a.QuestionID)
		}
	}

	var (
		saved []db.PromptAnswer
		n     int
	)
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := s.photoRepo.WithTx(tx).EnsureProfile(ctx, userID)
		if err != nil {
			return err
		}
		repo := s.promptRepo.WithTx(tx)
		active, err := repo.ActiveQuestionIDs(ctx, ids)
		if err != nil {
			return err
		}
		for _, a := range answers {
			text := strings.TrimSpace(a.Text)
			if text == "" || !active[a.QuestionID] {
				continue
			}
			if err := repo.UpsertAnswer(ctx, profile.ID, a.QuestionID, text); err != nil {
				return fmt.Errorf("store answer: %w", err)
			}
			n++
		}
		saved, err = repo.ListAnswers(ctx, profile.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.appCtx.Logger.Info("prompt answers saved", "user_id", userID, "stored", n, "skipped", len(answers)-n)
	return saved, nil
}

// ListAnswers returns the user's answers in question order.
func (s *Service) ListAnswers(ctx context.Context, userID uint64) ([]db.PromptAnswer, error) {
	profile, err := s.photoRepo.GetProfile(ctx, userID)
	if repository.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return s.promptRepo.ListAnswers(ctx, profile.ID)
}
