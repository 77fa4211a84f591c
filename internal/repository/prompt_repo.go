package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hey-granth/profile-guard/internal/db"
)

// PromptRepository stores prompt questions and profile answers.
type PromptRepository struct {
	db *gorm.DB
}

func NewPromptRepository(database *gorm.DB) *PromptRepository {
	return &PromptRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *PromptRepository) WithTx(tx *gorm.DB) *PromptRepository {
	return &PromptRepository{db: tx}
}

// EnsureQuestions inserts the questions that do not exist yet, ordered as
// given. Existing rows are left alone.
func (r *PromptRepository) EnsureQuestions(ctx context.Context, questions []string) error {
	if len(questions) == 0 {
		return nil
	}
	rows := make([]db.PromptQuestion, len(questions))
	for i, q := range questions {
		rows[i] = db.PromptQuestion{Question: q, Order: i + 1, Active: true}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "question"}}, DoNothing: true}).
		Create(&rows).Error
}

// ActiveQuestions returns active questions by display order.
func (r *PromptRepository) ActiveQuestions(ctx context.Context) ([]db.PromptQuestion, error) {
	var out []db.PromptQuestion
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sort_order").Order("id").
		Find(&out).Error
	return out, err
}

// ActiveQuestionIDs returns which of ids name an active question.
func (r *PromptRepository) ActiveQuestionIDs(ctx context.Context, ids []uint64) (map[uint64]bool, error) {
	out := make(map[uint64]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var found []uint64
	err := r.db.WithContext(ctx).
		Model(&db.PromptQuestion{}).
		Where("id IN ? AND active = ?", ids, true).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}

// SetQuestionActive toggles a question without touching its answers.
func (r *PromptRepository) SetQuestionActive(ctx context.Context, questionID uint64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&db.PromptQuestion{}).
		Where("id = ?", questionID).
		Update("active", active).Error
}

// UpsertAnswer writes the profile's answer, replacing an earlier one.
func (r *PromptRepository) UpsertAnswer(ctx context.Context, profileID, questionID uint64, answer string) error {
	row := db.PromptAnswer{ProfileID: profileID, QuestionID: questionID, Answer: answer}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"answer", "updated_at"}),
		}).
		Create(&row).Error
}

// ListAnswers returns the profile's answers in question order.
func (r *PromptRepository) ListAnswers(ctx context.Context, profileID uint64) ([]db.PromptAnswer, error) {
	var out []db.PromptAnswer
	err := r.db.WithContext(ctx).
		Table("prompt_answers AS a").
		Select("a.*").
		Joins("JOIN prompt_questions q ON q.id = a.question_id").
		Where("a.profile_id = ?", profileID).
		Order("q.sort_order").Order("q.id").
		Find(&out).Error
	return out, err
}
