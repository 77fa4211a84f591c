package prompts_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/config"
	"github.com/hey-granth/profile-guard/internal/db"
	"github.com/hey-granth/profile-guard/internal/dbtest"
	svcErr "github.com/hey-granth/profile-guard/internal/errors"
	"github.com/hey-granth/profile-guard/internal/repository"
	"github.com/hey-granth/profile-guard/internal/service/prompts"
)

func setup(t *testing.T) (*prompts.Service, *gorm.DB) {
	t.Helper()
	gdb := dbtest.Open(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := prompts.NewService(app.New(gdb, nil, logger, nil, config.DefaultPolicy()))
	require.NoError(t, svc.EnsureDefaults(context.Background()))
	return svc, gdb
}

func TestActiveQuestions_DefaultsInOrder(t *testing.T) {
	ctx := context.Background()
	svc, gdb := setup(t)
	require.NoError(t, svc.EnsureDefaults(ctx))

	qs, err := svc.ActiveQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, qs, len(prompts.DefaultQuestions))
	for i, q := range qs {
		assert.Equal(t, prompts.DefaultQuestions[i], q.Question)
	}

	require.NoError(t, repository.NewPromptRepository(gdb).SetQuestionActive(ctx, qs[0].ID, false))
	qs, err = svc.ActiveQuestions(ctx)
	require.NoError(t, err)
	assert.Len(t, qs, len(prompts.DefaultQuestions)-1)
}

func TestSaveAnswers_SkipsInvalidEntries(t *testing.T) {
	ctx := context.Background()
	svc, gdb := setup(t)
	ann := dbtest.CreateUser(t, gdb, "ann", db.GenderFemale)
	qs, err := svc.ActiveQuestions(ctx)
	require.NoError(t, err)
	require.NoError(t, repository.NewPromptRepository(gdb).SetQuestionActive(ctx, qs[4].ID, false))

	saved, err := svc.SaveAnswers(ctx, ann.ID, []prompts.Answer{
		{QuestionID: qs[1].ID, Text: "  hiking  "},
		{QuestionID: 0, Text: "no question"},
		{QuestionID: qs[2].ID, Text: "   "},
		{QuestionID: 999, Text: "unknown"},
		{QuestionID: qs[4].ID, Text: "inactive"},
		{QuestionID: qs[0].ID, Text: "coffee"},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, qs[0].ID, saved[0].QuestionID)
	assert.Equal(t, "coffee", saved[0].Answer)
	assert.Equal(t, "hiking", saved[1].Answer)
}

func TestSaveAnswers_OverwritesPreviousAnswer(t *testing.T) {
	ctx := context.Background()
	svc, gdb := setup(t)
	ann := dbtest.CreateUser(t, gdb, "ann", db.GenderFemale)
	qs, err := svc.ActiveQuestions(ctx)
	require.NoError(t, err)

	_, err = svc.SaveAnswers(ctx, ann.ID, []prompts.Answer{{QuestionID: qs[0].ID, Text: "picnic"}})
	require.NoError(t, err)
	_, err = svc.SaveAnswers(ctx, ann.ID, []prompts.Answer{{QuestionID: qs[0].ID, Text: "museum"}})
	require.NoError(t, err)

	got, err := svc.ListAnswers(ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "museum", got[0].Answer)

	var n int64
	require.NoError(t, gdb.Model(&db.PromptAnswer{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestSaveAnswers_Validation(t *testing.T) {
	ctx := context.Background()
	svc, gdb := setup(t)
	ann := dbtest.CreateUser(t, gdb, "ann", db.GenderFemale)

	_, err := svc.SaveAnswers(ctx, ann.ID, nil)
	assert.ErrorIs(t, err, svcErr.ErrValidation)

	_, err = svc.SaveAnswers(ctx, 999, []prompts.Answer{{QuestionID: 1, Text: "x"}})
	assert.ErrorIs(t, err, svcErr.ErrIdentityNotFound)

	got, err := svc.ListAnswers(ctx, ann.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
