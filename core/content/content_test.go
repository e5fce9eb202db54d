package content_test

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/content"
	inmemdb "github.com/trezcool/jifunze/storage/database/inmem"
	testutil "github.com/trezcool/jifunze/tests"
)

type fixture struct {
	svc      *content.Service
	repo     content.Repository
	validate *validator.Validate
}

func setup(t *testing.T) fixture {
	db := inmemdb.NewDB()
	repo := inmemdb.NewContentRepository(db)
	svc := content.NewService(repo)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	content.InitValidators(validate, translator)

	return fixture{svc: svc, repo: repo, validate: validate}
}

func TestService_CreateChapter(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ch, err := f.svc.CreateChapter(ctx, content.NewChapter{Title: "Intro", Content: "Karibu!", Order: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, ch.ID)
	assert.Equal(t, 1, ch.Order)

	// order values are unique; a clash is an authoring mistake
	_, err = f.svc.CreateChapter(ctx, content.NewChapter{Title: "Intro Again", Content: "Karibu!", Order: 1})
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok)
	assert.Equal(t, content.ErrOrderExists, vErr.Err)

	_, err = f.svc.CreateChapter(ctx, content.NewChapter{Title: "Next", Content: "Endelea", Order: 2})
	assert.NoError(t, err)

	chapters, err := f.svc.Chapters(ctx)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Intro", chapters[0].Title)
	assert.Equal(t, "Next", chapters[1].Title)
}

func TestService_CreateQuiz(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ch := testutil.CreateChapter(t, f.repo, "Intro", 1)

	nq := content.NewQuiz{
		Title: "Intro Quiz",
		Questions: []content.NewQuestion{
			{
				Text: "2 + 2 ?",
				Options: []content.NewOption{
					{Text: "3"}, {Text: "4", IsCorrect: true}, {Text: "5"},
				},
			},
			{
				Text: "5 x 2 ?",
				Options: []content.NewOption{
					{Text: "10", IsCorrect: true}, {Text: "7"},
				},
			},
		},
	}
	require.NoError(t, nq.Validate(f.validate))

	quiz, err := f.svc.CreateQuiz(ctx, ch.ID, nq)
	require.NoError(t, err)
	assert.Equal(t, ch.ID, quiz.ChapterID)

	questions, err := f.svc.QuizQuestions(ctx, quiz.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	// questions and options keep their authored order, positions are 1-based
	assert.Equal(t, 1, questions[0].Position)
	assert.Equal(t, 2, questions[1].Position)
	require.Len(t, questions[0].Options, 3)
	assert.Equal(t, 1, questions[0].Options[0].Position)
	assert.Equal(t, "4", questions[0].Options[1].Text)
	correct, ok := questions[0].CorrectOption()
	require.True(t, ok)
	assert.Equal(t, 2, correct.Position)

	got, err := f.svc.QuizByChapter(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.ID, got.ID)

	_, err = f.svc.CreateQuiz(ctx, "nope", content.NewQuiz{Title: "Orphan"})
	assert.Equal(t, content.ErrChapterNotFound, errors.Cause(err))
}

func TestService_CreateBadge(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	b, err := f.svc.CreateBadge(ctx, content.NewBadge{
		Name:     "Chapter King",
		Icon:     "crown",
		Category: content.BadgeCategoryChapter,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)

	_, err = f.svc.CreateBadge(ctx, content.NewBadge{
		Name:     "Chapter King",
		Icon:     "crown",
		Category: content.BadgeCategoryChapter,
	})
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok)
	assert.Equal(t, content.ErrBadgeNameExists, vErr.Err)

	got, err := f.svc.BadgeByName(ctx, "Chapter King")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = f.svc.BadgeByName(ctx, "Nobody")
	assert.Equal(t, content.ErrBadgeNotFound, errors.Cause(err))
}

func TestNewQuestion_oneCorrectOption(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name    string
		data    content.NewQuestion
		wantErr bool
	}{
		{
			name: "exactly one correct",
			data: content.NewQuestion{Text: "2 + 2 ?", Options: []content.NewOption{
				{Text: "3"}, {Text: "4", IsCorrect: true},
			}},
		},
		{
			name: "no correct option",
			data: content.NewQuestion{Text: "2 + 2 ?", Options: []content.NewOption{
				{Text: "3"}, {Text: "5"},
			}},
			wantErr: true,
		},
		{
			name: "two correct options",
			data: content.NewQuestion{Text: "2 + 2 ?", Options: []content.NewOption{
				{Text: "4", IsCorrect: true}, {Text: "2 x 2", IsCorrect: true},
			}},
			wantErr: true,
		},
		{
			name: "too few options",
			data: content.NewQuestion{Text: "2 + 2 ?", Options: []content.NewOption{
				{Text: "4", IsCorrect: true},
			}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.validate.Struct(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_CreateAchievement(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ch := testutil.CreateChapter(t, f.repo, "Intro", 1)

	xp := 100
	na := content.NewAchievement{Name: "Centurion", XPRequired: &xp}
	require.NoError(t, na.Validate(f.validate))
	a, err := f.svc.CreateAchievement(ctx, na)
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)

	// a milestone needs at least one trigger
	bare := content.NewAchievement{Name: "Aimless"}
	assert.Error(t, bare.Validate(f.validate))

	chA := content.NewAchievement{Name: "First Steps", ChapterID: &ch.ID}
	require.NoError(t, chA.Validate(f.validate))
	_, err = f.svc.CreateAchievement(ctx, chA)
	assert.NoError(t, err)

	missing := "nope"
	_, err = f.svc.CreateAchievement(ctx, content.NewAchievement{Name: "Ghost", ChapterID: &missing})
	assert.Equal(t, content.ErrChapterNotFound, errors.Cause(err))

	all, err := f.svc.Achievements(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
