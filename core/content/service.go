package content

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core"
)

var (
	// errors
	ErrChapterNotFound     = errors.New("chapter not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrBadgeNotFound       = errors.New("badge not found")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrOrderExists         = errors.New("a chapter with this order already exists")
	ErrBadgeNameExists     = errors.New("a badge with this name already exists")
)

type (
	Repository interface {
		CreateChapter(ctx context.Context, ch Chapter, exec ...core.DBExecutor) (Chapter, error)
		QueryChapters(ctx context.Context, exec ...core.DBExecutor) ([]Chapter, error)
		GetChapterByID(ctx context.Context, id string, exec ...core.DBExecutor) (Chapter, error)
		ChapterOrderExists(ctx context.Context, order int, exec ...core.DBExecutor) (bool, error)

		CreateQuiz(ctx context.Context, quiz Quiz, exec ...core.DBExecutor) (Quiz, error)
		// GetQuizByChapterID returns the chapter's first quiz when several exist.
		GetQuizByChapterID(ctx context.Context, chapterID string, exec ...core.DBExecutor) (Quiz, error)

		CreateQuestion(ctx context.Context, q Question, exec ...core.DBExecutor) (Question, error)
		QueryQuizQuestions(ctx context.Context, quizID string, exec ...core.DBExecutor) ([]Question, error)

		CreateBadge(ctx context.Context, b Badge, exec ...core.DBExecutor) (Badge, error)
		QueryBadges(ctx context.Context, exec ...core.DBExecutor) ([]Badge, error)
		GetBadgeByName(ctx context.Context, name string, exec ...core.DBExecutor) (Badge, error)

		CreateAchievement(ctx context.Context, a Achievement, exec ...core.DBExecutor) (Achievement, error)
		QueryAchievements(ctx context.Context, exec ...core.DBExecutor) ([]Achievement, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authoring inputs

type (
	NewChapter struct {
		Title   string `json:"title" validate:"required"`
		Content string `json:"content" validate:"required"`
		Order   int    `json:"order" validate:"required,min=1"`
	}

	NewOption struct {
		Text      string `json:"text" validate:"required"`
		IsCorrect bool   `json:"is_correct"`
	}

	NewQuestion struct {
		Text    string      `json:"text" validate:"required"`
		Options []NewOption `json:"options" validate:"required,min=2,dive"`
	}

	NewQuiz struct {
		Title     string        `json:"title" validate:"required"`
		Questions []NewQuestion `json:"questions" validate:"omitempty,dive"`
	}

	NewBadge struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
		Icon        string `json:"icon" validate:"required"`
		Category    string `json:"category" validate:"required,oneof=chapter quiz xp"`
	}

	NewAchievement struct {
		Name        string  `json:"name" validate:"required"`
		Description string  `json:"description"`
		XPRequired  *int    `json:"xp_required" validate:"omitempty,min=0"`
		ChapterID   *string `json:"chapter_id"`
	}
)

func (nc *NewChapter) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	return validate.Struct(nc)
}

func (nq *NewQuiz) Validate(validate *validator.Validate) error {
	nq.Title = core.CleanString(nq.Title)
	return validate.Struct(nq)
}

func (nb *NewBadge) Validate(validate *validator.Validate) error {
	nb.Name = core.CleanString(nb.Name)
	return validate.Struct(nb)
}

func (na *NewAchievement) Validate(validate *validator.Validate) error {
	na.Name = core.CleanString(na.Name)
	return validate.Struct(na)
}

// Operations

func (svc *Service) CreateChapter(ctx context.Context, nc NewChapter) (Chapter, error) {
	exists, err := svc.repo.ChapterOrderExists(ctx, nc.Order)
	if err != nil {
		return Chapter{}, errors.Wrap(err, "checking chapter order")
	}
	if exists {
		return Chapter{}, core.NewValidationError(ErrOrderExists, core.FieldError{Field: "order", Error: ErrOrderExists.Error()})
	}
	return svc.repo.CreateChapter(ctx, Chapter{
		Title:   nc.Title,
		Content: nc.Content,
		Order:   nc.Order,
	})
}

// Chapters returns all chapters sorted by their order value.
func (svc *Service) Chapters(ctx context.Context) ([]Chapter, error) {
	return svc.repo.QueryChapters(ctx)
}

func (svc *Service) ChapterByID(ctx context.Context, id string) (Chapter, error) {
	return svc.repo.GetChapterByID(ctx, id)
}

// CreateQuiz creates a quiz for a chapter together with its questions.
func (svc *Service) CreateQuiz(ctx context.Context, chapterID string, nq NewQuiz) (Quiz, error) {
	if _, err := svc.repo.GetChapterByID(ctx, chapterID); err != nil {
		return Quiz{}, err
	}
	quiz, err := svc.repo.CreateQuiz(ctx, Quiz{ChapterID: chapterID, Title: nq.Title})
	if err != nil {
		return Quiz{}, errors.Wrap(err, "creating quiz")
	}
	for i, q := range nq.Questions {
		question := Question{
			QuizID:   quiz.ID,
			Text:     q.Text,
			Position: i + 1,
		}
		for j, opt := range q.Options {
			question.Options = append(question.Options, Option{
				Position:  j + 1,
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
			})
		}
		if _, err = svc.repo.CreateQuestion(ctx, question); err != nil {
			return Quiz{}, errors.Wrap(err, "creating question")
		}
	}
	return quiz, nil
}

func (svc *Service) QuizByChapter(ctx context.Context, chapterID string) (Quiz, error) {
	return svc.repo.GetQuizByChapterID(ctx, chapterID)
}

// QuizQuestions returns the quiz's questions with their options, in position order.
func (svc *Service) QuizQuestions(ctx context.Context, quizID string) ([]Question, error) {
	return svc.repo.QueryQuizQuestions(ctx, quizID)
}

func (svc *Service) CreateBadge(ctx context.Context, nb NewBadge) (Badge, error) {
	if _, err := svc.repo.GetBadgeByName(ctx, nb.Name); err == nil {
		return Badge{}, core.NewValidationError(ErrBadgeNameExists, core.FieldError{Field: "name", Error: ErrBadgeNameExists.Error()})
	} else if errors.Cause(err) != ErrBadgeNotFound {
		return Badge{}, errors.Wrap(err, "checking badge name")
	}
	return svc.repo.CreateBadge(ctx, Badge{
		Name:        nb.Name,
		Description: nb.Description,
		Icon:        nb.Icon,
		Category:    nb.Category,
	})
}

func (svc *Service) Badges(ctx context.Context) ([]Badge, error) {
	return svc.repo.QueryBadges(ctx)
}

func (svc *Service) BadgeByName(ctx context.Context, name string) (Badge, error) {
	return svc.repo.GetBadgeByName(ctx, name)
}

func (svc *Service) CreateAchievement(ctx context.Context, na NewAchievement) (Achievement, error) {
	if na.ChapterID != nil {
		if _, err := svc.repo.GetChapterByID(ctx, *na.ChapterID); err != nil {
			return Achievement{}, err
		}
	}
	return svc.repo.CreateAchievement(ctx, Achievement{
		Name:        na.Name,
		Description: na.Description,
		XPRequired:  na.XPRequired,
		ChapterID:   na.ChapterID,
	})
}

func (svc *Service) Achievements(ctx context.Context) ([]Achievement, error) {
	return svc.repo.QueryAchievements(ctx)
}
