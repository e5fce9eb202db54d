package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core/content"
	"github.com/trezcool/jifunze/core/progress"
)

type learningApi struct {
	deps ServerDeps
}

func registerLearningAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := learningApi{deps: deps}

	cg := g.Group("/chapters", jwt)
	cg.GET("", api.queryChapters)
	cg.POST("", api.createChapter, adminMiddleware())
	cg.GET("/:id", api.retrieveChapter)
	cg.GET("/:id/quiz", api.retrieveQuiz)
	cg.POST("/:id/quiz", api.submitQuiz)
	cg.POST("/:id/quizzes", api.createQuiz, adminMiddleware())

	bg := g.Group("/badges", jwt, adminMiddleware())
	bg.POST("", api.createBadge)

	achg := g.Group("/achievement-definitions", jwt, adminMiddleware())
	achg.POST("", api.createAchievement)
}

// Handlers

// queryChapters lists every chapter with the caller's unlock and completion flags.
func (api *learningApi) queryChapters(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	statuses, err := api.deps.ProgressSvc.ChapterStatuses(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying chapter statuses")
	}
	if statuses == nil {
		statuses = []progress.ChapterStatus{}
	}
	return ctx.JSON(http.StatusOK, statuses)
}

// retrieveChapter returns the chapter content; locked chapters come back 403.
func (api *learningApi) retrieveChapter(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()

	chapter, err := api.deps.ContentSvc.ChapterByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.deps.ProgressSvc.EnsureUnlocked(reqCtx, claims.Subject, chapter); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, chapter)
}

// retrieveQuiz returns the chapter's quiz questions with the correct flags
// stripped so clients can never leak answers.
func (api *learningApi) retrieveQuiz(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()

	chapter, err := api.deps.ContentSvc.ChapterByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.deps.ProgressSvc.EnsureUnlocked(reqCtx, claims.Subject, chapter); err != nil {
		return err
	}

	quiz, err := api.deps.ContentSvc.QuizByChapter(reqCtx, chapter.ID)
	if err != nil {
		return err
	}
	questions, err := api.deps.ContentSvc.QuizQuestions(reqCtx, quiz.ID)
	if err != nil {
		return errors.Wrap(err, "querying quiz questions")
	}
	return ctx.JSON(http.StatusOK, newQuizResponse(quiz, questions))
}

func (api *learningApi) submitQuiz(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data QuizSubmission
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuizSubmission")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	res, err := api.deps.GradingSvc.SubmitQuiz(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data.Answers)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

// Authoring (admin)

func (api *learningApi) createChapter(ctx echo.Context) error {
	var data content.NewChapter
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewChapter")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	chapter, err := api.deps.ContentSvc.CreateChapter(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, chapter)
}

func (api *learningApi) createQuiz(ctx echo.Context) error {
	var data content.NewQuiz
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuiz")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	quiz, err := api.deps.ContentSvc.CreateQuiz(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, quiz)
}

func (api *learningApi) createBadge(ctx echo.Context) error {
	var data content.NewBadge
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBadge")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	badge, err := api.deps.ContentSvc.CreateBadge(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, badge)
}

func (api *learningApi) createAchievement(ctx echo.Context) error {
	var data content.NewAchievement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAchievement")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ach, err := api.deps.ContentSvc.CreateAchievement(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, ach)
}

// Response shapes

type (
	QuizOptionResponse struct {
		Position int    `json:"position"`
		Text     string `json:"text"`
	}

	QuizQuestionResponse struct {
		ID       string               `json:"id"`
		Text     string               `json:"text"`
		Position int                  `json:"position"`
		Options  []QuizOptionResponse `json:"options"`
	}

	QuizResponse struct {
		ID        string                 `json:"id"`
		ChapterID string                 `json:"chapter_id"`
		Title     string                 `json:"title"`
		Questions []QuizQuestionResponse `json:"questions"`
	}
)

func newQuizResponse(quiz content.Quiz, questions []content.Question) QuizResponse {
	res := QuizResponse{
		ID:        quiz.ID,
		ChapterID: quiz.ChapterID,
		Title:     quiz.Title,
		Questions: make([]QuizQuestionResponse, 0, len(questions)),
	}
	for _, q := range questions {
		qr := QuizQuestionResponse{
			ID:       q.ID,
			Text:     q.Text,
			Position: q.Position,
			Options:  make([]QuizOptionResponse, 0, len(q.Options)),
		}
		for _, opt := range q.Options {
			qr.Options = append(qr.Options, QuizOptionResponse{Position: opt.Position, Text: opt.Text})
		}
		res.Questions = append(res.Questions, qr)
	}
	return res
}
