package grading

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/content"
	"github.com/trezcool/jifunze/core/profile"
	"github.com/trezcool/jifunze/core/progress"
	"github.com/trezcool/jifunze/core/reward"
)

var (
	// errors
	ErrUnknownQuestion  = errors.New("submitted answer references an unknown question")
	ErrOptionOutOfRange = errors.New("selected option is out of range")
)

type (
	Repository interface {
		// CreateAnswers persists the submission's answer records; all or none.
		CreateAnswers(ctx context.Context, answers []Answer, exec ...core.DBExecutor) error
		CountUserAnswers(ctx context.Context, userID string, exec ...core.DBExecutor) (int, error)
	}

	Service struct {
		db          core.DB
		repo        Repository
		contentRepo content.Repository
		profileSvc  *profile.Service
		progressSvc *progress.Service
		rewardSvc   *reward.Service
	}
)

func NewService(
	db core.DB,
	repo Repository,
	contentRepo content.Repository,
	profileSvc *profile.Service,
	progressSvc *progress.Service,
	rewardSvc *reward.Service,
) *Service {
	return &Service{
		db:          db,
		repo:        repo,
		contentRepo: contentRepo,
		profileSvc:  profileSvc,
		progressSvc: progressSvc,
		rewardSvc:   rewardSvc,
	}
}

// Grade scores a submission against the quiz's questions. Questions with no
// submitted answer are excluded from the correct count but still included in
// the denominator. The whole submission is validated up front: an unknown
// question ID or an out-of-range option rejects everything, so no answer
// record from a malformed submission ever gets written.
func Grade(userID string, questions []content.Question, sub Submission) (GradeResult, []Answer, error) {
	byID := make(map[string]content.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	for qid, selected := range sub {
		q, ok := byID[qid]
		if !ok {
			return GradeResult{}, nil, core.NewValidationError(ErrUnknownQuestion,
				core.FieldError{Field: qid, Error: ErrUnknownQuestion.Error()})
		}
		if selected < 1 || selected > q.OptionCount() {
			return GradeResult{}, nil, core.NewValidationError(ErrOptionOutOfRange,
				core.FieldError{Field: qid, Error: ErrOptionOutOfRange.Error()})
		}
	}

	now := time.Now().UTC()
	res := GradeResult{TotalQuestions: len(questions)}
	answers := make([]Answer, 0, len(sub))
	for _, q := range questions {
		selected, answered := sub[q.ID]
		if !answered {
			continue
		}
		correct, ok := q.CorrectOption()
		isCorrect := ok && selected == correct.Position
		if isCorrect {
			res.CorrectCount++
		}
		answers = append(answers, Answer{
			UserID:         userID,
			QuestionID:     q.ID,
			SelectedOption: selected,
			IsCorrect:      isCorrect,
			AnsweredAt:     now,
		})
	}

	if res.TotalQuestions > 0 {
		res.ScorePercent = int(math.Round(100 * float64(res.CorrectCount) / float64(res.TotalQuestions)))
	}
	res.XPEarned = res.CorrectCount * XPPerCorrectAnswer
	return res, answers, nil
}

// SubmitQuiz runs the full submission flow for the chapter's quiz: unlock
// check, grading, answer history, XP accrual, milestone awards and - on a
// perfect score - chapter completion. All writes happen in one transaction
// so a failing step never leaves XP half-applied.
func (svc *Service) SubmitQuiz(ctx context.Context, userID, chapterID string, sub Submission) (GradeResult, error) {
	chapter, err := svc.contentRepo.GetChapterByID(ctx, chapterID)
	if err != nil {
		return GradeResult{}, err
	}
	if err = svc.progressSvc.EnsureUnlocked(ctx, userID, chapter); err != nil {
		return GradeResult{}, err
	}
	quiz, err := svc.contentRepo.GetQuizByChapterID(ctx, chapterID)
	if err != nil {
		return GradeResult{}, err
	}
	questions, err := svc.contentRepo.QueryQuizQuestions(ctx, quiz.ID)
	if err != nil {
		return GradeResult{}, errors.Wrap(err, "querying quiz questions")
	}

	res, answers, err := Grade(userID, questions, sub)
	if err != nil {
		return GradeResult{}, err
	}

	tx, err := svc.db.Begin()
	if err != nil {
		return GradeResult{}, errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback() // no-op once committed

	if len(answers) > 0 {
		if err = svc.repo.CreateAnswers(ctx, answers, tx); err != nil {
			return GradeResult{}, errors.Wrap(err, "recording answers")
		}
	}

	if _, err = svc.profileSvc.GetOrCreate(ctx, userID, tx); err != nil {
		return GradeResult{}, err
	}
	prof, err := svc.profileSvc.AddXP(ctx, userID, res.XPEarned, tx)
	if err != nil {
		return GradeResult{}, err
	}
	res.Level = prof.Level

	if res.Perfect() {
		if _, err = svc.progressSvc.MarkCompleted(ctx, userID, chapter.ID, tx); err != nil {
			return GradeResult{}, errors.Wrap(err, "marking chapter completed")
		}
		res.ChapterDone = true
	}

	actx := reward.AwardContext{
		Profile:          prof,
		ScorePercent:     res.ScorePercent,
		PerfectQuiz:      res.Perfect(),
		ChapterCompleted: res.ChapterDone,
		Chapter:          chapter,
	}
	if res.NewBadges, err = svc.rewardSvc.EvaluateAndAward(ctx, userID, actx, tx); err != nil {
		return GradeResult{}, err
	}
	if res.NewAchievements, err = svc.rewardSvc.EvaluateAchievements(ctx, userID, actx, tx); err != nil {
		return GradeResult{}, err
	}

	if err = tx.Commit(); err != nil {
		return GradeResult{}, errors.Wrap(err, "committing submission")
	}
	return res, nil
}
