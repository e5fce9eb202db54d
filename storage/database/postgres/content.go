package pgrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/content"
)

type contentRepository struct {
	base
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(exec core.DBExecutor) *contentRepository {
	return &contentRepository{base{exec: exec}}
}

// Chapters

func (repo contentRepository) CreateChapter(ctx context.Context, ch content.Chapter, exec ...core.DBExecutor) (content.Chapter, error) {
	ch.ID = uuid.New().String()
	ch.CreatedAt = nowUTC()
	_, err := repo.getExec(exec).ExecContext(ctx, `
		INSERT INTO chapters (id, title, content, ord, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		ch.ID, ch.Title, ch.Content, ch.Order, ch.CreatedAt,
	)
	if err != nil {
		return content.Chapter{}, errors.Wrap(err, "inserting chapter")
	}
	return ch, nil
}

func (repo contentRepository) QueryChapters(ctx context.Context, exec ...core.DBExecutor) ([]content.Chapter, error) {
	chapters := make([]content.Chapter, 0)
	err := repo.getExec(exec).SelectContext(ctx, &chapters, "SELECT * FROM chapters ORDER BY ord, id")
	if err != nil {
		return nil, errors.Wrap(err, "querying chapters")
	}
	return chapters, nil
}

func (repo contentRepository) GetChapterByID(ctx context.Context, id string, exec ...core.DBExecutor) (content.Chapter, error) {
	var ch content.Chapter
	err := repo.getExec(exec).GetContext(ctx, &ch, "SELECT * FROM chapters WHERE id = $1", id)
	if err != nil {
		return content.Chapter{}, trapNoRowsErr(err, content.ErrChapterNotFound, "getting chapter by id")
	}
	return ch, nil
}

func (repo contentRepository) ChapterOrderExists(ctx context.Context, order int, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := repo.getExec(exec).GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM chapters WHERE ord = $1)", order)
	if err != nil {
		return false, errors.Wrap(err, "checking chapter order")
	}
	return exists, nil
}

// Quizzes & Questions

func (repo contentRepository) CreateQuiz(ctx context.Context, quiz content.Quiz, exec ...core.DBExecutor) (content.Quiz, error) {
	quiz.ID = uuid.New().String()
	_, err := repo.getExec(exec).ExecContext(ctx, `
		INSERT INTO quizzes (id, chapter_id, title)
		VALUES ($1, $2, $3)`,
		quiz.ID, quiz.ChapterID, quiz.Title,
	)
	if err != nil {
		return content.Quiz{}, errors.Wrap(err, "inserting quiz")
	}
	return quiz, nil
}

func (repo contentRepository) GetQuizByChapterID(ctx context.Context, chapterID string, exec ...core.DBExecutor) (content.Quiz, error) {
	var quiz content.Quiz
	err := repo.getExec(exec).GetContext(ctx, &quiz,
		"SELECT * FROM quizzes WHERE chapter_id = $1 ORDER BY id LIMIT 1", chapterID)
	if err != nil {
		return content.Quiz{}, trapNoRowsErr(err, content.ErrQuizNotFound, "getting quiz by chapter")
	}
	return quiz, nil
}

func (repo contentRepository) CreateQuestion(ctx context.Context, q content.Question, exec ...core.DBExecutor) (content.Question, error) {
	db := repo.getExec(exec)

	q.ID = uuid.New().String()
	_, err := db.ExecContext(ctx, `
		INSERT INTO questions (id, quiz_id, question_text, position)
		VALUES ($1, $2, $3, $4)`,
		q.ID, q.QuizID, q.Text, q.Position,
	)
	if err != nil {
		return content.Question{}, errors.Wrap(err, "inserting question")
	}
	for i := range q.Options {
		opt := &q.Options[i]
		opt.ID = uuid.New().String()
		opt.QuestionID = q.ID
		_, err = db.ExecContext(ctx, `
			INSERT INTO question_options (id, question_id, position, option_text, is_correct)
			VALUES ($1, $2, $3, $4, $5)`,
			opt.ID, opt.QuestionID, opt.Position, opt.Text, opt.IsCorrect,
		)
		if err != nil {
			return content.Question{}, errors.Wrap(err, "inserting question option")
		}
	}
	return q, nil
}

func (repo contentRepository) QueryQuizQuestions(ctx context.Context, quizID string, exec ...core.DBExecutor) ([]content.Question, error) {
	db := repo.getExec(exec)

	questions := make([]content.Question, 0)
	err := db.SelectContext(ctx, &questions,
		"SELECT * FROM questions WHERE quiz_id = $1 ORDER BY position", quizID)
	if err != nil {
		return nil, errors.Wrap(err, "querying questions")
	}
	for i := range questions {
		q := &questions[i]
		err = db.SelectContext(ctx, &q.Options,
			"SELECT * FROM question_options WHERE question_id = $1 ORDER BY position", q.ID)
		if err != nil {
			return nil, errors.Wrap(err, "querying question options")
		}
	}
	return questions, nil
}

// Badges & Achievements

func (repo contentRepository) CreateBadge(ctx context.Context, b content.Badge, exec ...core.DBExecutor) (content.Badge, error) {
	b.ID = uuid.New().String()
	_, err := repo.getExec(exec).ExecContext(ctx, `
		INSERT INTO badges (id, name, description, icon, category)
		VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.Name, b.Description, b.Icon, b.Category,
	)
	if err != nil {
		return content.Badge{}, errors.Wrap(err, "inserting badge")
	}
	return b, nil
}

func (repo contentRepository) QueryBadges(ctx context.Context, exec ...core.DBExecutor) ([]content.Badge, error) {
	badges := make([]content.Badge, 0)
	err := repo.getExec(exec).SelectContext(ctx, &badges, "SELECT * FROM badges ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "querying badges")
	}
	return badges, nil
}

func (repo contentRepository) GetBadgeByName(ctx context.Context, name string, exec ...core.DBExecutor) (content.Badge, error) {
	var b content.Badge
	err := repo.getExec(exec).GetContext(ctx, &b, "SELECT * FROM badges WHERE name = $1", name)
	if err != nil {
		return content.Badge{}, trapNoRowsErr(err, content.ErrBadgeNotFound, "getting badge by name")
	}
	return b, nil
}

func (repo contentRepository) CreateAchievement(ctx context.Context, a content.Achievement, exec ...core.DBExecutor) (content.Achievement, error) {
	a.ID = uuid.New().String()
	_, err := repo.getExec(exec).ExecContext(ctx, `
		INSERT INTO achievements (id, name, description, xp_required, chapter_id)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Name, a.Description, a.XPRequired, a.ChapterID,
	)
	if err != nil {
		return content.Achievement{}, errors.Wrap(err, "inserting achievement")
	}
	return a, nil
}

func (repo contentRepository) QueryAchievements(ctx context.Context, exec ...core.DBExecutor) ([]content.Achievement, error) {
	achievements := make([]content.Achievement, 0)
	err := repo.getExec(exec).SelectContext(ctx, &achievements, "SELECT * FROM achievements ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "querying achievements")
	}
	return achievements, nil
}
