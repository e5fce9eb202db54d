package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/content"
)

type contentRepository struct {
	db *DB
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *DB) *contentRepository {
	return &contentRepository{db: db}
}

// Chapters

func (repo *contentRepository) CreateChapter(ctx context.Context, ch content.Chapter, exec ...core.DBExecutor) (content.Chapter, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ch.ID = uuid.New().String()
	ch.CreatedAt = time.Now().UTC()
	repo.db.chapters[ch.ID] = &ch
	return ch, nil
}

func (repo *contentRepository) QueryChapters(ctx context.Context, exec ...core.DBExecutor) ([]content.Chapter, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryChapters(), nil
}

func (repo *contentRepository) queryChapters() []content.Chapter {
	chapters := make([]content.Chapter, 0, len(repo.db.chapters))
	for _, ch := range repo.db.chapters {
		chapters = append(chapters, *ch)
	}
	sort.Slice(chapters, func(i, j int) bool {
		if chapters[i].Order != chapters[j].Order {
			return chapters[i].Order < chapters[j].Order
		}
		return chapters[i].ID < chapters[j].ID
	})
	return chapters
}

func (repo *contentRepository) GetChapterByID(ctx context.Context, id string, exec ...core.DBExecutor) (content.Chapter, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ch, ok := repo.db.chapters[id]; ok {
		return *ch, nil
	}
	return content.Chapter{}, content.ErrChapterNotFound
}

func (repo *contentRepository) ChapterOrderExists(ctx context.Context, order int, exec ...core.DBExecutor) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, ch := range repo.db.chapters {
		if ch.Order == order {
			return true, nil
		}
	}
	return false, nil
}

// Quizzes & Questions

func (repo *contentRepository) CreateQuiz(ctx context.Context, quiz content.Quiz, exec ...core.DBExecutor) (content.Quiz, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	quiz.ID = uuid.New().String()
	repo.db.quizzes[quiz.ID] = &quiz
	return quiz, nil
}

func (repo *contentRepository) GetQuizByChapterID(ctx context.Context, chapterID string, exec ...core.DBExecutor) (content.Quiz, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	quizzes := make([]content.Quiz, 0)
	for _, q := range repo.db.quizzes {
		if q.ChapterID == chapterID {
			quizzes = append(quizzes, *q)
		}
	}
	if len(quizzes) == 0 {
		return content.Quiz{}, content.ErrQuizNotFound
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].ID < quizzes[j].ID })
	return quizzes[0], nil
}

func (repo *contentRepository) CreateQuestion(ctx context.Context, q content.Question, exec ...core.DBExecutor) (content.Question, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	q.ID = uuid.New().String()
	for i := range q.Options {
		q.Options[i].ID = uuid.New().String()
		q.Options[i].QuestionID = q.ID
	}
	repo.db.questions[q.ID] = &q
	return q, nil
}

func (repo *contentRepository) QueryQuizQuestions(ctx context.Context, quizID string, exec ...core.DBExecutor) ([]content.Question, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	questions := make([]content.Question, 0)
	for _, q := range repo.db.questions {
		if q.QuizID == quizID {
			questions = append(questions, *q)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].Position < questions[j].Position })
	return questions, nil
}

// Badges & Achievements

func (repo *contentRepository) CreateBadge(ctx context.Context, b content.Badge, exec ...core.DBExecutor) (content.Badge, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	b.ID = uuid.New().String()
	repo.db.badges[b.ID] = &b
	return b, nil
}

func (repo *contentRepository) QueryBadges(ctx context.Context, exec ...core.DBExecutor) ([]content.Badge, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	badges := make([]content.Badge, 0, len(repo.db.badges))
	for _, b := range repo.db.badges {
		badges = append(badges, *b)
	}
	sort.Slice(badges, func(i, j int) bool { return badges[i].Name < badges[j].Name })
	return badges, nil
}

func (repo *contentRepository) GetBadgeByName(ctx context.Context, name string, exec ...core.DBExecutor) (content.Badge, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, b := range repo.db.badges {
		if b.Name == name {
			return *b, nil
		}
	}
	return content.Badge{}, content.ErrBadgeNotFound
}

func (repo *contentRepository) CreateAchievement(ctx context.Context, a content.Achievement, exec ...core.DBExecutor) (content.Achievement, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	a.ID = uuid.New().String()
	repo.db.achievements[a.ID] = &a
	return a, nil
}

func (repo *contentRepository) QueryAchievements(ctx context.Context, exec ...core.DBExecutor) ([]content.Achievement, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	achievements := make([]content.Achievement, 0, len(repo.db.achievements))
	for _, a := range repo.db.achievements {
		achievements = append(achievements, *a)
	}
	sort.Slice(achievements, func(i, j int) bool { return achievements[i].Name < achievements[j].Name })
	return achievements, nil
}
