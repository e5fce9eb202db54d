package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/grading"
)

type gradingRepository struct {
	db *DB
}

var _ grading.Repository = (*gradingRepository)(nil) // interface compliance check

func NewGradingRepository(db *DB) *gradingRepository {
	return &gradingRepository{db: db}
}

func (repo *gradingRepository) CreateAnswers(ctx context.Context, answers []grading.Answer, exec ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, a := range answers {
		a.ID = uuid.New().String()
		repo.db.answers = append(repo.db.answers, a)
	}
	return nil
}

func (repo *gradingRepository) CountUserAnswers(ctx context.Context, userID string, exec ...core.DBExecutor) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, a := range repo.db.answers {
		if a.UserID == userID {
			count++
		}
	}
	return count, nil
}
