package pgrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/grading"
)

type gradingRepository struct {
	base
}

var _ grading.Repository = (*gradingRepository)(nil) // interface compliance check

func NewGradingRepository(exec core.DBExecutor) *gradingRepository {
	return &gradingRepository{base{exec: exec}}
}

func (repo gradingRepository) CreateAnswers(ctx context.Context, answers []grading.Answer, exec ...core.DBExecutor) error {
	db := repo.getExec(exec)

	// append-only: prior records for the same question are never overwritten
	for i := range answers {
		a := &answers[i]
		a.ID = uuid.New().String()
		_, err := db.ExecContext(ctx, `
			INSERT INTO user_answers (id, user_id, question_id, selected_option, is_correct, answered_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			a.ID, a.UserID, a.QuestionID, a.SelectedOption, a.IsCorrect, a.AnsweredAt,
		)
		if err != nil {
			return errors.Wrap(err, "inserting answer")
		}
	}
	return nil
}

func (repo gradingRepository) CountUserAnswers(ctx context.Context, userID string, exec ...core.DBExecutor) (int, error) {
	var count int
	err := repo.getExec(exec).GetContext(ctx, &count,
		"SELECT COUNT(*) FROM user_answers WHERE user_id = $1", userID)
	if err != nil {
		return 0, errors.Wrap(err, "counting answers")
	}
	return count, nil
}
