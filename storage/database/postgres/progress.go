package pgrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/progress"
)

type progressRepository struct {
	base
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(exec core.DBExecutor) *progressRepository {
	return &progressRepository{base{exec: exec}}
}

func (repo progressRepository) CreateCompletion(ctx context.Context, c progress.Completion, exec ...core.DBExecutor) (bool, error) {
	// unique(user_id, chapter_id) keeps this idempotent; the first record wins
	res, err := repo.getExec(exec).ExecContext(ctx, `
		INSERT INTO chapter_completions (user_id, chapter_id, completed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, chapter_id) DO NOTHING`,
		c.UserID, c.ChapterID, c.CompletedAt,
	)
	if err != nil {
		return false, errors.Wrap(err, "inserting completion")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "reading rows affected")
	}
	return n > 0, nil
}

func (repo progressRepository) QueryUserCompletions(ctx context.Context, userID string, exec ...core.DBExecutor) ([]progress.Completion, error) {
	completions := make([]progress.Completion, 0)
	err := repo.getExec(exec).SelectContext(ctx, &completions,
		"SELECT * FROM chapter_completions WHERE user_id = $1 ORDER BY completed_at", userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying completions")
	}
	return completions, nil
}

func (repo progressRepository) CompletedOrderExists(ctx context.Context, userID string, order int, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := repo.getExec(exec).GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM chapter_completions cc
			INNER JOIN chapters c ON c.id = cc.chapter_id
			WHERE cc.user_id = $1 AND c.ord = $2
		)`, userID, order)
	if err != nil {
		return false, errors.Wrap(err, "checking completed orders")
	}
	return exists, nil
}
