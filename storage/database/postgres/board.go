package pgrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/board"
)

type boardRepository struct {
	base
}

var _ board.Repository = (*boardRepository)(nil) // interface compliance check

func NewBoardRepository(exec core.DBExecutor) *boardRepository {
	return &boardRepository{base{exec: exec}}
}

func (repo boardRepository) QueryEntries(ctx context.Context, exec ...core.DBExecutor) ([]board.Entry, error) {
	entries := make([]board.Entry, 0)
	// profile id breaks XP ties so the ranking is stable across reads
	err := repo.getExec(exec).SelectContext(ctx, &entries, `
		SELECT
			u.id AS user_id,
			u.username,
			p.xp,
			p.level,
			(SELECT COUNT(*) FROM chapter_completions cc WHERE cc.user_id = u.id) AS completed_chapters,
			(SELECT COUNT(*) FROM user_answers ua WHERE ua.user_id = u.id) AS total_answers
		FROM profiles p
		INNER JOIN users u ON u.id = p.user_id
		ORDER BY p.xp DESC, p.id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying leaderboard entries")
	}
	return entries, nil
}
