package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/progress"
)

type progressRepository struct {
	db *DB
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(db *DB) *progressRepository {
	return &progressRepository{db: db}
}

func (repo *progressRepository) CreateCompletion(ctx context.Context, c progress.Completion, exec ...core.DBExecutor) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := awardKey(c.UserID, c.ChapterID)
	if _, ok := repo.db.completions[key]; ok {
		return false, nil
	}
	repo.db.completions[key] = c
	return true, nil
}

func (repo *progressRepository) QueryUserCompletions(ctx context.Context, userID string, exec ...core.DBExecutor) ([]progress.Completion, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	completions := make([]progress.Completion, 0)
	for _, c := range repo.db.completions {
		if c.UserID == userID {
			completions = append(completions, c)
		}
	}
	sort.Slice(completions, func(i, j int) bool { return completions[i].CompletedAt.Before(completions[j].CompletedAt) })
	return completions, nil
}

func (repo *progressRepository) CompletedOrderExists(ctx context.Context, userID string, order int, exec ...core.DBExecutor) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, c := range repo.db.completions {
		if c.UserID != userID {
			continue
		}
		if ch, ok := repo.db.chapters[c.ChapterID]; ok && ch.Order == order {
			return true, nil
		}
	}
	return false, nil
}
