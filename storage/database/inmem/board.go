package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/board"
)

type boardRepository struct {
	db *DB
}

var _ board.Repository = (*boardRepository)(nil) // interface compliance check

func NewBoardRepository(db *DB) *boardRepository {
	return &boardRepository{db: db}
}

func (repo *boardRepository) QueryEntries(ctx context.Context, exec ...core.DBExecutor) ([]board.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	type row struct {
		entry     board.Entry
		profileID string
	}
	rows := make([]row, 0, len(repo.db.profiles))
	for userID, p := range repo.db.profiles {
		e := board.Entry{UserID: userID, XP: p.XP, Level: p.Level}
		if u, ok := repo.db.users[userID]; ok {
			e.Username = u.Username
		}
		for _, c := range repo.db.completions {
			if c.UserID == userID {
				e.CompletedChapters++
			}
		}
		for _, a := range repo.db.answers {
			if a.UserID == userID {
				e.TotalAnswers++
			}
		}
		rows = append(rows, row{entry: e, profileID: p.ID})
	}

	// xp descending, profile id ascending; same tie break as the SQL backend
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].entry.XP != rows[j].entry.XP {
			return rows[i].entry.XP > rows[j].entry.XP
		}
		return rows[i].profileID < rows[j].profileID
	})

	entries := make([]board.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry)
	}
	return entries, nil
}
