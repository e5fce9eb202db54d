package board

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core"
)

type (
	Repository interface {
		// QueryEntries returns one row per profile with username, completion
		// and answer counts, ordered by xp descending with profile id as the
		// deterministic tie break (never storage order).
		QueryEntries(ctx context.Context, exec ...core.DBExecutor) ([]Entry, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Build assembles the full leaderboard plus summary statistics. A full scan
// of all profiles; linear in user count, which is fine at this scale.
// viewerID may be empty for anonymous requests.
func (svc *Service) Build(ctx context.Context, viewerID string) (Leaderboard, error) {
	entries, err := svc.repo.QueryEntries(ctx)
	if err != nil {
		return Leaderboard{}, errors.Wrap(err, "querying leaderboard entries")
	}

	lb := Leaderboard{Entries: entries}
	var levelSum int
	for i := range entries {
		e := &entries[i]
		e.Rank = i + 1
		if viewerID != "" && e.UserID == viewerID {
			e.IsViewer = true
			rank := e.Rank
			lb.ViewerRank = &rank
		}
		lb.TotalXP += e.XP
		lb.TotalCompletions += e.CompletedChapters
		levelSum += e.Level
	}
	lb.TotalUsers = len(entries)
	if lb.TotalUsers > 0 {
		lb.AvgLevel = core.Round1(float64(levelSum) / float64(lb.TotalUsers))
	}
	return lb, nil
}
