package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/reward"
)

type rewardRepository struct {
	db *DB
}

var _ reward.Repository = (*rewardRepository)(nil) // interface compliance check

func NewRewardRepository(db *DB) *rewardRepository {
	return &rewardRepository{db: db}
}

func (repo *rewardRepository) UserHasBadge(ctx context.Context, userID, badgeID string, exec ...core.DBExecutor) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.badgeAwards[awardKey(userID, badgeID)]
	return ok, nil
}

func (repo *rewardRepository) CreateBadgeAward(ctx context.Context, award reward.BadgeAward, exec ...core.DBExecutor) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := awardKey(award.UserID, award.BadgeID)
	if _, ok := repo.db.badgeAwards[key]; ok {
		return false, nil
	}
	repo.db.badgeAwards[key] = award

	if p, ok := repo.db.profiles[award.UserID]; ok {
		set, ok := repo.db.profBadges[p.ID]
		if !ok {
			set = make(map[string]bool)
			repo.db.profBadges[p.ID] = set
		}
		set[award.BadgeID] = true
	}
	return true, nil
}

func (repo *rewardRepository) QueryUserBadgeAwards(ctx context.Context, userID string, exec ...core.DBExecutor) ([]reward.BadgeAward, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	awards := make([]reward.BadgeAward, 0)
	for _, a := range repo.db.badgeAwards {
		if a.UserID == userID {
			awards = append(awards, a)
		}
	}
	sort.Slice(awards, func(i, j int) bool { return awards[i].EarnedAt.After(awards[j].EarnedAt) })
	return awards, nil
}

func (repo *rewardRepository) UserHasAchievement(ctx context.Context, userID, achievementID string, exec ...core.DBExecutor) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.achAwards[awardKey(userID, achievementID)]
	return ok, nil
}

func (repo *rewardRepository) CreateAchievementAward(ctx context.Context, award reward.AchievementAward, exec ...core.DBExecutor) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := awardKey(award.UserID, award.AchievementID)
	if _, ok := repo.db.achAwards[key]; ok {
		return false, nil
	}
	repo.db.achAwards[key] = award
	return true, nil
}

func (repo *rewardRepository) QueryUserAwards(ctx context.Context, userID string, exec ...core.DBExecutor) ([]reward.Award, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	awards := make([]reward.Award, 0)
	for _, a := range repo.db.badgeAwards {
		if a.UserID != userID {
			continue
		}
		if b, ok := repo.db.badges[a.BadgeID]; ok {
			awards = append(awards, reward.Award{
				Kind:        "badge",
				Name:        b.Name,
				Description: b.Description,
				Icon:        b.Icon,
				EarnedAt:    a.EarnedAt,
			})
		}
	}
	for _, a := range repo.db.achAwards {
		if a.UserID != userID {
			continue
		}
		if ach, ok := repo.db.achievements[a.AchievementID]; ok {
			awards = append(awards, reward.Award{
				Kind:        "achievement",
				Name:        ach.Name,
				Description: ach.Description,
				EarnedAt:    a.EarnedAt,
			})
		}
	}
	sort.Slice(awards, func(i, j int) bool { return awards[i].EarnedAt.After(awards[j].EarnedAt) })
	return awards, nil
}
