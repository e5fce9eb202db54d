package pgrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/reward"
)

type rewardRepository struct {
	base
}

var _ reward.Repository = (*rewardRepository)(nil) // interface compliance check

func NewRewardRepository(exec core.DBExecutor) *rewardRepository {
	return &rewardRepository{base{exec: exec}}
}

func (repo rewardRepository) UserHasBadge(ctx context.Context, userID, badgeID string, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := repo.getExec(exec).GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM badge_awards WHERE user_id = $1 AND badge_id = $2)",
		userID, badgeID)
	if err != nil {
		return false, errors.Wrap(err, "checking badge award")
	}
	return exists, nil
}

func (repo rewardRepository) CreateBadgeAward(ctx context.Context, award reward.BadgeAward, exec ...core.DBExecutor) (bool, error) {
	db := repo.getExec(exec)

	res, err := db.ExecContext(ctx, `
		INSERT INTO badge_awards (user_id, badge_id, earned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, badge_id) DO NOTHING`,
		award.UserID, award.BadgeID, award.EarnedAt,
	)
	if err != nil {
		return false, errors.Wrap(err, "inserting badge award")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "reading rows affected")
	}
	if n == 0 {
		return false, nil
	}

	// attach to the profile's badge set; profile may be provisioned lazily
	// after the award in odd orderings, hence the conflict guard
	_, err = db.ExecContext(ctx, `
		INSERT INTO profile_badges (profile_id, badge_id)
		SELECT p.id, $1 FROM profiles p WHERE p.user_id = $2
		ON CONFLICT (profile_id, badge_id) DO NOTHING`,
		award.BadgeID, award.UserID,
	)
	if err != nil {
		return false, errors.Wrap(err, "attaching badge to profile")
	}
	return true, nil
}

func (repo rewardRepository) QueryUserBadgeAwards(ctx context.Context, userID string, exec ...core.DBExecutor) ([]reward.BadgeAward, error) {
	awards := make([]reward.BadgeAward, 0)
	err := repo.getExec(exec).SelectContext(ctx, &awards,
		"SELECT * FROM badge_awards WHERE user_id = $1 ORDER BY earned_at DESC", userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying badge awards")
	}
	return awards, nil
}

func (repo rewardRepository) UserHasAchievement(ctx context.Context, userID, achievementID string, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := repo.getExec(exec).GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM achievement_awards WHERE user_id = $1 AND achievement_id = $2)",
		userID, achievementID)
	if err != nil {
		return false, errors.Wrap(err, "checking achievement award")
	}
	return exists, nil
}

func (repo rewardRepository) CreateAchievementAward(ctx context.Context, award reward.AchievementAward, exec ...core.DBExecutor) (bool, error) {
	res, err := repo.getExec(exec).ExecContext(ctx, `
		INSERT INTO achievement_awards (user_id, achievement_id, earned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, achievement_id) DO NOTHING`,
		award.UserID, award.AchievementID, award.EarnedAt,
	)
	if err != nil {
		return false, errors.Wrap(err, "inserting achievement award")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "reading rows affected")
	}
	return n > 0, nil
}

func (repo rewardRepository) QueryUserAwards(ctx context.Context, userID string, exec ...core.DBExecutor) ([]reward.Award, error) {
	awards := make([]reward.Award, 0)
	err := repo.getExec(exec).SelectContext(ctx, &awards, `
		SELECT 'badge' AS kind, b.name, b.description, b.icon, ba.earned_at
		FROM badge_awards ba INNER JOIN badges b ON b.id = ba.badge_id
		WHERE ba.user_id = $1
		UNION ALL
		SELECT 'achievement' AS kind, a.name, a.description, '' AS icon, aa.earned_at
		FROM achievement_awards aa INNER JOIN achievements a ON a.id = aa.achievement_id
		WHERE aa.user_id = $2
		ORDER BY earned_at DESC`,
		userID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying awards")
	}
	return awards, nil
}
