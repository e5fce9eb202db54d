package reward

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/content"
)

type (
	Repository interface {
		UserHasBadge(ctx context.Context, userID, badgeID string, exec ...core.DBExecutor) (bool, error)
		// CreateBadgeAward writes the award record and attaches the badge to
		// the user's profile badge set. A concurrent duplicate is swallowed at
		// the store (unique(user_id, badge_id)) and reported as not-created.
		CreateBadgeAward(ctx context.Context, award BadgeAward, exec ...core.DBExecutor) (bool, error)
		QueryUserBadgeAwards(ctx context.Context, userID string, exec ...core.DBExecutor) ([]BadgeAward, error)

		UserHasAchievement(ctx context.Context, userID, achievementID string, exec ...core.DBExecutor) (bool, error)
		CreateAchievementAward(ctx context.Context, award AchievementAward, exec ...core.DBExecutor) (bool, error)

		// QueryUserAwards returns earned badges and achievements, newest first.
		QueryUserAwards(ctx context.Context, userID string, exec ...core.DBExecutor) ([]Award, error)
	}

	Service struct {
		repo        Repository
		contentRepo content.Repository
	}
)

func NewService(repo Repository, contentRepo content.Repository) *Service {
	return &Service{repo: repo, contentRepo: contentRepo}
}

// AwardBadge awards the named badge to the user unless they already hold it.
// A badge name with no definition is a no-op (authoring gap, not an error).
// Reports whether a new award occurred; repeat calls stay side-effect free.
//
// Ownership is checked against the profile's current badge set, not an
// "already tried" flag, so removing a badge would re-enable awarding.
func (svc *Service) AwardBadge(ctx context.Context, userID, badgeName string, exec ...core.DBExecutor) (bool, error) {
	badge, err := svc.contentRepo.GetBadgeByName(ctx, badgeName, exec...)
	if err != nil {
		if errors.Cause(err) == content.ErrBadgeNotFound {
			return false, nil
		}
		return false, errors.Wrap(err, "finding badge")
	}

	owned, err := svc.repo.UserHasBadge(ctx, userID, badge.ID, exec...)
	if err != nil {
		return false, errors.Wrap(err, "checking badge ownership")
	}
	if owned {
		return false, nil
	}

	created, err := svc.repo.CreateBadgeAward(ctx, BadgeAward{
		UserID:   userID,
		BadgeID:  badge.ID,
		EarnedAt: time.Now().UTC(),
	}, exec...)
	if err != nil {
		return false, errors.Wrap(err, "creating badge award")
	}
	return created, nil
}

// EvaluateAndAward runs every milestone rule against the event context and
// returns the names of badges newly awarded by this call. Each rule is
// evaluated independently; awarding is idempotent per rule.
func (svc *Service) EvaluateAndAward(ctx context.Context, userID string, actx AwardContext, exec ...core.DBExecutor) ([]string, error) {
	var candidates []string
	if actx.PerfectQuiz && actx.ChapterCompleted {
		candidates = append(candidates, BadgeChapterKing)
	}
	if actx.ScorePercent == 100 {
		candidates = append(candidates, BadgeQuizMaster)
	}
	if actx.Profile.XP >= TopLevelerXP {
		candidates = append(candidates, BadgeTopLeveler)
	}
	if actx.Profile.XP >= SupremeWarriorXP {
		candidates = append(candidates, BadgeSupremeWarrior)
	}

	awarded := make([]string, 0, len(candidates))
	for _, name := range candidates {
		ok, err := svc.AwardBadge(ctx, userID, name, exec...)
		if err != nil {
			return awarded, err
		}
		if ok {
			awarded = append(awarded, name)
		}
	}
	return awarded, nil
}

// EvaluateAchievements awards authored achievements whose XP threshold is met
// or whose chapter was just completed. Same idempotence contract as badges.
func (svc *Service) EvaluateAchievements(ctx context.Context, userID string, actx AwardContext, exec ...core.DBExecutor) ([]string, error) {
	achievements, err := svc.contentRepo.QueryAchievements(ctx, exec...)
	if err != nil {
		return nil, errors.Wrap(err, "querying achievements")
	}

	var awarded []string
	for _, ach := range achievements {
		var satisfied bool
		if ach.XPRequired != nil && actx.Profile.XP >= *ach.XPRequired {
			satisfied = true
		}
		if ach.ChapterID != nil && actx.ChapterCompleted && actx.Chapter.ID == *ach.ChapterID {
			satisfied = true
		}
		if !satisfied {
			continue
		}

		has, err := svc.repo.UserHasAchievement(ctx, userID, ach.ID, exec...)
		if err != nil {
			return awarded, errors.Wrap(err, "checking achievement ownership")
		}
		if has {
			continue
		}
		created, err := svc.repo.CreateAchievementAward(ctx, AchievementAward{
			UserID:        userID,
			AchievementID: ach.ID,
			EarnedAt:      time.Now().UTC(),
		}, exec...)
		if err != nil {
			return awarded, errors.Wrap(err, "creating achievement award")
		}
		if created {
			awarded = append(awarded, ach.Name)
		}
	}
	return awarded, nil
}

// UserAwards returns everything the user earned, newest first.
func (svc *Service) UserAwards(ctx context.Context, userID string) ([]Award, error) {
	return svc.repo.QueryUserAwards(ctx, userID)
}

// UserBadgeProgress lists every badge definition with the user's unlock state.
func (svc *Service) UserBadgeProgress(ctx context.Context, userID string) ([]BadgeProgress, error) {
	badges, err := svc.contentRepo.QueryBadges(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying badges")
	}
	awards, err := svc.repo.QueryUserBadgeAwards(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying badge awards")
	}

	earnedAt := make(map[string]time.Time, len(awards))
	for _, a := range awards {
		earnedAt[a.BadgeID] = a.EarnedAt
	}

	statuses := make([]BadgeProgress, 0, len(badges))
	for _, b := range badges {
		bp := BadgeProgress{Badge: b}
		if at, ok := earnedAt[b.ID]; ok {
			bp.IsUnlocked = true
			at := at
			bp.EarnedAt = &at
		}
		statuses = append(statuses, bp)
	}
	return statuses, nil
}
