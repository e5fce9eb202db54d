package reward

import (
	"time"

	"github.com/trezcool/jifunze/core/content"
	"github.com/trezcool/jifunze/core/profile"
)

// Milestone badge names. These are seed data names, not load-bearing
// patterns: icon and category live on the Badge definition itself.
const (
	BadgeChapterKing    = "Chapter King"
	BadgeQuizMaster     = "Quiz Master"
	BadgeTopLeveler     = "Top Leveler"
	BadgeSupremeWarrior = "Supreme Warrior"
)

// XP thresholds for the milestone badges.
const (
	TopLevelerXP     = 100
	SupremeWarriorXP = 500
)

type (
	// BadgeAward is the durable fact that a user earned a badge.
	// Unique per (user, badge).
	BadgeAward struct {
		UserID   string    `json:"user_id" db:"user_id"`
		BadgeID  string    `json:"badge_id" db:"badge_id"`
		EarnedAt time.Time `json:"earned_at" db:"earned_at"` // UTC
	}

	// AchievementAward parallels BadgeAward for the achievement vocabulary.
	// The two record types are awarded independently and share only the
	// uniqueness/idempotence contract.
	AchievementAward struct {
		UserID        string    `json:"user_id" db:"user_id"`
		AchievementID string    `json:"achievement_id" db:"achievement_id"`
		EarnedAt      time.Time `json:"earned_at" db:"earned_at"` // UTC
	}

	// Award is a user-facing earned reward of either vocabulary, newest first.
	Award struct {
		Kind        string    `json:"kind" db:"kind"` // badge | achievement
		Name        string    `json:"name" db:"name"`
		Description string    `json:"description" db:"description"`
		Icon        string    `json:"icon" db:"icon"`
		EarnedAt    time.Time `json:"earned_at" db:"earned_at"`
	}

	// BadgeProgress lists a badge definition with the user's unlock state,
	// for the achievements page.
	BadgeProgress struct {
		Badge      content.Badge `json:"badge"`
		IsUnlocked bool          `json:"is_unlocked"`
		EarnedAt   *time.Time    `json:"earned_at"`
	}

	// AwardContext carries the facts of the triggering event that the
	// milestone rules are evaluated against.
	AwardContext struct {
		Profile          profile.Profile // post-update state
		ScorePercent     int
		PerfectQuiz      bool // quiz fully correct and non-empty
		ChapterCompleted bool // completion record created or already present
		Chapter          content.Chapter
	}
)
