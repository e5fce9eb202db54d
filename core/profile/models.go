package profile

import (
	"time"

	"github.com/trezcool/jifunze/core/content"
)

// XPPerLevel is the amount of XP separating two consecutive levels.
const XPPerLevel = 100

// Profile tracks a user's progression state: accrued XP, the level derived
// from it and the badges they own. One per user, created when the user is.
type Profile struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	XP        int             `json:"xp" db:"xp"`
	Level     int             `json:"level" db:"level"`
	Badges    []content.Badge `json:"badges" db:"-"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"` // UTC
}

// LevelForXP derives the level for a given XP total. The stored level column
// is a denormalized copy of this formula and must never drift from it.
func LevelForXP(xp int) int {
	return xp/XPPerLevel + 1
}

// HasBadge reports whether the profile currently owns the named badge.
func (p Profile) HasBadge(name string) bool {
	for _, b := range p.Badges {
		if b.Name == name {
			return true
		}
	}
	return false
}
