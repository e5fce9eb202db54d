package progress

import (
	"time"

	"github.com/trezcool/jifunze/core/content"
)

// Completion is the durable fact that a user passed a chapter's quiz with a
// perfect score. Unique per (user, chapter); CompletedAt is set once and
// never updated by repeat completions.
type Completion struct {
	UserID      string    `json:"user_id" db:"user_id"`
	ChapterID   string    `json:"chapter_id" db:"chapter_id"`
	CompletedAt time.Time `json:"completed_at" db:"completed_at"` // UTC
}

// ChapterStatus decorates a chapter with the viewing user's unlock state.
type ChapterStatus struct {
	Chapter     content.Chapter `json:"chapter"`
	IsUnlocked  bool            `json:"is_unlocked"`
	IsCompleted bool            `json:"is_completed"`
}
