package content

import "time"

// Badge categories (explicit authoring-time data; nothing is inferred from names).
const (
	BadgeCategoryChapter = "chapter"
	BadgeCategoryQuiz    = "quiz"
	BadgeCategoryXP      = "xp"
)

type (
	// Chapter is an ordered unit of content. Order values define the unlock
	// sequence and are expected to be contiguous starting at 1; the engine
	// does not repair gaps or duplicates (see progress.Service).
	Chapter struct {
		ID        string    `json:"id" db:"id"`
		Title     string    `json:"title" db:"title"`
		Content   string    `json:"content" db:"content"`
		Order     int       `json:"order" db:"ord"`
		CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	}

	// Quiz belongs to exactly one Chapter. A chapter may hold several quizzes
	// but only the first one is used for grading.
	Quiz struct {
		ID        string `json:"id" db:"id"`
		ChapterID string `json:"chapter_id" db:"chapter_id"`
		Title     string `json:"title" db:"title"`
	}

	Option struct {
		ID         string `json:"id" db:"id"`
		QuestionID string `json:"question_id" db:"question_id"`
		Position   int    `json:"position" db:"position"` // 1-based
		Text       string `json:"text" db:"option_text"`
		IsCorrect  bool   `json:"is_correct" db:"is_correct"`
	}

	// Question owns an ordered list of Options, exactly one of which is correct.
	Question struct {
		ID       string   `json:"id" db:"id"`
		QuizID   string   `json:"quiz_id" db:"quiz_id"`
		Text     string   `json:"text" db:"question_text"`
		Position int      `json:"position" db:"position"`
		Options  []Option `json:"options" db:"-"`
	}

	Badge struct {
		ID          string `json:"id" db:"id"`
		Name        string `json:"name" db:"name"`
		Description string `json:"description" db:"description"`
		Icon        string `json:"icon" db:"icon"`
		Category    string `json:"category" db:"category"`
	}

	// Achievement is a named milestone optionally tied to an XP threshold
	// or a specific Chapter.
	Achievement struct {
		ID          string  `json:"id" db:"id"`
		Name        string  `json:"name" db:"name"`
		Description string  `json:"description" db:"description"`
		XPRequired  *int    `json:"xp_required" db:"xp_required"`
		ChapterID   *string `json:"chapter_id" db:"chapter_id"`
	}
)

// CorrectOption returns the question's designated correct option.
func (q Question) CorrectOption() (Option, bool) {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt, true
		}
	}
	return Option{}, false
}

// OptionCount reports the number of options attached to the question.
func (q Question) OptionCount() int { return len(q.Options) }
