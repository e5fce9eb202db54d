package grading

import "time"

// XPPerCorrectAnswer is the fixed XP reward rate, one constant for the whole
// system.
const XPPerCorrectAnswer = 10

type (
	// Answer is an immutable record of one submitted answer. Append-only:
	// resubmitting a quiz creates additional records rather than overwriting.
	Answer struct {
		ID             string    `json:"id" db:"id"`
		UserID         string    `json:"user_id" db:"user_id"`
		QuestionID     string    `json:"question_id" db:"question_id"`
		SelectedOption int       `json:"selected_option" db:"selected_option"` // 1-based position
		IsCorrect      bool      `json:"is_correct" db:"is_correct"`
		AnsweredAt     time.Time `json:"answered_at" db:"answered_at"` // UTC
	}

	// Submission maps question ID to the selected option position (1-based).
	// Questions absent from the map count as unanswered.
	Submission map[string]int

	GradeResult struct {
		CorrectCount    int      `json:"correct_count"`
		TotalQuestions  int      `json:"total_questions"`
		ScorePercent    int      `json:"score_percent"`
		XPEarned        int      `json:"xp_earned"`
		Level           int      `json:"level"`
		ChapterDone     bool     `json:"chapter_completed"`
		NewBadges       []string `json:"new_badges"`
		NewAchievements []string `json:"new_achievements"`
	}
)

// Perfect reports whether the quiz was fully correct and non-empty.
func (r GradeResult) Perfect() bool {
	return r.TotalQuestions > 0 && r.CorrectCount == r.TotalQuestions
}
