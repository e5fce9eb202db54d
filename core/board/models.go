package board

type (
	// Entry is one ranked row of the leaderboard.
	Entry struct {
		Rank              int    `json:"rank"`
		UserID            string `json:"user_id" db:"user_id"`
		Username          string `json:"username" db:"username"`
		XP                int    `json:"xp" db:"xp"`
		Level             int    `json:"level" db:"level"`
		CompletedChapters int    `json:"completed_chapters" db:"completed_chapters"`
		TotalAnswers      int    `json:"total_answers" db:"total_answers"`
		IsViewer          bool   `json:"is_viewer"`
	}

	Leaderboard struct {
		Entries    []Entry `json:"entries"`
		ViewerRank *int    `json:"viewer_rank"`

		TotalUsers       int     `json:"total_users"`
		TotalXP          int     `json:"total_xp"`
		TotalCompletions int     `json:"total_completions"`
		AvgLevel         float64 `json:"avg_level"` // 1 decimal place
	}
)
