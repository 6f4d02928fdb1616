package models

import "time"

// CompletionType distinguishes a full completion from the reduced 2-minute version
type CompletionType string

const (
	CompletionFull      CompletionType = "full"
	CompletionTwoMinute CompletionType = "two_minute"
)

// Label returns the text shown next to a completion
func (t CompletionType) Label() string {
	if t == CompletionTwoMinute {
		return "⚡ 2-minute version"
	}
	return "🏆 Full habit"
}

// HabitCompletion records that a habit was performed on a given day
type HabitCompletion struct {
	ID             string         `json:"id"`
	HabitID        string         `json:"habit_id"`
	UserID         string         `json:"user_id"`
	CompletedAt    time.Time      `json:"completed_at"`
	CompletionType CompletionType `json:"completion_type"`
	CreatedAt      time.Time      `json:"created_at"`
}

type CompleteHabitRequest struct {
	CompletionType CompletionType `json:"completion_type"`
}

type CompleteHabitResponse struct {
	CurrentStreak int             `json:"current_streak"`
	Completion    HabitCompletion `json:"completion"`
}

type CompletionHistoryResponse struct {
	Completions []HabitCompletion `json:"completions"`
	Total       int               `json:"total"`
}

type UndoCompletionResponse struct {
	RecalculatedStreak int `json:"recalculated_streak"`
}

// DateRange bounds a completion history query; zero values are open ends
type DateRange struct {
	Start string // YYYY-MM-DD
	End   string // YYYY-MM-DD
}

// IsZero reports whether the range has no bounds
func (r DateRange) IsZero() bool {
	return r.Start == "" && r.End == ""
}
