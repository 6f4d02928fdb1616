package models

import "time"

// HabitCategory is one of the predefined habit categories
type HabitCategory string

const (
	CategoryHealthFitness HabitCategory = "Health & Fitness"
	CategoryProductivity  HabitCategory = "Productivity"
	CategoryMindfulness   HabitCategory = "Mindfulness"
	CategoryLearning      HabitCategory = "Learning"
	CategorySocial        HabitCategory = "Social"
	CategoryFinance       HabitCategory = "Finance"
	CategoryCreative      HabitCategory = "Creative"
	CategoryOther         HabitCategory = "Other"
)

// HabitCategories lists every category in display order
var HabitCategories = []HabitCategory{
	CategoryHealthFitness,
	CategoryProductivity,
	CategoryMindfulness,
	CategoryLearning,
	CategorySocial,
	CategoryFinance,
	CategoryCreative,
	CategoryOther,
}

// IsValid reports whether c is one of the predefined categories
func (c HabitCategory) IsValid() bool {
	for _, known := range HabitCategories {
		if c == known {
			return true
		}
	}
	return false
}

type HabitStatus string

const (
	HabitStatusActive   HabitStatus = "active"
	HabitStatusArchived HabitStatus = "archived"
)

type ScheduleType string

const (
	ScheduleDaily   ScheduleType = "daily"
	ScheduleWeekly  ScheduleType = "weekly"
	ScheduleMonthly ScheduleType = "monthly"
)

// RecurringSchedule is a tagged variant: Days is only meaningful for weekly
// schedules (0=Sunday..6=Saturday) and DayOfMonth only for monthly ones.
type RecurringSchedule struct {
	Type       ScheduleType `json:"type" yaml:"type"`
	Until      string       `json:"until,omitempty" yaml:"until,omitempty"` // YYYY-MM-DD
	Days       []int        `json:"days,omitempty" yaml:"days,omitempty"`
	DayOfMonth int          `json:"day_of_month,omitempty" yaml:"day_of_month,omitempty"`
}

// Habit is a recurring, identity-framed intention
type Habit struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	IdentityStatement string            `json:"identity_statement"`
	FullDescription   *string           `json:"full_description"`
	TwoMinuteVersion  string            `json:"two_minute_version"`
	HabitStackingCue  *string           `json:"habit_stacking_cue"`
	AnchorHabitID     *string           `json:"anchor_habit_id"`
	Motivation        *string           `json:"motivation"`
	Category          HabitCategory     `json:"category"`
	RecurringSchedule RecurringSchedule `json:"recurring_schedule"`
	Status            HabitStatus       `json:"status"`
	CurrentStreak     int               `json:"current_streak"`
	LastCompletedAt   *time.Time        `json:"last_completed_at"`
	ConsecutiveMisses int               `json:"consecutive_misses"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// IsArchived reports whether the habit has been archived
func (h Habit) IsArchived() bool {
	return h.Status == HabitStatusArchived
}

// CompletedOn reports whether the habit's last completion falls on the same
// calendar day as day, evaluated in day's location.
func (h Habit) CompletedOn(day time.Time) bool {
	if h.LastCompletedAt == nil {
		return false
	}
	last := h.LastCompletedAt.In(day.Location())
	y1, m1, d1 := last.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// HabitCreate is the payload for creating a habit
type HabitCreate struct {
	IdentityStatement string            `json:"identity_statement" yaml:"identity_statement" validate:"required,notblank,max=2000"`
	TwoMinuteVersion  string            `json:"two_minute_version" yaml:"two_minute_version" validate:"required,notblank,max=500"`
	Category          HabitCategory     `json:"category" yaml:"category" validate:"category"`
	RecurringSchedule RecurringSchedule `json:"recurring_schedule" yaml:"recurring_schedule"`
	FullDescription   string            `json:"full_description,omitempty" yaml:"full_description,omitempty" validate:"max=5000"`
	HabitStackingCue  string            `json:"habit_stacking_cue,omitempty" yaml:"habit_stacking_cue,omitempty" validate:"max=500"`
	AnchorHabitID     string            `json:"anchor_habit_id,omitempty" yaml:"anchor_habit_id,omitempty" validate:"omitempty,uuid"`
	Motivation        string            `json:"motivation,omitempty" yaml:"motivation,omitempty" validate:"max=2000"`
}

// HabitUpdate is a partial update; nil fields are left untouched by the backend
type HabitUpdate struct {
	IdentityStatement *string            `json:"identity_statement,omitempty" validate:"omitempty,notblank,max=2000"`
	FullDescription   *string            `json:"full_description,omitempty" validate:"omitempty,max=5000"`
	TwoMinuteVersion  *string            `json:"two_minute_version,omitempty" validate:"omitempty,notblank,max=500"`
	HabitStackingCue  *string            `json:"habit_stacking_cue,omitempty" validate:"omitempty,max=500"`
	AnchorHabitID     *string            `json:"anchor_habit_id,omitempty" validate:"omitempty,uuid"`
	Motivation        *string            `json:"motivation,omitempty" validate:"omitempty,max=2000"`
	Category          *HabitCategory     `json:"category,omitempty" validate:"omitempty,category"`
	RecurringSchedule *RecurringSchedule `json:"recurring_schedule,omitempty"`
	Status            *HabitStatus       `json:"status,omitempty" validate:"omitempty,oneof=active archived"`
}

// HabitListResponse is a page of habits
type HabitListResponse struct {
	Habits []Habit `json:"habits"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

// StreakInfo is the backend's view of a habit's streak
type StreakInfo struct {
	HabitID           string     `json:"habit_id"`
	CurrentStreak     int        `json:"current_streak"`
	LastCompletedAt   *time.Time `json:"last_completed_at"`
	ConsecutiveMisses int        `json:"consecutive_misses"`
}
