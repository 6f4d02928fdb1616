package models

import (
	"encoding/json"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskPriority is high, medium or low; the empty value means no priority
// and is sent to the backend as null.
type TaskPriority string

const (
	PriorityNone   TaskPriority = ""
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// MarshalJSON encodes PriorityNone as null, which is how the backend clears a priority
func (p TaskPriority) MarshalJSON() ([]byte, error) {
	if p == PriorityNone {
		return []byte("null"), nil
	}
	return []byte(`"` + string(p) + `"`), nil
}

// IsValid reports whether p is a known priority or none
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityNone, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Label returns the display name for the priority
func (p TaskPriority) Label() string {
	if p == PriorityNone {
		return "none"
	}
	return string(p)
}

type TaskSort string

const (
	SortCreatedDesc  TaskSort = "created_desc"
	SortCreatedAsc   TaskSort = "created_asc"
	SortDueDateAsc   TaskSort = "due_date_asc"
	SortDueDateDesc  TaskSort = "due_date_desc"
	SortPriorityAsc  TaskSort = "priority_asc"
	SortPriorityDesc TaskSort = "priority_desc"
)

// Task is an ad-hoc to-do item. IsHabitTask marks tasks the backend generated
// from a habit's recurring schedule; HabitID then points at that habit.
type Task struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Tags        []string     `json:"tags"`
	DueDate     *time.Time   `json:"due_date"`
	Completed   bool         `json:"completed"`
	IsHabitTask bool         `json:"is_habit_task,omitempty"`
	HabitID     *string      `json:"habit_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type TaskCreate struct {
	Title       string       `json:"title" yaml:"title" validate:"required,notblank,max=500"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty" validate:"max=5000"`
	Status      TaskStatus   `json:"status,omitempty" yaml:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    TaskPriority `json:"priority,omitempty" yaml:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
	Tags        []string     `json:"tags,omitempty" yaml:"tags,omitempty" validate:"dive,notblank"`
	DueDate     *time.Time   `json:"due_date,omitempty" yaml:"due_date,omitempty"`
}

type TaskUpdate struct {
	Title       *string       `json:"title,omitempty" validate:"omitempty,notblank,max=500"`
	Description *string       `json:"description,omitempty" validate:"omitempty,max=5000"`
	Status      *TaskStatus   `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    *TaskPriority `json:"priority,omitempty" validate:"omitempty,priority"`
	Tags        []string      `json:"tags,omitempty" validate:"omitempty,dive,notblank"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
}

// MarshalJSON leaves tags out when nil; a non-nil empty slice is sent as []
// so the backend clears them
func (u TaskUpdate) MarshalJSON() ([]byte, error) {
	type plain TaskUpdate
	if u.Tags == nil {
		return json.Marshal(plain(u))
	}
	return json.Marshal(struct {
		plain
		Tags []string `json:"tags"`
	}{plain(u), u.Tags})
}

type TaskListResponse struct {
	Tasks []Task `json:"tasks"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}
