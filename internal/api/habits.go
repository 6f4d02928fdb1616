package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/julianstephens/habitual/internal/models"
)

func habitsPath(userID string, parts ...string) string {
	p := "/api/" + url.PathEscape(userID) + "/habits"
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (c *Client) ListHabits(ctx context.Context, userID string, f models.HabitFilters) (*models.HabitListResponse, error) {
	var out models.HabitListResponse
	if err := c.do(ctx, http.MethodGet, habitsPath(userID), f.Query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetHabit(ctx context.Context, userID, habitID string) (*models.Habit, error) {
	var out models.Habit
	if err := c.do(ctx, http.MethodGet, habitsPath(userID, habitID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateHabit(ctx context.Context, userID string, in models.HabitCreate) (*models.Habit, error) {
	var out models.Habit
	if err := c.do(ctx, http.MethodPost, habitsPath(userID), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateHabit(ctx context.Context, userID, habitID string, in models.HabitUpdate) (*models.Habit, error) {
	var out models.Habit
	if err := c.do(ctx, http.MethodPatch, habitsPath(userID, habitID), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteHabit removes a habit. Without force the backend refuses to delete
// a habit other habits use as their anchor.
func (c *Client) DeleteHabit(ctx context.Context, userID, habitID string, force bool) error {
	var q url.Values
	if force {
		q = url.Values{"force": {"true"}}
	}
	return c.do(ctx, http.MethodDelete, habitsPath(userID, habitID), q, nil, nil)
}

func (c *Client) ArchiveHabit(ctx context.Context, userID, habitID string) (*models.Habit, error) {
	var out models.Habit
	if err := c.do(ctx, http.MethodPost, habitsPath(userID, habitID, "archive"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RestoreHabit(ctx context.Context, userID, habitID string) (*models.Habit, error) {
	var out models.Habit
	if err := c.do(ctx, http.MethodPost, habitsPath(userID, habitID, "restore"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteHabit records today's completion. A habit already completed today
// yields an error for which IsConflict is true.
func (c *Client) CompleteHabit(ctx context.Context, userID, habitID string, t models.CompletionType) (*models.CompleteHabitResponse, error) {
	var out models.CompleteHabitResponse
	in := models.CompleteHabitRequest{CompletionType: t}
	if err := c.do(ctx, http.MethodPost, habitsPath(userID, habitID, "complete"), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) HabitStreak(ctx context.Context, userID, habitID string) (*models.StreakInfo, error) {
	var out models.StreakInfo
	if err := c.do(ctx, http.MethodGet, habitsPath(userID, habitID, "streak"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompletionHistory lists completions, optionally bounded by a date range
func (c *Client) CompletionHistory(ctx context.Context, userID, habitID string, r models.DateRange) (*models.CompletionHistoryResponse, error) {
	q := url.Values{}
	if r.Start != "" {
		q.Set("start_date", r.Start)
	}
	if r.End != "" {
		q.Set("end_date", r.End)
	}
	var out models.CompletionHistoryResponse
	if err := c.do(ctx, http.MethodGet, habitsPath(userID, habitID, "completions"), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UndoCompletion deletes one completion and returns the recalculated streak
func (c *Client) UndoCompletion(ctx context.Context, userID, habitID, completionID string) (*models.UndoCompletionResponse, error) {
	var out models.UndoCompletionResponse
	if err := c.do(ctx, http.MethodDelete, habitsPath(userID, habitID, "completions", completionID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
