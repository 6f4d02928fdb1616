package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/julianstephens/habitual/internal/models"
)

func tasksPath(userID string, parts ...string) string {
	p := "/api/" + url.PathEscape(userID) + "/tasks"
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (c *Client) ListTasks(ctx context.Context, userID string, f models.TaskFilters) (*models.TaskListResponse, error) {
	var out models.TaskListResponse
	if err := c.do(ctx, http.MethodGet, tasksPath(userID), f.Query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, http.MethodGet, tasksPath(userID, taskID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTask(ctx context.Context, userID string, in models.TaskCreate) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, http.MethodPost, tasksPath(userID), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, userID, taskID string, in models.TaskUpdate) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, http.MethodPatch, tasksPath(userID, taskID), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteTask toggles the completed flag on the backend
func (c *Client) CompleteTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, http.MethodPatch, tasksPath(userID, taskID, "complete"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, userID, taskID string) error {
	return c.do(ctx, http.MethodDelete, tasksPath(userID, taskID), nil, nil, nil)
}

// TaskTags returns every tag in use across the user's tasks
func (c *Client) TaskTags(ctx context.Context, userID string) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, tasksPath(userID, "tags"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
