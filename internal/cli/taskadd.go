package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/models"
)

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Description string `short:"d" help:"Task description."`
	Priority    string `short:"p" help:"Priority." enum:"high,medium,low,none" default:"none"`
	Status      string `short:"s" help:"Initial status." enum:"pending,in_progress,completed" default:"pending"`
	Due         string `short:"D" help:"Due date (YYYY-MM-DD)."`
	Tags        string `short:"t" help:"Comma-separated tags."`
}

func parsePriority(s string) models.TaskPriority {
	if strings.EqualFold(s, "none") {
		return models.PriorityNone
	}
	return models.TaskPriority(strings.ToLower(s))
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	due, err := ctx.parseDue(c.Due)
	if err != nil {
		return err
	}

	in := models.TaskCreate{
		Title:       strings.TrimSpace(c.Title),
		Description: c.Description,
		Status:      models.TaskStatus(c.Status),
		Priority:    parsePriority(c.Priority),
		DueDate:     due,
	}
	if c.Tags != "" {
		in.Tags = splitTags(c.Tags)
	}
	if err := ctx.Validator.ValidateTask(in).Err(); err != nil {
		return err
	}

	rc, cancel := ctx.requestContext()
	defer cancel()
	task, err := ctx.Client.CreateTask(rc, u.ID, in)
	if err != nil {
		return err
	}
	ctx.invalidate(u.ID, tasksPrefix)

	fmt.Fprintf(ctx.stdout(), "Added task: %s (ID: %s)\n", task.Title, task.ID)
	return nil
}
