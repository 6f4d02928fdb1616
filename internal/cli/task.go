package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/sound"
	"github.com/julianstephens/habitual/internal/utils"
)

type TaskCmd struct {
	List     TaskListCmd     `cmd:"" help:"List tasks."`
	Show     TaskShowCmd     `cmd:"" help:"Show a task."`
	Add      TaskAddCmd      `cmd:"" help:"Create a task."`
	Edit     TaskEditCmd     `cmd:"" help:"Edit a task."`
	Complete TaskCompleteCmd `cmd:"" help:"Mark a task as completed."`
	Delete   TaskDeleteCmd   `cmd:"" help:"Delete a task."`
	Tags     TaskTagsCmd     `cmd:"" help:"List every tag in use."`
	Import   TaskImportCmd   `cmd:"" help:"Create tasks (and habits) from a YAML file."`
}

type TaskShowCmd struct {
	ID   string `arg:"" help:"Task ID."`
	JSON bool   `help:"Print raw JSON."`
}

func (c *TaskShowCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	task, err := fetch(ctx, u.ID, taskKey(c.ID), func(rc context.Context) (*models.Task, error) {
		return ctx.Client.GetTask(rc, u.ID, c.ID)
	})
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(ctx, task)
	}

	ctx.println(task.Title)
	ctx.printf("  Status:      %s\n", task.Status)
	ctx.printf("  Priority:    %s\n", task.Priority.Label())
	if task.DueDate != nil {
		ctx.printf("  Due:         %s\n", utils.FormatDueDate(task.DueDate, task.Status, ctx.now()))
	}
	if len(task.Tags) > 0 {
		ctx.printf("  Tags:        %s\n", strings.Join(task.Tags, ", "))
	}
	if d := deref(task.Description); d != "" {
		ctx.printf("  Description: %s\n", d)
	}
	if task.IsHabitTask {
		ctx.printf("  Habit:       %s\n", deref(task.HabitID))
	}
	ctx.printf("  ID:          %s\n", task.ID)
	return nil
}

type TaskEditCmd struct {
	ID          string  `arg:"" help:"Task ID."`
	Title       *string `short:"T" help:"New title."`
	Description *string `short:"d" help:"New description (empty clears)."`
	Priority    *string `short:"p" help:"New priority: high, medium, low or none."`
	Status      *string `short:"s" help:"New status: pending, in_progress or completed."`
	Due         *string `short:"D" help:"New due date (YYYY-MM-DD)."`
	Tags        *string `short:"t" help:"Replace tags with this comma-separated list (empty clears)."`
}

func (c *TaskEditCmd) update(ctx *Context) (models.TaskUpdate, error) {
	var in models.TaskUpdate
	if c.Title != nil {
		t := strings.TrimSpace(*c.Title)
		in.Title = &t
	}
	in.Description = c.Description
	if c.Priority != nil {
		p := parsePriority(*c.Priority)
		in.Priority = &p
	}
	if c.Status != nil {
		s := models.TaskStatus(*c.Status)
		in.Status = &s
	}
	if c.Due != nil {
		due, err := ctx.parseDue(*c.Due)
		if err != nil {
			return in, err
		}
		in.DueDate = due
	}
	if c.Tags != nil {
		in.Tags = splitTags(*c.Tags)
	}

	if in.Title == nil && in.Description == nil && in.Priority == nil &&
		in.Status == nil && in.DueDate == nil && in.Tags == nil {
		return in, errors.New("nothing to change")
	}
	return in, nil
}

func (c *TaskEditCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	in, err := c.update(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Validator.ValidateTaskUpdate(in).Err(); err != nil {
		return err
	}

	rc, cancel := ctx.requestContext()
	defer cancel()
	task, err := ctx.Client.UpdateTask(rc, u.ID, c.ID, in)
	if err != nil {
		return err
	}
	ctx.invalidate(u.ID, tasksPrefix)
	ctx.printf("Updated task: %s\n", task.Title)
	return nil
}

type TaskCompleteCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskCompleteCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	rc, cancel := ctx.requestContext()
	defer cancel()
	task, err := ctx.Client.CompleteTask(rc, u.ID, c.ID)
	if err != nil {
		return err
	}
	sound.PlayCompletion()
	ctx.invalidate(u.ID, tasksPrefix)
	ctx.printf("✓ Completed: %s\n", task.Title)
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	rc, cancel := ctx.requestContext()
	defer cancel()
	if err := ctx.Client.DeleteTask(rc, u.ID, c.ID); err != nil {
		return err
	}
	ctx.invalidate(u.ID, tasksPrefix)
	ctx.printf("Deleted task %s\n", c.ID)
	return nil
}

type TaskTagsCmd struct{}

func (c *TaskTagsCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	tags, err := fetch(ctx, u.ID, tasksPrefix+"/tags", func(rc context.Context) ([]string, error) {
		return ctx.Client.TaskTags(rc, u.ID)
	})
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		ctx.println("No tags yet")
		return nil
	}
	for _, t := range tags {
		ctx.println(t)
	}
	return nil
}

type TaskImportCmd struct {
	ImportFlags `embed:""`
}

func (c *TaskImportCmd) Run(ctx *Context) error {
	input, err := c.load(ctx)
	if err != nil {
		return err
	}
	return c.run(ctx, input)
}
