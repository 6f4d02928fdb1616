package cli

import (
	"context"
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

type TaskListCmd struct {
	Status   string `short:"s" help:"Only tasks with this status." enum:"pending,in_progress,completed,all" default:"all"`
	Priority string `short:"p" help:"Only tasks with this priority." enum:"high,medium,low,all" default:"all"`
	Tags     string `short:"t" help:"Only tasks carrying any of these comma-separated tags."`
	Search   string `short:"q" help:"Search titles and descriptions."`
	Sort     string `help:"Sort order." enum:"created_desc,created_asc,due_date_asc,due_date_desc,priority_asc,priority_desc" default:"created_desc"`
	Page     int    `help:"Page number." default:"1"`
	Limit    int    `help:"Tasks per page." default:"20"`
	JSON     bool   `help:"Print raw JSON."`
}

func (c *TaskListCmd) filters() models.TaskFilters {
	f := models.TaskFilters{
		Tags:   strings.Join(splitTags(c.Tags), ","),
		Search: strings.TrimSpace(c.Search),
		Sort:   models.TaskSort(c.Sort),
		Page:   c.Page,
		Limit:  c.Limit,
	}
	if c.Status != "all" {
		f.Status = models.TaskStatus(c.Status)
	}
	if c.Priority != "all" {
		f.Priority = models.TaskPriority(c.Priority)
	}
	if f.Limit <= 0 {
		f.Limit = constants.DefaultTaskPageLimit
	}
	return f
}

func (c *TaskListCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}

	f := c.filters()
	resp, err := fetch(ctx, u.ID, f.Key(), func(rc context.Context) (*models.TaskListResponse, error) {
		return ctx.Client.ListTasks(rc, u.ID, f)
	})
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(ctx, resp)
	}

	if len(resp.Tasks) == 0 {
		ctx.println("No tasks found")
		return nil
	}

	now := ctx.now()
	ctx.println("Tasks:")
	for _, task := range resp.Tasks {
		mark := "[ ]"
		switch task.Status {
		case models.TaskStatusCompleted:
			mark = "[x]"
		case models.TaskStatusInProgress:
			mark = "[~]"
		}
		ctx.printf("  %s %s\n", mark, utils.Truncate(task.Title, 70))

		details := []string{task.Priority.Label() + " priority"}
		if task.DueDate != nil {
			details = append(details, utils.FormatDueDate(task.DueDate, task.Status, now))
		}
		if len(task.Tags) > 0 {
			details = append(details, "#"+strings.Join(task.Tags, " #"))
		}
		ctx.printf("      %s (ID: %s)\n", strings.Join(details, " · "), task.ID)
	}

	if pages := (resp.Total + f.Limit - 1) / f.Limit; pages > 1 {
		ctx.printf("Page %d of %d (%d tasks)\n", max(f.Page, 1), pages, resp.Total)
	}
	return nil
}
