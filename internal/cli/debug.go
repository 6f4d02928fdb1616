package cli

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/logger"
)

type DebugCmd struct {
	Paths     *DebugPathsCmd     `cmd:"" help:"Show config, log and cache paths."`
	DumpHabit *DebugDumpHabitCmd `cmd:"" help:"Dump habit data as JSON."`
	DumpTask  *DebugDumpTaskCmd  `cmd:"" help:"Dump task data as JSON."`
}

type DebugPathsCmd struct{}

func (cmd *DebugPathsCmd) Run(ctx *Context) error {
	// machine-readable output
	return printJSON(ctx, map[string]string{
		"config_dir": ctx.Config.Dir,
		"log":        logger.Path(ctx.Config.Dir),
		"cache":      ctx.Config.CachePath(),
		"api_url":    ctx.Config.APIURL,
	})
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	rc, cancel := ctx.requestContext()
	defer cancel()

	h, err := ctx.Client.GetHabit(rc, u.ID, cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to get habit: %w", err)
	}
	return printJSON(ctx, h)
}

type DebugDumpTaskCmd struct {
	ID string `arg:"" help:"ID of the task to dump."`
}

func (cmd *DebugDumpTaskCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	rc, cancel := ctx.requestContext()
	defer cancel()

	task, err := ctx.Client.GetTask(rc, u.ID, cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	return printJSON(ctx, task)
}
