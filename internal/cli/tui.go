package cli

import (
	"errors"

	"github.com/julianstephens/habitual/internal/session"
	"github.com/julianstephens/habitual/internal/tui"
)

type TuiCmd struct {
	Path string `arg:"" optional:"" help:"Screen to open, e.g. /habits or /tasks/new."`
}

func (c *TuiCmd) Run(ctx *Context) error {
	// without a session the TUI starts on the login screen
	if err := ctx.RestoreSession(); err != nil &&
		!errors.Is(err, ErrLoginRequired) && !errors.Is(err, session.ErrExpired) {
		return err
	}

	return tui.Run(tui.Options{
		Backend:   ctx.Client,
		Session:   ctx.Session,
		Timeout:   ctx.Config.Timeout,
		Location:  ctx.Config.Location(),
		StartPath: c.Path,
		Now:       ctx.Now,
	})
}
