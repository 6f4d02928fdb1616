package cli

import (
	"context"

	"github.com/julianstephens/habitual/internal/utils"
)

type CacheCmd struct {
	Clear CacheClearCmd `cmd:"" help:"Delete every cached snapshot."`
	List  CacheListCmd  `cmd:"" help:"List cached snapshots for the logged in user."`
}

type CacheClearCmd struct{}

func (c *CacheClearCmd) Run(ctx *Context) error {
	if ctx.Cache == nil {
		ctx.println("Cache is disabled")
		return nil
	}
	n, err := ctx.Cache.Clear(context.Background())
	if err != nil {
		return err
	}
	ctx.printf("Removed %d cached %s\n", n, utils.Plural(int(n), "entry", "entries"))
	return nil
}

type CacheListCmd struct{}

func (c *CacheListCmd) Run(ctx *Context) error {
	if ctx.Cache == nil {
		ctx.println("Cache is disabled")
		return nil
	}
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	keys, err := ctx.Cache.Keys(context.Background(), u.ID)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		ctx.println("Cache is empty")
		return nil
	}
	for _, k := range keys {
		ctx.println(k)
	}
	return nil
}
