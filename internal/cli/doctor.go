package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/habitual/internal/api"
	"github.com/julianstephens/habitual/internal/keyring"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(ctx *Context) error
	// warn marks checks whose failure does not fail the command
	warn bool
}

var doctorChecks = []check{
	{name: "Config", run: checkConfig},
	{name: "Keyring available", run: checkKeyring},
	{name: "Backend reachable", run: checkBackend},
	{name: "Session", run: checkSession, warn: true},
	{name: "Cache schema", run: checkCache, warn: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	for _, c := range doctorChecks {
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", c.name)
		case c.warn:
			ctx.printf("⚠ %s: WARNING\n", c.name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("❌ %s: FAIL\n", c.name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkConfig(ctx *Context) error {
	if err := ctx.Config.Validate(); err != nil {
		return err
	}
	if _, err := os.Stat(ctx.Config.Dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("config directory %s: %w", ctx.Config.Dir, err)
	}
	return nil
}

var keyringAvailable = keyring.IsAvailable

func checkKeyring(*Context) error {
	if !keyringAvailable() {
		return fmt.Errorf("no usable OS keyring; sessions cannot be saved")
	}
	return nil
}

// checkBackend treats any HTTP response, including 401, as reachable
func checkBackend(ctx *Context) error {
	rc, cancel := ctx.requestContext()
	defer cancel()
	if _, err := ctx.Client.Me(rc); err != nil && api.IsNetwork(err) {
		return fmt.Errorf("%s: %w", ctx.Client.BaseURL(), err)
	}
	return nil
}

func checkSession(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	ctx.printf("   Logged in as %s\n", u.Email)
	return nil
}

func checkCache(ctx *Context) error {
	if ctx.Cache == nil {
		if ctx.Config.Cache {
			return fmt.Errorf("cache enabled but %s could not be opened", ctx.Config.CachePath())
		}
		return nil
	}
	current, latest, err := ctx.Cache.SchemaVersion(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current != latest {
		return fmt.Errorf("cache schema at version %d, latest is %d", current, latest)
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Config.Location() == time.UTC {
		ctx.println("   Note: timezone is UTC")
	}
	return nil
}
