package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitual/internal/api"
	"github.com/julianstephens/habitual/internal/cache"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/session"
	"github.com/julianstephens/habitual/internal/sound"
	"github.com/julianstephens/habitual/internal/validation"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"~/.config/habitual/config.yaml"`
	APIURL  string `name:"api-url" help:"Backend base URL." env:"HABITUAL_API_URL"`
	Debug   bool   `help:"Log debug output to stderr."`
	NoSound bool   `help:"Disable the completion sound."`

	Auth     cli.AuthCmd     `cmd:"" help:"Register, log in and out."`
	Habit    cli.HabitCmd    `cmd:"" help:"Manage habits."`
	Task     cli.TaskCmd     `cmd:"" help:"Manage tasks."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"withargs"`
	Validate cli.ValidateCmd `cmd:"" help:"Check a YAML import file."`
	Cache    cli.CacheCmd    `cmd:"" help:"Inspect or clear the offline cache."`
	Init     cli.InitCmd     `cmd:"" help:"Write a default config file."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks."`
	Dbg      cli.DebugCmd    `cmd:"" name:"debug" help:"Debugging helpers."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Identity-based habit and task tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, NoExpandSubcommands: true}),
		kong.Vars{"version": constants.Version},
	)

	appCtx, err := setup()
	if err != nil {
		errors.Fatal(err)
	}
	defer appCtx.Close()

	if err := ctx.Run(appCtx); err != nil {
		appCtx.Close()
		errors.Fatal(err)
	}
}

func setup() (*cli.Context, error) {
	overrides := config.Overrides{APIURL: CLI.APIURL, Debug: CLI.Debug}
	if CLI.NoSound {
		off := false
		overrides.Sound = &off
	}
	cfg, err := config.Load(CLI.Config, overrides)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.Dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	sound.SetEnabled(cfg.Sound)

	client, err := api.New(cfg.APIURL, api.WithTimeout(cfg.Timeout))
	if err != nil {
		return nil, err
	}

	var store *cache.Store
	opts := []session.Option{}
	if cfg.Cache {
		store, err = cache.Open(context.Background(), cfg.CachePath())
		if err != nil {
			logger.Warn("Cache unavailable", "path", cfg.CachePath(), "error", err)
			fmt.Fprintf(os.Stderr, "Warning: offline cache disabled: %v\n", err)
			store = nil
		} else {
			opts = append(opts, session.WithUserCache(store))
		}
	}

	return &cli.Context{
		Config:     cfg,
		ConfigPath: CLI.Config,
		Client:     client,
		Session:    session.NewManager(client, keyring.New(cfg.KeyringAccount), opts...),
		Cache:      store,
		Validator:  validation.New(),
	}, nil
}
