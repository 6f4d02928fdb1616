package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type InitCmd struct {
	Force bool `short:"f" help:"Overwrite an existing config file."`
}

// fileConfig is the on-disk shape of config.yaml
type fileConfig struct {
	APIURL         string `yaml:"api_url"`
	Timeout        string `yaml:"timeout"`
	Sound          bool   `yaml:"sound"`
	Cache          bool   `yaml:"cache"`
	Debug          bool   `yaml:"debug"`
	Timezone       string `yaml:"timezone"`
	KeyringAccount string `yaml:"keyring_account"`
}

func (c *InitCmd) Run(ctx *Context) error {
	path := ctx.ConfigPath
	if path == "" {
		path = filepath.Join(ctx.Config.Dir, "config.yaml")
	}
	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg := ctx.Config
	out, err := yaml.Marshal(fileConfig{
		APIURL:         cfg.APIURL,
		Timeout:        cfg.Timeout.String(),
		Sound:          cfg.Sound,
		Cache:          cfg.Cache,
		Debug:          cfg.Debug,
		Timezone:       cfg.Timezone,
		KeyringAccount: cfg.KeyringAccount,
	})
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	ctx.printf("Wrote config to: %s\n", path)
	return nil
}
