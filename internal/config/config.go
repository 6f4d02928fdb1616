package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/julianstephens/habitual/internal/constants"
)

// Config is the resolved runtime configuration. Values come from, in
// increasing priority: defaults, the YAML config file, HABITUAL_*
// environment variables and explicit command line flags.
type Config struct {
	APIURL         string        `mapstructure:"api_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Sound          bool          `mapstructure:"sound"`
	Cache          bool          `mapstructure:"cache"`
	Debug          bool          `mapstructure:"debug"`
	Timezone       string        `mapstructure:"timezone"`
	KeyringAccount string        `mapstructure:"keyring_account"`

	// Dir holds the config file, logs and the cache database
	Dir string `mapstructure:"-"`
}

// Overrides are flag values; empty/nil fields leave the loaded value alone
type Overrides struct {
	APIURL string
	Debug  bool
	Sound  *bool
}

// ExpandHome replaces a leading "~" with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("api_url", constants.DefaultAPIURL)
	v.SetDefault("timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("sound", true)
	v.SetDefault("cache", true)
	v.SetDefault("debug", false)
	v.SetDefault("timezone", "Local")
	v.SetDefault("keyring_account", constants.DefaultKeyringUser)

	v.SetEnvPrefix(strings.ToUpper(constants.AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from path (a YAML file) and the environment.
// A missing config file is not an error.
func Load(path string, o Overrides) (*Config, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Dir = filepath.Dir(path)

	if o.APIURL != "" {
		cfg.APIURL = o.APIURL
	}
	if o.Debug {
		cfg.Debug = true
	}
	if o.Sound != nil {
		cfg.Sound = *o.Sound
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later in confusing ways
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api_url %q: must be an http(s) URL", c.APIURL)
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s: must be positive", c.Timeout)
	}
	if _, err := time.LoadLocation(c.timezoneName()); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

func (c *Config) timezoneName() string {
	if c.Timezone == "" {
		return "Local"
	}
	return c.Timezone
}

// Location returns the configured display timezone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.timezoneName())
	if err != nil {
		return time.Local
	}
	return loc
}

// CachePath is where the snapshot cache database lives
func (c *Config) CachePath() string {
	return filepath.Join(c.Dir, "cache.db")
}
