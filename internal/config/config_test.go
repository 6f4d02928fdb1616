package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "missing.yaml"), Overrides{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIURL != constants.DefaultAPIURL {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Timeout != constants.DefaultHTTPTimeout {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if !cfg.Sound || !cfg.Cache {
		t.Error("sound and cache should default to on")
	}
	if cfg.CachePath() != filepath.Join(dir, "cache.db") {
		t.Errorf("CachePath = %q", cfg.CachePath())
	}
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	path := writeConfig(t, "api_url: https://habits.example.com/\ntimeout: 5s\nsound: false\ntimezone: UTC\n")

	cfg, err := Load(path, Overrides{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIURL != "https://habits.example.com" {
		t.Errorf("trailing slash not trimmed: %q", cfg.APIURL)
	}
	if cfg.Timeout != 5*time.Second || cfg.Sound {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("Location = %v", cfg.Location())
	}

	t.Setenv("HABITUAL_API_URL", "http://env.example.com")
	cfg, err = Load(path, Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "http://env.example.com" {
		t.Errorf("env did not override file: %q", cfg.APIURL)
	}

	on := true
	cfg, err = Load(path, Overrides{APIURL: "http://flag.example.com", Sound: &on, Debug: true})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "http://flag.example.com" || !cfg.Sound || !cfg.Debug {
		t.Errorf("flags did not override: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad url":      "api_url: ftp://nope\n",
		"bad timeout":  "timeout: -1s\n",
		"bad timezone": "timezone: Mars/Olympus\n",
		"bad yaml":     "api_url: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body), Overrides{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandHome("~/.config/habitual")
	if err != nil || got != filepath.Join(home, ".config/habitual") {
		t.Errorf("ExpandHome() = %q, %v", got, err)
	}
	if got, _ := ExpandHome("/etc/x"); got != "/etc/x" {
		t.Errorf("absolute path changed: %q", got)
	}
}
