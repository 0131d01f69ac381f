package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing config must not fail: %v", err)
	}
	if cfg.Play.App != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigParsesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[play]
app = "vocab"
focus = "slow"
round-size = 15

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Play.App == nil || *cfg.Play.App != "vocab" {
		t.Fatalf("unexpected app: %v", cfg.Play.App)
	}
	if cfg.Play.Focus == nil || *cfg.Play.Focus != "slow" {
		t.Fatalf("unexpected focus: %v", cfg.Play.Focus)
	}
	if cfg.Play.RoundSize == nil || *cfg.Play.RoundSize != 15 {
		t.Fatalf("unexpected round size: %v", cfg.Play.RoundSize)
	}
	if cfg.Play.Mode != nil {
		t.Fatalf("mode should be unset")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[play\napp ="), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TUICARDS_LOG_LEVEL", "warn")
	t.Setenv("TUICARDS_DB", "/tmp/x.db")
	cfg, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("unexpected log level %q", cfg.LogLevel)
	}
	if cfg.ResolveDBPath() != "/tmp/x.db" {
		t.Fatalf("unexpected db path %q", cfg.ResolveDBPath())
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	if got := DefaultConfigPath(); got != filepath.Join(dir, "tuicards", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join(dir, "tuicards", "tuicards.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join(dir, "tuicards", "tuicards.log") {
		t.Fatalf("unexpected log path %q", got)
	}
	if got := (EnvConfig{}).ResolveDBPath(); got != DefaultDBPath() {
		t.Fatalf("unexpected resolved db path %q", got)
	}
}
