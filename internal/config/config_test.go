package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	t.Setenv(EnvDataset, "")
	t.Setenv(EnvDB, "")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	t.Setenv(EnvDataset, "")
	t.Setenv(EnvDB, "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	want := DefaultConfig()
	want.General.Dataset = "household"
	want.General.Granularity = "weekly"
	want.General.HorizonDays = 400
	want.Daemon.Interval = "1m"
	want.Appearance.Theme = "tokyo-night"

	if err := SaveFile(path, want); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	t.Setenv(EnvDataset, "")
	t.Setenv(EnvDB, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general]\ngranularity = \"yearly\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.General.Granularity != "yearly" {
		t.Errorf("Granularity = %q, want yearly", cfg.General.Granularity)
	}
	if cfg.General.HorizonDays != 370 || cfg.Daemon.Addr != "127.0.0.1:8787" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadFile_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv(EnvDataset, "travel")
	t.Setenv(EnvDB, "/tmp/other.db")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.General.Dataset != "travel" {
		t.Errorf("Dataset = %q, want travel", cfg.General.Dataset)
	}
	if cfg.General.DBPath != "/tmp/other.db" {
		t.Errorf("DBPath = %q, want /tmp/other.db", cfg.General.DBPath)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg := DefaultConfig()
	cfg.General.Dataset = " "
	cfg.General.Granularity = "daily"
	cfg.General.HorizonDays = -1
	cfg.Daemon.Addr = "nope"
	cfg.Daemon.Interval = "10ms"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"general.dataset", "general.granularity", "general.horizon_days", "daemon.addr", "daemon.interval"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestPollInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Daemon.Interval = "2m"
	if got := cfg.PollInterval(); got != 2*time.Minute {
		t.Errorf("PollInterval() = %v, want 2m", got)
	}
	cfg.Daemon.Interval = "bogus"
	if got := cfg.PollInterval(); got != 30*time.Second {
		t.Errorf("PollInterval() = %v, want 30s fallback", got)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := ConfigPath(); got != filepath.Join("/xdg", "budgetbuddy", "config.toml") {
		t.Errorf("ConfigPath() = %q", got)
	}
}
