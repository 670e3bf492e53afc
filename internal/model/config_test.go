package model

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Jira.Concurrency != 4 || cfg.Sprint.LengthDays != 14 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.CacheTTL() != 5*time.Minute {
		t.Errorf("expected 5m cache TTL, got %s", cfg.CacheTTL())
	}
	if cfg.Server.Addr != ":8080" || cfg.Log.Level != "info" {
		t.Errorf("unexpected server/log defaults %+v %+v", cfg.Server, cfg.Log)
	}
	if cfg.RefreshInterval() != 0 {
		t.Errorf("expected refresh disabled by default")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := defaultAppConfig()
	cfg.Jira.Domain = "acme"
	cfg.Jira.Email = "me@acme.com"
	cfg.Jira.ProjectKeys = []string{"PROJ", "OPS"}
	cfg.Sprint.StartDate = "2025-01-06"
	cfg.Display.RefreshIntervalSec = 60

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("saving config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if loaded.Jira.Domain != "acme" || loaded.Jira.Email != "me@acme.com" {
		t.Errorf("unexpected jira config %+v", loaded.Jira)
	}
	if strings.Join(loaded.Jira.ProjectKeys, ",") != "PROJ,OPS" {
		t.Errorf("unexpected project keys %v", loaded.Jira.ProjectKeys)
	}
	if loaded.Sprint.StartDate != "2025-01-06" || loaded.RefreshInterval() != time.Minute {
		t.Errorf("unexpected sprint/display config %+v %+v", loaded.Sprint, loaded.Display)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("WORKLOG_JIRA_DOMAIN", "envsite")
	t.Setenv("WORKLOG_JIRA_PROJECT_KEYS", "abc, def")
	t.Setenv("WORKLOG_CACHE_TTL_SEC", "60")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Jira.Domain != "envsite" {
		t.Errorf("expected domain from env, got %q", cfg.Jira.Domain)
	}
	if strings.Join(cfg.Jira.ProjectKeys, ",") != "ABC,DEF" {
		t.Errorf("expected normalized keys from env, got %v", cfg.Jira.ProjectKeys)
	}
	if cfg.CacheTTL() != time.Minute {
		t.Errorf("expected TTL from env, got %s", cfg.CacheTTL())
	}
}

func TestValidate(t *testing.T) {
	cfg := defaultAppConfig()
	cfg.Jira.Domain = "acme"
	cfg.Jira.Email = "me@acme.com"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	bad := defaultAppConfig()
	bad.Jira.Email = "not-an-email"
	bad.Jira.Concurrency = 0
	bad.Sprint.StartDate = "06/01/2025"

	err := bad.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"jira.domain", "jira.email", "jira.concurrency", "sprint.start_date"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got %v", want, err)
		}
	}
}
