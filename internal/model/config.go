package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// WORKLOG_JIRA_DOMAIN overrides jira.domain.
const EnvPrefix = "WORKLOG"

// JiraConfig holds the Jira Cloud site and the projects to report on.
type JiraConfig struct {
	// Domain is the site name, with or without ".atlassian.net".
	Domain string `mapstructure:"domain" yaml:"domain"`

	// Email is the account email used for Basic auth.
	Email string `mapstructure:"email" yaml:"email"`

	// ProjectKeys limits the search to these projects. Empty means all
	// projects visible to the account.
	ProjectKeys []string `mapstructure:"project_keys" yaml:"project_keys"`

	// Concurrency bounds parallel worklog requests.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// SprintConfig anchors the sprint presets.
type SprintConfig struct {
	StartDate  string `mapstructure:"start_date" yaml:"start_date"`
	LengthDays int    `mapstructure:"length_days" yaml:"length_days"`
}

// CacheConfig controls how long fetched ranges are reused.
type CacheConfig struct {
	TTLSec int    `mapstructure:"ttl_sec" yaml:"ttl_sec"`
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// RefreshIntervalSec re-requests the current range periodically.
	// Zero disables refreshing.
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
}

// LogConfig controls log verbosity and destination.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Jira    JiraConfig    `mapstructure:"jira" yaml:"jira"`
	Sprint  SprintConfig  `mapstructure:"sprint" yaml:"sprint"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// ConfigDir returns ~/.config/worklog-dashboard.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "worklog-dashboard")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/worklog-dashboard/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Jira: JiraConfig{
			ProjectKeys: []string{},
			Concurrency: 4,
		},
		Sprint: SprintConfig{
			LengthDays: 14,
		},
		Cache: CacheConfig{
			TTLSec: 300,
			DBPath: filepath.Join(ConfigDir(), "worklogs.db"),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(ConfigDir(), "worklog-dashboard.log"),
		},
	}
}

// setDefaults registers every key so that environment overrides apply
// even when the file does not mention the key.
func setDefaults(v *viper.Viper, cfg *AppConfig) {
	v.SetDefault("jira.domain", cfg.Jira.Domain)
	v.SetDefault("jira.email", cfg.Jira.Email)
	v.SetDefault("jira.project_keys", cfg.Jira.ProjectKeys)
	v.SetDefault("jira.concurrency", cfg.Jira.Concurrency)
	v.SetDefault("sprint.start_date", cfg.Sprint.StartDate)
	v.SetDefault("sprint.length_days", cfg.Sprint.LengthDays)
	v.SetDefault("cache.ttl_sec", cfg.Cache.TTLSec)
	v.SetDefault("cache.db_path", cfg.Cache.DBPath)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("display.refresh_interval_sec", cfg.Display.RefreshIntervalSec)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

// LoadConfig reads configuration from the given YAML file path using Viper,
// then applies WORKLOG_* environment overrides. A missing file yields the
// defaults.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, defaultAppConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Jira.ProjectKeys = normalizeKeys(cfg.Jira.ProjectKeys)

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("jira", map[string]any{
		"domain":       cfg.Jira.Domain,
		"email":        cfg.Jira.Email,
		"project_keys": cfg.Jira.ProjectKeys,
		"concurrency":  cfg.Jira.Concurrency,
	})
	v.Set("sprint", map[string]any{
		"start_date":  cfg.Sprint.StartDate,
		"length_days": cfg.Sprint.LengthDays,
	})
	v.Set("cache", map[string]any{
		"ttl_sec": cfg.Cache.TTLSec,
		"db_path": cfg.Cache.DBPath,
	})
	v.Set("server", map[string]any{"addr": cfg.Server.Addr})
	v.Set("display", map[string]any{"refresh_interval_sec": cfg.Display.RefreshIntervalSec})
	v.Set("log", map[string]any{"level": cfg.Log.Level, "file": cfg.Log.File})

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// Validate reports every problem with the configuration at once.
func (c *AppConfig) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.Jira.Domain) == "" {
		result = multierror.Append(result, errors.New("jira.domain is required"))
	}
	if email := strings.TrimSpace(c.Jira.Email); email == "" {
		result = multierror.Append(result, errors.New("jira.email is required"))
	} else if !strings.Contains(email, "@") {
		result = multierror.Append(result, fmt.Errorf("jira.email %q is not an email address", email))
	}
	if c.Jira.Concurrency < 1 {
		result = multierror.Append(result, fmt.Errorf("jira.concurrency must be at least 1, got %d", c.Jira.Concurrency))
	}
	if c.Sprint.StartDate != "" {
		if _, err := time.Parse("2006-01-02", c.Sprint.StartDate); err != nil {
			result = multierror.Append(result, fmt.Errorf("sprint.start_date %q must be YYYY-MM-DD", c.Sprint.StartDate))
		}
	}
	if c.Sprint.LengthDays < 1 {
		result = multierror.Append(result, fmt.Errorf("sprint.length_days must be at least 1, got %d", c.Sprint.LengthDays))
	}
	if c.Cache.TTLSec < 0 {
		result = multierror.Append(result, fmt.Errorf("cache.ttl_sec must not be negative, got %d", c.Cache.TTLSec))
	}
	if c.Display.RefreshIntervalSec < 0 {
		result = multierror.Append(result, fmt.Errorf("display.refresh_interval_sec must not be negative, got %d", c.Display.RefreshIntervalSec))
	}

	return result.ErrorOrNil()
}

// CacheTTL returns the cache lifetime as a duration.
func (c *AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSec) * time.Second
}

// RefreshInterval returns the periodic refresh interval, zero when off.
func (c *AppConfig) RefreshInterval() time.Duration {
	return time.Duration(c.Display.RefreshIntervalSec) * time.Second
}

// normalizeKeys upper-cases project keys and drops blanks. Keys given as
// one comma-separated string (as from an env var) are split.
func normalizeKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, part := range strings.Split(k, ",") {
			part = strings.ToUpper(strings.TrimSpace(part))
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
