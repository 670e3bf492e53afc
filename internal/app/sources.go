package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/nhle/worklog-dashboard/internal/cache"
	"github.com/nhle/worklog-dashboard/internal/credential"
	"github.com/nhle/worklog-dashboard/internal/dashboard"
	"github.com/nhle/worklog-dashboard/internal/model"
	"github.com/nhle/worklog-dashboard/internal/source"
	"github.com/nhle/worklog-dashboard/internal/source/jira"
	"github.com/nhle/worklog-dashboard/internal/store"
	"github.com/nhle/worklog-dashboard/internal/ui/setup"
)

// newJiraAdapter builds a Jira worklog source for jc.
func newJiraAdapter(jc model.JiraConfig, token string, log zerolog.Logger) *jira.Adapter {
	client := jira.NewClient(
		jira.BaseURLForDomain(jc.Domain),
		jc.Email,
		token,
		jira.WithLogger(log.With().Str("component", "jira").Logger()),
	)
	return jira.NewAdapter(client, jc.ProjectKeys, jc.Concurrency, log.With().Str("component", "jira").Logger())
}

// OpenService wires the Jira source, snapshot store and cache into a
// dashboard service. The returned close function releases the store.
// When the store cannot be opened the service runs with memory caching
// only.
func OpenService(
	cfg *model.AppConfig,
	token string,
	log zerolog.Logger,
) (*dashboard.Service, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	closeFn := func() error { return nil }
	opts := []cache.Option{cache.WithLogger(log.With().Str("component", "cache").Logger())}

	if cfg.Cache.DBPath != "" {
		s, err := openStore(cfg.Cache.DBPath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Cache.DBPath).Msg("snapshot store unavailable, caching in memory only")
		} else {
			opts = append(opts, cache.WithStore(s))
			closeFn = s.Close
		}
	}

	c := cache.New(cfg.CacheTTL(), opts...)
	if err := c.Prune(context.Background()); err != nil {
		log.Warn().Err(err).Msg("pruning expired snapshots")
	}

	svc := dashboard.NewService(newJiraAdapter(cfg.Jira, token, log), c, log)
	return svc, closeFn, nil
}

func openStore(path string) (*store.SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return store.NewSQLiteStore(path)
}

// LoadToken returns the API token of the configured account.
func LoadToken(cfg *model.AppConfig) (string, error) {
	return credential.Token(cfg.Jira.Email, cfg.Jira.Domain)
}

// ValidateConnection checks a connection by asking Jira who it belongs to.
func ValidateConnection(log zerolog.Logger) setup.ValidateFunc {
	return func(ctx context.Context, c setup.Connection) (*source.Identity, error) {
		jc := c.Jira
		if jc.Concurrency < 1 {
			jc.Concurrency = 1
		}
		return newJiraAdapter(jc, c.Token, log).ValidateConnection(ctx)
	}
}

// SaveConnection stores the token in the keyring and the rest of the
// connection in the config file at path, on top of cfg.
func SaveConnection(path string, cfg *model.AppConfig) setup.SaveFunc {
	return func(c setup.Connection) error {
		if err := credential.SetToken(c.Jira.Email, c.Jira.Domain, c.Token); err != nil {
			return err
		}
		updated := *cfg
		updated.Jira = c.Jira
		return model.SaveConfig(path, &updated)
	}
}
