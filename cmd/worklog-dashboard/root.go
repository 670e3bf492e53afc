package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nhle/worklog-dashboard/internal/app"
	"github.com/nhle/worklog-dashboard/internal/credential"
	"github.com/nhle/worklog-dashboard/internal/dashboard"
	"github.com/nhle/worklog-dashboard/internal/daterange"
	"github.com/nhle/worklog-dashboard/internal/model"
)

var (
	cfgFile  string
	logLevel string

	// cfg is loaded before any subcommand runs.
	cfg *model.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "worklog-dashboard",
	Short: "Jira worklog dashboard",
	Long: `Worklog Dashboard pulls the worklogs of your Jira projects for a date range
and breaks the logged hours down by project, ticket and team member, in the
terminal, as a text report, or as a JSON API for the browser.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := model.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		cfg = loaded
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", model.DefaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// errNotConnected is returned by commands that need a saved connection.
var errNotConnected = errors.New("no Jira connection configured; run `worklog-dashboard login` first")

// openService opens the dashboard service for the saved connection.
func openService(log zerolog.Logger) (*dashboard.Service, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errNotConnected, err)
	}
	token, err := app.LoadToken(cfg)
	if errors.Is(err, credential.ErrNotFound) || (err == nil && token == "") {
		return nil, nil, errNotConnected
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading API token: %w", err)
	}
	return app.OpenService(cfg, token, log)
}

func sprint() daterange.Sprint {
	return daterange.Sprint{
		StartDate:  cfg.Sprint.StartDate,
		LengthDays: cfg.Sprint.LengthDays,
	}
}
