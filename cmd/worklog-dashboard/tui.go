package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/worklog-dashboard/internal/app"
	"github.com/nhle/worklog-dashboard/internal/dashboard"
	"github.com/nhle/worklog-dashboard/internal/logging"
	"github.com/nhle/worklog-dashboard/internal/model"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal dashboard (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI() error {
	log, closer, err := logging.NewFile(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	deps := app.Deps{
		Config:   cfg,
		Validate: app.ValidateConnection(log),
		Save:     app.SaveConnection(cfgFile, cfg),
		Log:      log.With().Str("component", "app").Logger(),
		Connect: func(c *model.AppConfig, token string) (dashboard.Provider, func() error, error) {
			svc, closeFn, err := app.OpenService(c, token, log)
			if err != nil {
				return nil, nil, err
			}
			return svc, closeFn, nil
		},
	}

	svc, closeFn, err := openService(log)
	switch {
	case err == nil:
		deps.Provider = svc
		deps.Close = closeFn
	case errors.Is(err, errNotConnected):
		// The dashboard starts in setup.
	default:
		return err
	}

	final, err := tea.NewProgram(app.New(deps), tea.WithAltScreen()).Run()
	if m, ok := final.(app.Model); ok {
		if cerr := m.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("closing dashboard")
		}
	}
	if err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
