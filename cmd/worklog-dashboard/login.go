package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/worklog-dashboard/internal/app"
	"github.com/nhle/worklog-dashboard/internal/logging"
	"github.com/nhle/worklog-dashboard/internal/ui/setup"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Configure the Jira site, account and API token",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closer, err := logging.NewFile(cfg.Log)
		if err != nil {
			return err
		}
		defer closer.Close()

		m := loginModel{
			setup: setup.New(app.ValidateConnection(log), app.SaveConnection(cfgFile, cfg), 80, 24),
		}
		m.start = m.setup.Start(cfg.Jira)
		final, err := tea.NewProgram(m).Run()
		if err != nil {
			return fmt.Errorf("running login: %w", err)
		}

		done := final.(loginModel).done
		if done == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Login cancelled.")
			return nil
		}
		name := done.Connection.Jira.Email
		if done.Identity != nil && done.Identity.DisplayName != "" {
			name = done.Identity.DisplayName
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s as %s. Settings saved to %s.\n",
			done.Connection.Jira.Domain, name, cfgFile)
		return nil
	},
}

// loginModel runs the setup flow as a standalone program.
type loginModel struct {
	setup setup.Model
	start tea.Cmd
	done  *setup.DoneMsg
}

func (m loginModel) Init() tea.Cmd {
	return m.start
}

func (m loginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setup.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case setup.DoneMsg:
		m.done = &msg
		return m, tea.Quit
	case setup.CancelledMsg:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.setup, cmd = m.setup.Update(msg)
	return m, cmd
}

func (m loginModel) View() string {
	return m.setup.View()
}
