package setup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/worklog-dashboard/internal/model"
	"github.com/nhle/worklog-dashboard/internal/source"
	"github.com/nhle/worklog-dashboard/internal/theme"
)

// validateTimeout bounds the connection test.
const validateTimeout = 30 * time.Second

// Mode is the current step of the setup flow.
type Mode int

const (
	ModeForm Mode = iota
	ModeValidating
	ModeFailed
)

// Connection is what the form collects.
type Connection struct {
	Jira  model.JiraConfig
	Token string
}

// ValidateFunc tests a connection before it is saved.
type ValidateFunc func(ctx context.Context, c Connection) (*source.Identity, error)

// SaveFunc persists a validated connection.
type SaveFunc func(c Connection) error

// DoneMsg is sent once the connection is validated and saved.
type DoneMsg struct {
	Connection Connection
	Identity   *source.Identity
}

// CancelledMsg is sent when the user leaves setup without saving.
type CancelledMsg struct{}

type validatedMsg struct {
	identity *source.Identity
	err      error
}

type values struct {
	domain      string
	email       string
	token       string
	projectKeys string
}

// Model is the connection setup flow: a huh form, a connection test, then
// save.
type Model struct {
	mode     Mode
	form     *huh.Form
	vals     *values
	conn     Connection
	err      error
	spinner  spinner.Model
	validate ValidateFunc
	save     SaveFunc
	width    int
	height   int
}

// New creates a setup flow.
func New(validate ValidateFunc, save SaveFunc, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		vals:     &values{},
		spinner:  sp,
		validate: validate,
		save:     save,
		width:    width,
		height:   height,
	}
}

// Start shows the form prefilled from current. The token is never
// prefilled.
func (m *Model) Start(current model.JiraConfig) tea.Cmd {
	m.mode = ModeForm
	m.err = nil
	m.vals = &values{
		domain:      current.Domain,
		email:       current.Email,
		projectKeys: strings.Join(current.ProjectKeys, ", "),
	}
	m.conn.Jira = current
	m.form = m.buildForm()
	return m.form.Init()
}

func (m Model) buildForm() *huh.Form {
	vals := m.vals
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Jira site").
				Description("Your Atlassian site, e.g. acme or acme.atlassian.net").
				Placeholder("acme").
				Value(&vals.domain).
				Validate(validateRequired("Site")),
			huh.NewInput().
				Title("Email").
				Description("The account email used to sign in to Jira").
				Value(&vals.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("API token").
				Description("Create one at id.atlassian.com/manage-profile/security/api-tokens").
				EchoMode(huh.EchoModePassword).
				Value(&vals.token).
				Validate(validateRequired("API token")),
			huh.NewInput().
				Title("Project keys").
				Description("Comma-separated; leave empty for every project you can see").
				Placeholder("PROJ, OPS").
				Value(&vals.projectKeys),
		),
	).WithWidth(m.formWidth())
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("Email is required")
	}
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 {
		return errors.New("Enter a valid email address")
	}
	return nil
}

// ParseProjectKeys splits a comma-separated list into upper-case keys.
func ParseProjectKeys(s string) []string {
	keys := []string{}
	for _, part := range strings.Split(s, ",") {
		if k := strings.ToUpper(strings.TrimSpace(part)); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Update handles messages for the current step.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case validatedMsg:
		if m.mode != ModeValidating {
			return m, nil
		}
		if msg.err != nil {
			m.mode = ModeFailed
			m.err = msg.err
			return m, nil
		}
		if err := m.save(m.conn); err != nil {
			m.mode = ModeFailed
			m.err = fmt.Errorf("saving settings: %w", err)
			return m, nil
		}
		conn, identity := m.conn, msg.identity
		return m, func() tea.Msg { return DoneMsg{Connection: conn, Identity: identity} }

	case spinner.TickMsg:
		if m.mode == ModeValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeValidating:
			if msg.String() == "esc" {
				m.mode = ModeFailed
				m.err = errors.New("connection test cancelled")
			}
			return m, nil
		case ModeFailed:
			switch msg.String() {
			case "r", "enter":
				return m, m.Start(m.conn.Jira)
			case "esc":
				return m, func() tea.Msg { return CancelledMsg{} }
			}
			return m, nil
		}
	}

	return m.updateForm(msg)
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.mode != ModeForm {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.startValidation()
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelledMsg{} }
	}
	return m, cmd
}

func (m Model) startValidation() (Model, tea.Cmd) {
	jira := m.conn.Jira
	jira.Domain = strings.TrimSpace(m.vals.domain)
	jira.Email = strings.TrimSpace(m.vals.email)
	jira.ProjectKeys = ParseProjectKeys(m.vals.projectKeys)
	m.conn = Connection{Jira: jira, Token: strings.TrimSpace(m.vals.token)}
	m.mode = ModeValidating

	conn, validate := m.conn, m.validate
	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
			defer cancel()
			identity, err := validate(ctx, conn)
			return validatedMsg{identity: identity, err: err}
		},
	)
}

// Mode returns the current step.
func (m Model) Mode() Mode { return m.mode }

// View renders the current step.
func (m Model) View() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height)

	switch m.mode {
	case ModeValidating:
		return style.Render(fmt.Sprintf(
			"%s Testing connection to %s...\n\nPress esc to cancel.",
			m.spinner.View(), m.conn.Jira.Domain,
		))

	case ModeFailed:
		errStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorRed)
		return style.Render(
			errStyle.Render("Connection failed") + "\n\n" +
				source.UserMessage(m.err) + "\n\n" +
				theme.HelpStyle.Render("r retry | esc cancel"),
		)
	}

	if m.form == nil {
		return ""
	}
	return style.Render(
		theme.TitleStyle.Render("Jira connection") + "\n" + m.form.View(),
	)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}
