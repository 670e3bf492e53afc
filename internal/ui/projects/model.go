package projects

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/worklog-dashboard/internal/hours"
	"github.com/nhle/worklog-dashboard/internal/keys"
	"github.com/nhle/worklog-dashboard/internal/model"
	"github.com/nhle/worklog-dashboard/internal/theme"
	"github.com/nhle/worklog-dashboard/internal/ui/tickets"
)

// Model is the project breakdown. Selecting a project drills into its
// ticket table; Back returns to the breakdown.
type Model struct {
	table    table.Model
	tickets  tickets.Model
	keys     *keys.KeyMap
	projects []model.ProjectTimeData
	drilled  bool
	width    int
	height   int
}

// New creates an empty project breakdown.
func New(k *keys.KeyMap, width, height int) Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(max(height-4, 1)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true)
	s.Selected = s.Selected.Foreground(theme.ColorWhite).Background(theme.ColorBlue)
	t.SetStyles(s)

	m := Model{
		table:   t,
		tickets: tickets.New(k, width, height),
		keys:    k,
		width:   width,
		height:  height,
	}
	m.table.SetColumns(m.columns())
	return m
}

// SetProjects replaces the breakdown. An open drill-down follows its
// project into the new data, or closes if the project is gone.
func (m *Model) SetProjects(projects []model.ProjectTimeData) {
	var openKey string
	if m.drilled {
		if p, ok := m.selected(); ok {
			openKey = p.ProjectKey
		}
	}

	m.projects = projects
	rows := make([]table.Row, len(projects))
	for i, p := range projects {
		rows[i] = table.Row{
			p.ProjectName,
			p.ProjectKey,
			hours.FormatHours(p.TotalHours),
			fmt.Sprint(p.TicketCount),
			strings.Join(p.Contributors, ", "),
		}
	}
	m.table.SetRows(rows)

	m.drilled = false
	for i, p := range projects {
		if openKey != "" && p.ProjectKey == openKey {
			m.table.SetCursor(i)
			m.tickets.SetProject(p)
			m.drilled = true
			return
		}
	}
	if m.table.Cursor() >= len(projects) {
		m.table.SetCursor(0)
	}
}

// Drilled reports whether the ticket table is open.
func (m Model) Drilled() bool { return m.drilled }

// Update handles drill-down and delegates navigation.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case m.drilled && key.Matches(msg, m.keys.Back):
			m.drilled = false
			return m, nil
		case !m.drilled && key.Matches(msg, m.keys.Select):
			if p, ok := m.selected(); ok {
				m.tickets.SetProject(p)
				m.drilled = true
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.drilled {
		m.tickets, cmd = m.tickets.Update(msg)
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

// View renders the breakdown or the open drill-down.
func (m Model) View() string {
	if m.drilled {
		return m.tickets.View()
	}
	if len(m.projects) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No work logged in this range.\n\nPress d to pick another date range.")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.TitleStyle.Render("Projects"),
		m.table.View(),
		m.renderBars(),
	)
}

// renderBars draws a share-of-hours bar and a legend in project colors.
// Table cells stay unstyled since the table measures raw cell width.
func (m Model) renderBars() string {
	var total float64
	for _, p := range m.projects {
		total += p.TotalHours
	}
	if total <= 0 {
		return ""
	}

	width := max(m.width-4, 10)
	var bar strings.Builder
	legend := make([]string, 0, len(m.projects))
	for _, p := range m.projects {
		style := theme.ProjectStyle(p.ProjectKey)
		legend = append(legend, style.Render("■ "+p.ProjectKey))
		if n := int(p.TotalHours / total * float64(width)); n > 0 {
			bar.WriteString(style.Render(strings.Repeat("█", n)))
		}
	}
	return "\n" + bar.String() + "\n" + strings.Join(legend, "  ")
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-4, 1))
	m.table.SetColumns(m.columns())
	m.tickets.SetSize(width, height)
}

func (m Model) selected() (model.ProjectTimeData, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.projects) {
		return model.ProjectTimeData{}, false
	}
	return m.projects[i], true
}

func (m Model) columns() []table.Column {
	contributors := max(m.width-30-10-10-8-12, 20)
	return []table.Column{
		{Title: "Project", Width: 30},
		{Title: "Key", Width: 10},
		{Title: "Hours", Width: 10},
		{Title: "Tickets", Width: 8},
		{Title: "Contributors", Width: contributors},
	}
}
