package team

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
)

// MemberSelectedMsg is sent when the user picks a member to filter by.
type MemberSelectedMsg struct {
	AccountID   string
	DisplayName string
}

// Model is the team member breakdown.
type Model struct {
	table   table.Model
	keys    *keys.KeyMap
	members []model.TeamMemberTimeData
	width   int
	height  int
}

// New creates an empty team breakdown.
func New(k *keys.KeyMap, width, height int) Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(max(height-3, 1)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true)
	s.Selected = s.Selected.Foreground(theme.ColorWhite).Background(theme.ColorBlue)
	t.SetStyles(s)

	m := Model{table: t, keys: k, width: width, height: height}
	m.table.SetColumns(m.columns())
	return m
}

// SetMembers replaces the breakdown.
func (m *Model) SetMembers(members []model.TeamMemberTimeData) {
	m.members = members
	rows := make([]table.Row, len(members))
	for i, tm := range members {
		rows[i] = table.Row{
			tm.DisplayName,
			hours.FormatHours(tm.TotalHours),
			fmt.Sprint(len(tm.Worklogs)),
			strings.Join(tm.ProjectKeys, ", "),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(members) {
		m.table.SetCursor(0)
	}
}

// Update emits MemberSelectedMsg on Select and delegates navigation.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Select) {
		i := m.table.Cursor()
		if i < 0 || i >= len(m.members) {
			return m, nil
		}
		tm := m.members[i]
		return m, func() tea.Msg {
			return MemberSelectedMsg{AccountID: tm.AccountID, DisplayName: tm.DisplayName}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the member table.
func (m Model) View() string {
	if len(m.members) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Nobody logged work in this range.")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.TitleStyle.Render("Team"),
		m.table.View(),
	)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-3, 1))
	m.table.SetColumns(m.columns())
}

func (m Model) columns() []table.Column {
	return []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Hours", Width: 10},
		{Title: "Entries", Width: 8},
		{Title: "Projects", Width: max(m.width-28-10-8-10, 20)},
	}
}
