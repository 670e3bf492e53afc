package tickets

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/worklog-dashboard/internal/hours"
	"github.com/nhle/worklog-dashboard/internal/keys"
	"github.com/nhle/worklog-dashboard/internal/model"
	"github.com/nhle/worklog-dashboard/internal/theme"
)

// Model is the sortable ticket table of one project.
type Model struct {
	table   table.Model
	keys    *keys.KeyMap
	title   string
	tickets []model.TicketTimeData
	sort    SortState
	width   int
	height  int
}

// New creates an empty ticket table.
func New(k *keys.KeyMap, width, height int) Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(max(height-3, 1)),
	)
	t.SetStyles(tableStyles())

	m := Model{table: t, keys: k, sort: DefaultSort, width: width, height: height}
	m.table.SetColumns(m.columns())
	return m
}

// SetProject shows the tickets of p, keeping the current sort.
func (m *Model) SetProject(p model.ProjectTimeData) {
	m.title = fmt.Sprintf("%s  %s", p.ProjectName, theme.HelpStyle.Render(p.ProjectKey))
	m.tickets = p.Tickets
	m.refresh()
	m.table.SetCursor(0)
}

// Sort returns the active sort.
func (m Model) Sort() SortState { return m.sort }

// Update handles sort keys and table navigation.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.CycleSort):
			m.sort = m.sort.Next()
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.ToggleSort):
			m.sort = m.sort.Request(m.sort.Column)
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the title and the table.
func (m Model) View() string {
	if len(m.tickets) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			theme.TitleStyle.Render(m.title),
			theme.HelpStyle.Render("No tickets."),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.TitleStyle.Render(m.title),
		m.table.View(),
	)
}

// SetSize updates the table dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-3, 1))
	m.table.SetColumns(m.columns())
}

func (m *Model) refresh() {
	m.table.SetColumns(m.columns())

	sorted := Sorted(m.tickets, m.sort)
	rows := make([]table.Row, len(sorted))
	for i, t := range sorted {
		rows[i] = table.Row{
			t.IssueKey,
			t.Summary,
			t.Assignee,
			t.Status,
			hours.FormatHours(t.TotalHours),
		}
	}
	m.table.SetRows(rows)
}

// columns sizes the summary column to the remaining width and marks the
// sorted column.
func (m Model) columns() []table.Column {
	widths := [...]int{12, 0, 18, 14, 8}
	fixed := 0
	for _, w := range widths {
		fixed += w
	}
	widths[ColumnSummary] = max(m.width-fixed-12, 20)

	cols := make([]table.Column, columnCount)
	for c := Column(0); c < columnCount; c++ {
		title := c.String()
		if c == m.sort.Column {
			if m.sort.Desc {
				title += " ↓"
			} else {
				title += " ↑"
			}
		}
		cols[c] = table.Column{Title: title, Width: widths[c]}
	}
	return cols
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(theme.ColorWhite).
		Background(theme.ColorBlue).
		Bold(false)
	return s
}
