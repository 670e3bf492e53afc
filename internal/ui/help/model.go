package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/worklog-dashboard/internal/daterange"
	"github.com/nhle/worklog-dashboard/internal/keys"
	"github.com/nhle/worklog-dashboard/internal/theme"
)

// paletteCommands documents the command palette next to the key bindings.
var paletteCommands = [][2]string{
	{"refresh", "reload the range from Jira"},
	{"range <preset>", "switch to a named range"},
	{"range <start> <end>", "switch to custom dates (YYYY-MM-DD)"},
	{"member <name>", "show one member's work"},
	{"clear", "drop the member filter"},
	{"login", "edit the Jira connection"},
	{"quit", "exit"},
}

// Model is the help overlay: key bindings, palette commands and presets.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a help overlay for k.
func New(k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	h.Width = width - 4
	return Model{keys: k, help: h, width: width, height: height}
}

// Update is a no-op; the overlay is static.
func (m Model) Update(tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the overlay.
func (m Model) View() string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.ColorBlue).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	var cmds strings.Builder
	for _, c := range paletteCommands {
		cmds.WriteString(keyStyle.Render(":"+c[0]) + "  " + descStyle.Render(c[1]) + "\n")
	}

	ids := make([]string, len(daterange.Presets))
	for i, p := range daterange.Presets {
		ids[i] = string(p.ID)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.TitleStyle.Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
		"",
		theme.TitleStyle.Render("Commands"),
		cmds.String(),
		descStyle.Render("presets: "+strings.Join(ids, ", ")),
	)

	return theme.BorderStyle.
		Padding(1, 2).
		Width(max(m.width-4, 1)).
		Height(max(m.height-4, 1)).
		Render(content)
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
