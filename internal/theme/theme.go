package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// ProjectPalette holds the colors assigned to projects. Adjacent entries
// are chosen to be easy to tell apart.
var ProjectPalette = []lipgloss.Color{
	"#2563eb", // blue
	"#16a34a", // green
	"#ea580c", // orange
	"#9333ea", // purple
	"#dc2626", // red
	"#0891b2", // cyan
	"#ca8a04", // yellow
	"#db2777", // pink
	"#4f46e5", // indigo
	"#059669", // emerald
	"#d97706", // amber
	"#7c3aed", // violet
}

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// TabStyle and ActiveTabStyle render the tab bar.
var (
	TabStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Padding(0, 2)

	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlue).
			Padding(0, 2).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorBlue)
)

// TitleStyle is used for panel titles.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle renders error banners.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed).
	Padding(0, 1)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ProjectColor returns the stable palette color of a project key. The
// same key always maps to the same color, across runs and views.
func ProjectColor(projectKey string) lipgloss.Color {
	return ProjectPalette[hashKey(projectKey)%len(ProjectPalette)]
}

// ProjectStyle renders a project key in its color.
func ProjectStyle(projectKey string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(ProjectColor(projectKey))
}

// hashKey is a 31-multiplier string hash folded to a non-negative int.
func hashKey(s string) int {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	if h < 0 {
		if h == -h {
			return 0
		}
		h = -h
	}
	return int(h)
}

// StatusStyle returns a color-coded style for a Jira status name.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "done"), strings.Contains(s, "closed"), strings.Contains(s, "resolved"):
		return base.Foreground(ColorGreen)
	case strings.Contains(s, "review"):
		return base.Foreground(ColorMagenta)
	case strings.Contains(s, "progress"):
		return base.Foreground(ColorYellow)
	case s == "unknown":
		return base.Foreground(ColorGray)
	default:
		return base.Foreground(ColorBlue)
	}
}
