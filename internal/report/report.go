// Package report renders a dashboard as plain terminal tables.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/worklog-dashboard/internal/dashboard"
	"github.com/nhle/worklog-dashboard/internal/daterange"
	"github.com/nhle/worklog-dashboard/internal/hours"
	"github.com/nhle/worklog-dashboard/internal/model"
	"github.com/nhle/worklog-dashboard/internal/theme"
)

// Options controls what a report includes.
type Options struct {
	// Title is printed above the summary, usually the range label.
	Title string

	// MemberID narrows projects and tickets to one author. The team
	// table is always complete.
	MemberID string

	// Tickets adds one ticket table per project.
	Tickets bool
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// Render builds the report for d.
func Render(d *dashboard.Data, opts Options) string {
	view := d.ForMember(opts.MemberID)
	summary := view.Summary()

	var b strings.Builder
	title := opts.Title
	if title == "" {
		title = d.Range.String()
	}
	if view.DisplayName != "" {
		title += " · " + view.DisplayName
	}
	b.WriteString(theme.TitleStyle.Render(title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s across %d tickets in %d projects by %d people (%d entries)\n\n",
		hours.FormatHours(summary.TotalHours),
		summary.TicketCount,
		summary.ProjectCount,
		summary.MemberCount,
		summary.EntryCount,
	)

	if len(view.Projects) == 0 {
		b.WriteString("No work logged in this range.\n")
		return b.String()
	}

	b.WriteString(projectTable(view.Projects))
	b.WriteString("\n")

	if opts.Tickets {
		for _, p := range view.Projects {
			b.WriteString("\n")
			b.WriteString(theme.ProjectStyle(p.ProjectKey).Bold(true).Render(p.ProjectName + " (" + p.ProjectKey + ")"))
			b.WriteString("\n")
			b.WriteString(ticketTable(p.Tickets))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(teamTable(d.TeamMembers))
	b.WriteString("\n")
	return b.String()
}

// newTable returns a table with shared styling. Columns listed in
// numeric are right-aligned.
func newTable(headers []string, numeric ...int) *table.Table {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case right[col]:
				return numberStyle
			default:
				return cellStyle
			}
		})
}

func projectTable(projects []model.ProjectTimeData) string {
	t := newTable([]string{"Project", "Key", "Hours", "Tickets", "Contributors"}, 2, 3)
	for _, p := range projects {
		t.Row(
			p.ProjectName,
			p.ProjectKey,
			hours.FormatHours(p.TotalHours),
			fmt.Sprint(p.TicketCount),
			strings.Join(p.Contributors, ", "),
		)
	}
	return t.String()
}

func ticketTable(tickets []model.TicketTimeData) string {
	t := newTable([]string{"Key", "Summary", "Assignee", "Status", "Hours"}, 4)
	for _, tk := range tickets {
		t.Row(
			tk.IssueKey,
			truncate(tk.Summary, 50),
			tk.Assignee,
			tk.Status,
			hours.FormatHours(tk.TotalHours),
		)
	}
	return t.String()
}

func teamTable(members []model.TeamMemberTimeData) string {
	t := newTable([]string{"Name", "Hours", "Entries", "Projects"}, 1, 2)
	for _, m := range members {
		t.Row(
			m.DisplayName,
			hours.FormatHours(m.TotalHours),
			fmt.Sprint(len(m.Worklogs)),
			strings.Join(m.ProjectKeys, ", "),
		)
	}
	return t.String()
}

// Presets renders the named ranges as they resolve at now. Sprint
// presets without a configured sprint are listed with a hint instead.
func Presets(now time.Time, sprint daterange.Sprint) string {
	t := newTable([]string{"ID", "Label", "Start", "End"})
	for _, p := range daterange.Presets {
		rng, err := daterange.Resolve(p.ID, now, sprint)
		if err != nil {
			t.Row(string(p.ID), p.Label, "needs sprint.start_date", "")
			continue
		}
		t.Row(string(p.ID), p.Label, rng.StartString(), rng.EndString())
	}
	return t.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
