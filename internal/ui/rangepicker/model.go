package rangepicker

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/worklog-dashboard/internal/daterange"
)

const customChoice = "custom"

// RangeSelectedMsg is sent when the user confirms a range.
type RangeSelectedMsg struct {
	Range daterange.Range
	Label string
}

// CancelledMsg is sent when the user aborts the picker.
type CancelledMsg struct{}

// values holds the form fields. It lives behind a pointer so huh's bound
// fields survive Model being copied.
type values struct {
	choice string
	start  string
	end    string
}

// Model is the date range picker.
type Model struct {
	form   *huh.Form
	vals   *values
	sprint daterange.Sprint
	now    func() time.Time
	width  int
	height int
}

// New creates a picker. Sprint presets are offered only when sprint has a
// start date.
func New(sprint daterange.Sprint, width, height int) Model {
	return Model{
		vals:   &values{},
		sprint: sprint,
		now:    time.Now,
		width:  width,
		height: height,
	}
}

// Start builds a fresh form prefilled with current and returns its init
// command.
func (m *Model) Start(current daterange.Range) tea.Cmd {
	m.vals = &values{
		choice: customChoice,
		start:  current.StartString(),
		end:    current.EndString(),
	}
	m.form = m.buildForm()
	return m.form.Init()
}

func (m Model) options() []huh.Option[string] {
	var opts []huh.Option[string]
	for _, p := range daterange.Presets {
		if (p.ID == daterange.ThisSprint || p.ID == daterange.LastSprint) && m.sprint.StartDate == "" {
			continue
		}
		opts = append(opts, huh.NewOption(p.Label, string(p.ID)))
	}
	return append(opts, huh.NewOption("Custom range", customChoice))
}

func (m Model) buildForm() *huh.Form {
	vals := m.vals
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Date range").
				Options(m.options()...).
				Value(&vals.choice),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Start date").
				Placeholder(daterange.Layout).
				Value(&vals.start).
				Validate(validateDate),
			huh.NewInput().
				Title("End date").
				Placeholder(daterange.Layout).
				Value(&vals.end).
				Validate(func(s string) error {
					_, err := daterange.Parse(vals.start, s)
					return err
				}),
		).WithHideFunc(func() bool { return vals.choice != customChoice }),
	).WithWidth(m.formWidth()).WithShowHelp(true)
}

func validateDate(s string) error {
	_, err := time.Parse(daterange.Layout, s)
	return err
}

// Update drives the form and emits the result once it completes.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.result()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelledMsg{} }
	}
	return m, cmd
}

// result resolves the chosen preset or parses the custom dates.
func (m Model) result() tea.Cmd {
	vals := *m.vals
	now := m.now()
	sprint := m.sprint
	return func() tea.Msg {
		if vals.choice == customChoice {
			rng, err := daterange.Parse(vals.start, vals.end)
			if err != nil {
				return CancelledMsg{}
			}
			return RangeSelectedMsg{Range: rng, Label: rng.String()}
		}

		id := daterange.PresetID(vals.choice)
		rng, err := daterange.Resolve(id, now, sprint)
		if err != nil {
			return CancelledMsg{}
		}
		label := rng.String()
		if p, ok := daterange.LookupPreset(vals.choice); ok {
			label = p.Label
		}
		return RangeSelectedMsg{Range: rng, Label: label}
	}
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(m.form.View())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 80)
}
