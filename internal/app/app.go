package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/worklog-dashboard/internal/dashboard"
	"github.com/nhle/worklog-dashboard/internal/daterange"
	"github.com/nhle/worklog-dashboard/internal/hours"
	"github.com/nhle/worklog-dashboard/internal/keys"
	"github.com/nhle/worklog-dashboard/internal/model"
	"github.com/nhle/worklog-dashboard/internal/source"
	appsync "github.com/nhle/worklog-dashboard/internal/sync"
	"github.com/nhle/worklog-dashboard/internal/theme"
	"github.com/nhle/worklog-dashboard/internal/ui"
	"github.com/nhle/worklog-dashboard/internal/ui/command"
	helpview "github.com/nhle/worklog-dashboard/internal/ui/help"
	"github.com/nhle/worklog-dashboard/internal/ui/projects"
	"github.com/nhle/worklog-dashboard/internal/ui/rangepicker"
	"github.com/nhle/worklog-dashboard/internal/ui/setup"
	"github.com/nhle/worklog-dashboard/internal/ui/team"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewRange
	ViewSetup
	ViewHelp
	ViewCommand
)

// Tab is a dashboard tab.
type Tab int

const (
	TabProjects Tab = iota
	TabTeam
)

var tabTitles = []string{"Projects", "Team"}

// ConnectFunc opens a dashboard provider for a saved connection.
type ConnectFunc func(cfg *model.AppConfig, token string) (dashboard.Provider, func() error, error)

// Deps are the collaborators of the root model. Provider is nil until a
// connection is configured; the model then starts in setup.
type Deps struct {
	Config   *model.AppConfig
	Provider dashboard.Provider
	Close    func() error
	Connect  ConnectFunc
	Validate setup.ValidateFunc
	Save     setup.SaveFunc
	Log      zerolog.Logger
	Now      func() time.Time
}

// Model is the root Bubble Tea model. It owns the selected range, the
// member filter and the loaded data, and routes input to the active view.
type Model struct {
	currentView  ViewState
	previousView ViewState
	tab          Tab
	layout       ui.Layout
	keys         *keys.KeyMap
	cfg          *model.AppConfig
	deps         Deps
	log          zerolog.Logger

	provider dashboard.Provider
	closeFn  func() error
	loader   *appsync.Loader

	rng        daterange.Range
	rangeLabel string
	data       *dashboard.Data
	memberID   string
	memberName string
	loading    bool
	err        error

	projectsView projects.Model
	teamView     team.Model
	helpView     helpview.Model
	commandView  command.Model
	rangeView    rangepicker.Model
	setupView    setup.Model
	ready        bool
}

// New creates the root model on the default range.
func New(d Deps) Model {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Close == nil {
		d.Close = func() error { return nil }
	}
	k := keys.DefaultKeyMap()
	sprint := sprintOf(d.Config)

	preset := daterange.DefaultPreset(sprint)
	rng, err := daterange.Resolve(preset.ID, d.Now(), sprint)
	if err != nil {
		preset, _ = daterange.LookupPreset(string(daterange.Last30Days))
		rng, _ = daterange.Resolve(preset.ID, d.Now(), sprint)
	}

	m := Model{
		currentView:  ViewDashboard,
		keys:         k,
		cfg:          d.Config,
		deps:         d,
		log:          d.Log,
		closeFn:      d.Close,
		rng:          rng,
		rangeLabel:   preset.Label,
		projectsView: projects.New(k, 80, 24),
		teamView:     team.New(k, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		commandView:  command.New(80, 24),
		rangeView:    rangepicker.New(sprint, 80, 24),
		setupView:    setup.New(d.Validate, d.Save, 80, 24),
	}
	m.setProvider(d.Provider)
	// Init cannot record state, so the first load is marked here.
	m.loading = m.loader != nil
	return m
}

func sprintOf(cfg *model.AppConfig) daterange.Sprint {
	return daterange.Sprint{
		StartDate:  cfg.Sprint.StartDate,
		LengthDays: cfg.Sprint.LengthDays,
	}
}

func (m *Model) setProvider(p dashboard.Provider) {
	m.provider = p
	switch {
	case p == nil:
		m.loader = nil
	case m.loader == nil:
		m.loader = appsync.New(p, m.cfg.RefreshInterval())
	default:
		m.loader.SetProvider(p)
	}
}

// Init starts the first load, or the setup flow when no connection is
// configured yet.
func (m Model) Init() tea.Cmd {
	if m.loader == nil {
		return func() tea.Msg { return needSetupMsg{} }
	}
	return tea.Batch(m.loader.Request(m.rng), m.loader.Tick())
}

type needSetupMsg struct{}

// connectedMsg carries the provider opened after setup.
type connectedMsg struct {
	provider dashboard.Provider
	close    func() error
	err      error
}

// request loads the current range and marks the model as loading.
func (m *Model) request() tea.Cmd {
	m.loading = true
	return m.loader.Request(m.rng)
}

func (m *Model) refresh() tea.Cmd {
	m.loading = true
	return m.loader.Refresh(m.rng)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.projectsView.SetSize(w, h)
		m.teamView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.rangeView.SetSize(w, h)
		m.setupView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case needSetupMsg:
		return m.openSetup()

	case appsync.LoadedMsg:
		return m.handleLoaded(msg)

	case appsync.RefreshTickMsg:
		if m.loader == nil || !m.loader.CurrentTick(msg) {
			return m, nil
		}
		// Skip while a load is in flight so ticks never supersede a
		// user's pending request.
		if m.loading {
			return m, m.loader.Tick()
		}
		return m, tea.Batch(m.refresh(), m.loader.Tick())

	case rangepicker.RangeSelectedMsg:
		m.currentView = ViewDashboard
		m.rng = msg.Range
		m.rangeLabel = msg.Label
		if m.loader == nil {
			return m, nil
		}
		return m, m.request()

	case rangepicker.CancelledMsg:
		m.currentView = ViewDashboard
		return m, nil

	case team.MemberSelectedMsg:
		m.memberID = msg.AccountID
		m.memberName = msg.DisplayName
		m.tab = TabProjects
		m.applyData()
		return m, nil

	case setup.DoneMsg:
		cfg := *m.cfg
		cfg.Jira = msg.Connection.Jira
		m.cfg = &cfg
		m.log.Info().
			Str("domain", cfg.Jira.Domain).
			Str("account", identityName(msg.Identity)).
			Msg("jira connection saved")
		return m, m.connect(&cfg, msg.Connection.Token)

	case setup.CancelledMsg:
		if m.loader == nil {
			return m, tea.Quit
		}
		m.currentView = ViewDashboard
		return m, nil

	case connectedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.currentView = ViewDashboard
			return m, nil
		}
		if err := m.closeFn(); err != nil {
			m.log.Warn().Err(err).Msg("closing previous provider")
		}
		m.closeFn = msg.close
		if m.closeFn == nil {
			m.closeFn = func() error { return nil }
		}
		m.setProvider(msg.provider)
		m.currentView = ViewDashboard
		m.data = nil
		m.applyData()
		return m, tea.Batch(m.request(), m.loader.Tick())

	case command.CommandMsg:
		return m.executeCommand(string(msg))

	case command.CancelledMsg:
		m.commandView.SetError(nil)
		m.currentView = ViewDashboard
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.currentView == ViewDashboard || m.currentView == ViewHelp {
			if next, cmd, handled := m.handleKey(msg); handled {
				return next, cmd
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleKey processes the dashboard's global keys. handled is false when
// the key should go to the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if key.Matches(msg, m.keys.Help) {
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
		} else {
			m.previousView = m.currentView
			m.currentView = ViewHelp
		}
		return m, nil, true
	}
	if m.currentView == ViewHelp {
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
		}
		return m, nil, true
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % Tab(len(tabTitles))
		return m, nil, true

	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + Tab(len(tabTitles)) - 1) % Tab(len(tabTitles))
		return m, nil, true

	case key.Matches(msg, m.keys.Range):
		m.currentView = ViewRange
		return m, m.rangeView.Start(m.rng), true

	case key.Matches(msg, m.keys.Refresh):
		if m.loader == nil {
			return m, nil, true
		}
		return m, m.refresh(), true

	case key.Matches(msg, m.keys.Setup):
		next, cmd := m.openSetup()
		return next, cmd, true

	case key.Matches(msg, m.keys.Command):
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true

	case key.Matches(msg, m.keys.Back):
		if m.tab == TabProjects && m.projectsView.Drilled() {
			return m, nil, false
		}
		if m.memberID != "" {
			m.memberID, m.memberName = "", ""
			m.applyData()
		}
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) openSetup() (tea.Model, tea.Cmd) {
	m.previousView = m.currentView
	m.currentView = ViewSetup
	return m, m.setupView.Start(m.cfg.Jira)
}

// connect opens a provider for cfg off the event loop.
func (m Model) connect(cfg *model.AppConfig, token string) tea.Cmd {
	connectFn := m.deps.Connect
	return func() tea.Msg {
		if connectFn == nil {
			return connectedMsg{err: fmt.Errorf("no connector configured")}
		}
		p, closeFn, err := connectFn(cfg, token)
		return connectedMsg{provider: p, close: closeFn, err: err}
	}
}

// handleLoaded applies the result of the most recent load. Results of
// superseded loads are dropped, even when they arrive last.
func (m Model) handleLoaded(msg appsync.LoadedMsg) (tea.Model, tea.Cmd) {
	if m.loader == nil || !m.loader.Accept(msg) {
		m.log.Debug().
			Uint64("generation", msg.Generation).
			Str("range", msg.Range.Key()).
			Msg("discarding stale load")
		return m, nil
	}

	m.loading = false
	if msg.Err != nil {
		m.err = msg.Err
		m.log.Error().Err(msg.Err).Str("range", msg.Range.Key()).Msg("loading worklogs")
		return m, nil
	}

	m.err = nil
	m.data = msg.Data
	m.applyData()
	return m, nil
}

// applyData pushes the loaded data, narrowed by the member filter, into
// the tab views.
func (m *Model) applyData() {
	if m.data == nil {
		m.projectsView.SetProjects(nil)
		m.teamView.SetMembers(nil)
		return
	}
	if m.memberID != "" {
		m.projectsView.SetProjects(m.data.ForMember(m.memberID).Projects)
	} else {
		m.projectsView.SetProjects(m.data.Projects)
	}
	m.teamView.SetMembers(m.data.TeamMembers)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewDashboard:
		switch m.tab {
		case TabProjects:
			m.projectsView, cmd = m.projectsView.Update(msg)
		case TabTeam:
			m.teamView, cmd = m.teamView.Update(msg)
		}
	case ViewRange:
		m.rangeView, cmd = m.rangeView.Update(msg)
	case ViewSetup:
		m.setupView, cmd = m.setupView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.title(), m.loadStatus())
	tabs := m.layout.RenderTabs(tabTitles, int(m.tab))
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, tabs, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewRange:
		return m.rangeView.View()
	case ViewSetup:
		return m.setupView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	}
	if m.tab == TabTeam {
		return m.teamView.View()
	}
	return m.projectsView.View()
}

func (m Model) title() string {
	title := fmt.Sprintf("Worklogs · %s", m.rangeLabel)
	if m.rangeLabel != m.rng.String() {
		title += fmt.Sprintf(" (%s)", m.rng)
	}
	if m.data != nil {
		var s dashboard.Summary
		if m.memberID != "" {
			s = m.data.ForMember(m.memberID).Summary()
		} else {
			s = m.data.Summary()
		}
		title += fmt.Sprintf(" · %s", hours.FormatHours(s.TotalHours))
	}
	if m.memberName != "" {
		title += " · " + m.memberName
	}
	return title
}

// loadStatus returns a short string describing the load state.
func (m Model) loadStatus() string {
	switch {
	case m.loading:
		return "loading..."
	case m.err != nil:
		return theme.ErrorStyle.Render("⚠ " + source.UserMessage(m.err))
	case m.data == nil:
		if m.loader == nil {
			return "not connected"
		}
		return ""
	case m.data.FromCache:
		return "cached " + m.data.FetchedAt.Format("15:04")
	default:
		return "updated " + m.data.FetchedAt.Format("15:04")
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.err != nil && source.IsAuthError(m.err) && m.currentView == ViewDashboard {
		return "c update connection | q quit"
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewRange:
		return "enter select | esc cancel"
	case ViewSetup:
		return "enter next | esc cancel"
	case ViewCommand:
		return "enter execute | esc back"
	}

	if m.tab == TabProjects && m.projectsView.Drilled() {
		return "s sort column | S direction | esc back"
	}
	if m.memberID != "" {
		return "filtered by " + m.memberName + " | esc clear | d range | r refresh"
	}
	return "q quit | ? help | tab switch | enter select | d range | r refresh"
}

// executeCommand runs a palette command. A command that cannot run keeps
// the palette open with the error shown.
func (m Model) executeCommand(input string) (tea.Model, tea.Cmd) {
	c, err := command.Parse(input)
	if err == nil {
		err = m.checkCommand(c)
	}
	if err != nil {
		m.commandView.SetError(err)
		return m, nil
	}
	m.commandView.SetError(nil)
	m.currentView = ViewDashboard

	switch c.Kind {
	case command.Refresh:
		if m.loader == nil {
			return m, nil
		}
		return m, m.refresh()

	case command.SetRange:
		sprint := sprintOf(m.cfg)
		if c.Preset != "" {
			rng, _ := daterange.Resolve(c.Preset, m.deps.Now(), sprint)
			p, _ := daterange.LookupPreset(string(c.Preset))
			m.rng, m.rangeLabel = rng, p.Label
		} else {
			rng, _ := daterange.Parse(c.Start, c.End)
			m.rng, m.rangeLabel = rng, rng.String()
		}
		if m.loader == nil {
			return m, nil
		}
		return m, m.request()

	case command.FilterMember:
		tm, _ := m.findMember(c.Member)
		m.memberID, m.memberName = tm.AccountID, tm.DisplayName
		m.tab = TabProjects
		m.applyData()
		return m, nil

	case command.ClearFilter:
		m.memberID, m.memberName = "", ""
		m.applyData()
		return m, nil

	case command.Connect:
		return m.openSetup()

	case command.Quit:
		return m, tea.Quit
	}
	return m, nil
}

// checkCommand reports why a parsed command cannot run now.
func (m Model) checkCommand(c command.Command) error {
	switch c.Kind {
	case command.SetRange:
		if c.Preset != "" {
			_, err := daterange.Resolve(c.Preset, m.deps.Now(), sprintOf(m.cfg))
			return err
		}
	case command.FilterMember:
		if _, ok := m.findMember(c.Member); !ok {
			return fmt.Errorf("no team member matches %q", c.Member)
		}
	}
	return nil
}

// findMember looks a member up by account ID or display name, ignoring
// case.
func (m Model) findMember(q string) (model.TeamMemberTimeData, bool) {
	if m.data == nil {
		return model.TeamMemberTimeData{}, false
	}
	for _, tm := range m.data.TeamMembers {
		if tm.AccountID == q || strings.EqualFold(tm.DisplayName, q) {
			return tm, true
		}
	}
	return model.TeamMemberTimeData{}, false
}

// Close releases the provider's resources.
func (m Model) Close() error {
	return m.closeFn()
}

// Range returns the selected range.
func (m Model) Range() daterange.Range { return m.rng }

// Data returns the data currently shown, or nil.
func (m Model) Data() *dashboard.Data { return m.data }

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState { return m.currentView }

func identityName(id *source.Identity) string {
	if id == nil {
		return ""
	}
	return id.DisplayName
}
