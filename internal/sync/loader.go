// Package sync runs dashboard loads off the Bubble Tea event loop and
// makes sure only the most recent request's result is applied.
package sync

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/worklog-dashboard/internal/dashboard"
	"github.com/nhle/worklog-dashboard/internal/daterange"
)

// loadTimeout is the maximum time allowed for a single load.
const loadTimeout = 2 * time.Minute

// LoadedMsg is a tea.Msg sent when a load completes.
type LoadedMsg struct {
	Generation uint64
	Range      daterange.Range
	Data       *dashboard.Data
	Err        error
}

// RefreshTickMsg is a tea.Msg sent when the periodic refresh is due.
type RefreshTickMsg struct {
	Time  time.Time
	Epoch uint64
}

// Loader issues loads and tracks which one is current. Every request
// bumps the generation; a result is accepted only if no newer request
// has been issued since.
type Loader struct {
	provider dashboard.Provider
	interval time.Duration
	gen      atomic.Uint64
	epoch    atomic.Uint64
}

// New creates a Loader. A positive interval enables periodic refresh.
func New(p dashboard.Provider, interval time.Duration) *Loader {
	return &Loader{provider: p, interval: interval}
}

// SetProvider switches to p. The generation keeps counting, so loads
// issued against the previous provider stay stale, and the refresh tick
// chain of the previous provider ends.
func (l *Loader) SetProvider(p dashboard.Provider) {
	l.provider = p
	l.gen.Add(1)
	l.epoch.Add(1)
}

// Request returns a tea.Cmd that loads rng, using the cache when possible.
func (l *Loader) Request(rng daterange.Range) tea.Cmd {
	return l.run(rng, l.provider.Load)
}

// Refresh returns a tea.Cmd that reloads rng from the source.
func (l *Loader) Refresh(rng daterange.Range) tea.Cmd {
	return l.run(rng, l.provider.Refresh)
}

func (l *Loader) run(
	rng daterange.Range,
	load func(context.Context, daterange.Range) (*dashboard.Data, error),
) tea.Cmd {
	gen := l.gen.Add(1)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		data, err := load(ctx, rng)
		return LoadedMsg{Generation: gen, Range: rng, Data: data, Err: err}
	}
}

// Accept reports whether msg answers the most recent request. Stale
// results, successful or not, must be discarded.
func (l *Loader) Accept(msg LoadedMsg) bool {
	return msg.Generation == l.gen.Load()
}

// Generation returns the generation of the most recent request.
func (l *Loader) Generation() uint64 {
	return l.gen.Load()
}

// Tick returns a tea.Cmd that fires a RefreshTickMsg after the refresh
// interval, or nil when refreshing is disabled.
func (l *Loader) Tick() tea.Cmd {
	if l.interval <= 0 {
		return nil
	}
	epoch := l.epoch.Load()
	return tea.Tick(l.interval, func(t time.Time) tea.Msg {
		return RefreshTickMsg{Time: t, Epoch: epoch}
	})
}

// Epoch identifies the live tick chain.
func (l *Loader) Epoch() uint64 {
	return l.epoch.Load()
}

// CurrentTick reports whether msg belongs to the live tick chain. Ticks
// scheduled before the last SetProvider must not reschedule themselves.
func (l *Loader) CurrentTick(msg RefreshTickMsg) bool {
	return msg.Epoch == l.epoch.Load()
}
