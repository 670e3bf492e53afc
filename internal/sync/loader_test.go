package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nhle/worklog-dashboard/internal/dashboard"
	"github.com/nhle/worklog-dashboard/internal/daterange"
)

// stubProvider answers every load with a Data for the requested range.
type stubProvider struct {
	err       error
	refreshed int
}

func (s *stubProvider) Load(_ context.Context, rng daterange.Range) (*dashboard.Data, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dashboard.Data{Range: rng}, nil
}

func (s *stubProvider) Refresh(ctx context.Context, rng daterange.Range) (*dashboard.Data, error) {
	s.refreshed++
	return s.Load(ctx, rng)
}

func mustRange(t *testing.T, start, end string) daterange.Range {
	t.Helper()
	rng, err := daterange.ParseIn(start, end, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	return rng
}

func TestLastRequestWins(t *testing.T) {
	l := New(&stubProvider{}, 0)
	first := l.Request(mustRange(t, "2025-01-01", "2025-01-14"))
	second := l.Request(mustRange(t, "2025-02-01", "2025-02-14"))

	// Run the commands in reverse order: the slow first request finishes last.
	secondMsg := second().(LoadedMsg)
	firstMsg := first().(LoadedMsg)

	if !l.Accept(secondMsg) {
		t.Error("expected latest response to be accepted")
	}
	if l.Accept(firstMsg) {
		t.Error("expected stale response to be discarded")
	}
	if secondMsg.Data.Range.StartString() != "2025-02-01" {
		t.Errorf("unexpected range %s", secondMsg.Data.Range)
	}
}

func TestStaleErrorDiscarded(t *testing.T) {
	p := &stubProvider{err: errors.New("boom")}
	l := New(p, 0)

	failing := l.Request(mustRange(t, "2025-01-01", "2025-01-14"))
	msg := failing().(LoadedMsg)
	l.Request(mustRange(t, "2025-02-01", "2025-02-14"))

	if msg.Err == nil {
		t.Fatal("expected error from provider")
	}
	if l.Accept(msg) {
		t.Error("expected stale error to be discarded")
	}
}

func TestGenerationIncreases(t *testing.T) {
	l := New(&stubProvider{}, 0)
	if l.Generation() != 0 {
		t.Fatalf("expected generation 0, got %d", l.Generation())
	}
	rng := mustRange(t, "2025-01-01", "2025-01-14")
	l.Request(rng)
	l.Refresh(rng)
	if l.Generation() != 2 {
		t.Errorf("expected generation 2, got %d", l.Generation())
	}
}

func TestRefreshUsesProviderRefresh(t *testing.T) {
	p := &stubProvider{}
	l := New(p, 0)

	msg := l.Refresh(mustRange(t, "2025-01-01", "2025-01-14"))().(LoadedMsg)
	if !l.Accept(msg) || p.refreshed != 1 {
		t.Errorf("expected accepted refresh, refreshed=%d", p.refreshed)
	}
}

func TestTickDisabled(t *testing.T) {
	if New(&stubProvider{}, 0).Tick() != nil {
		t.Error("expected nil tick when refresh is disabled")
	}
	if New(&stubProvider{}, time.Minute).Tick() == nil {
		t.Error("expected tick command when refresh is enabled")
	}
}

func TestSetProviderKeepsGeneration(t *testing.T) {
	l := New(&stubProvider{}, 0)
	rng := mustRange(t, "2025-01-01", "2025-01-14")
	old := l.Request(rng)

	l.SetProvider(&stubProvider{})
	current := l.Request(rng)

	oldMsg := old().(LoadedMsg)
	if l.Accept(oldMsg) {
		t.Error("expected load from the previous provider to be discarded")
	}
	if !l.Accept(current().(LoadedMsg)) {
		t.Error("expected load from the new provider to be accepted")
	}
}

func TestSetProviderEndsTickChain(t *testing.T) {
	l := New(&stubProvider{}, time.Minute)
	stale := RefreshTickMsg{Epoch: l.Epoch()}

	l.SetProvider(&stubProvider{})
	if l.CurrentTick(stale) {
		t.Error("expected tick from the previous provider to be stale")
	}
	if !l.CurrentTick(RefreshTickMsg{Epoch: l.Epoch()}) {
		t.Error("expected tick of the live chain to be current")
	}
}
