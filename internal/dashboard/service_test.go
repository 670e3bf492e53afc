package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/worklog-dashboard/internal/cache"
	"github.com/nhle/worklog-dashboard/internal/daterange"
	"github.com/nhle/worklog-dashboard/internal/model"
	"github.com/nhle/worklog-dashboard/internal/source"
)

// fakeSource returns a fixed set and counts calls.
type fakeSource struct {
	set   *source.WorklogSet
	err   error
	calls int
}

func (f *fakeSource) ValidateConnection(context.Context) (*source.Identity, error) {
	return &source.Identity{AccountID: "me"}, nil
}

func (f *fakeSource) FetchWorklogs(context.Context, daterange.Range) (*source.WorklogSet, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.set, nil
}

var (
	alice = model.User{AccountID: "alice-1", DisplayName: "Alice"}
	bob   = model.User{AccountID: "bob-1", DisplayName: "Bob"}
)

func testIssue(key, project string) model.RawIssue {
	return model.RawIssue{
		Key: key,
		Fields: model.IssueFields{
			Summary:  "Summary " + key,
			Status:   model.Status{Name: "In Progress"},
			Assignee: &alice,
			Project:  model.ProjectRef{Key: project, Name: "Project " + project},
		},
	}
}

func testWorklog(id string, seconds int64, author model.User) model.RawWorklog {
	return model.RawWorklog{
		ID:               id,
		Author:           author,
		TimeSpentSeconds: seconds,
		Started:          "2025-01-02T09:00:00.000+0000",
	}
}

func sampleSet() *source.WorklogSet {
	return &source.WorklogSet{
		Issues: []model.RawIssue{
			testIssue("PROJ-1", "PROJ"),
			testIssue("OPS-1", "OPS"),
		},
		Worklogs: []model.IssueWorklogs{
			{IssueKey: "PROJ-1", Worklogs: []model.RawWorklog{
				testWorklog("1", 3600, alice),
				testWorklog("2", 7200, bob),
			}},
			{IssueKey: "OPS-1", Worklogs: []model.RawWorklog{
				testWorklog("3", 1800, alice),
			}},
		},
	}
}

func testRange(t *testing.T) daterange.Range {
	t.Helper()
	rng, err := daterange.ParseIn("2025-01-01", "2025-01-14", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	return rng
}

func TestLoadAggregates(t *testing.T) {
	src := &fakeSource{set: sampleSet()}
	svc := NewService(src, nil, zerolog.Nop())

	data, err := svc.Load(context.Background(), testRange(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(data.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(data.Entries))
	}
	if len(data.Projects) != 2 || data.Projects[0].ProjectKey != "PROJ" || data.Projects[0].TotalHours != 3 {
		t.Errorf("unexpected projects %+v", data.Projects)
	}
	if len(data.TeamMembers) != 2 || data.TeamMembers[0].AccountID != "bob-1" {
		t.Errorf("expected Bob first with 2h, got %+v", data.TeamMembers)
	}

	sum := data.Summary()
	want := Summary{TotalHours: 3.5, EntryCount: 3, TicketCount: 2, ProjectCount: 2, MemberCount: 2}
	if sum != want {
		t.Errorf("summary = %+v, want %+v", sum, want)
	}
}

func TestLoadUsesCache(t *testing.T) {
	src := &fakeSource{set: sampleSet()}
	svc := NewService(src, cache.New(time.Minute), zerolog.Nop())
	ctx := context.Background()

	first, err := svc.Load(ctx, testRange(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Load(ctx, testRange(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if src.calls != 1 {
		t.Errorf("expected 1 fetch, got %d", src.calls)
	}
	if first.FromCache || !second.FromCache {
		t.Errorf("unexpected FromCache flags %v %v", first.FromCache, second.FromCache)
	}
	if len(second.Projects) != len(first.Projects) {
		t.Error("cached load produced different aggregates")
	}

	if _, err := svc.Refresh(ctx, testRange(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.calls != 2 {
		t.Errorf("expected refresh to bypass the cache, got %d calls", src.calls)
	}
}

func TestLoadErrorNotCached(t *testing.T) {
	src := &fakeSource{err: &source.Error{Code: source.CodeAuthFailed, Message: "bad token"}}
	c := cache.New(time.Minute)
	svc := NewService(src, c, zerolog.Nop())

	_, err := svc.Load(context.Background(), testRange(t))
	if !source.IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if c.Len() != 0 {
		t.Error("failed fetch must not be cached")
	}

	src.err = errors.New("boom")
	if _, err := svc.Load(context.Background(), testRange(t)); err == nil {
		t.Error("expected error on second load")
	}
	if src.calls != 2 {
		t.Errorf("expected a retry after failure, got %d calls", src.calls)
	}
}

func TestLoadEmptyRange(t *testing.T) {
	svc := NewService(&fakeSource{set: &source.WorklogSet{}}, nil, zerolog.Nop())

	data, err := svc.Load(context.Background(), testRange(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Projects) != 0 || len(data.TeamMembers) != 0 || data.Summary() != (Summary{}) {
		t.Errorf("expected empty dashboard, got %+v", data)
	}
}

func TestForMember(t *testing.T) {
	set := sampleSet()
	data := Build(testRange(t), set.Issues, set.Worklogs, time.Now())

	view := data.ForMember("alice-1")
	if view.DisplayName != "Alice" {
		t.Errorf("unexpected display name %q", view.DisplayName)
	}
	if len(view.Entries) != 2 {
		t.Fatalf("expected 2 entries for Alice, got %d", len(view.Entries))
	}
	if len(view.Projects) != 2 {
		t.Fatalf("expected 2 projects for Alice, got %+v", view.Projects)
	}
	if view.Projects[0].ProjectKey != "PROJ" || view.Projects[0].TotalHours != 1 {
		t.Errorf("expected PROJ re-aggregated to 1h, got %+v", view.Projects[0])
	}
	if got := view.Projects[0].Contributors; len(got) != 1 || got[0] != "Alice" {
		t.Errorf("expected only Alice as contributor, got %v", got)
	}
	if view.Summary().TotalHours != 1.5 {
		t.Errorf("expected 1.5h total, got %v", view.Summary().TotalHours)
	}

	all := data.ForMember("")
	if len(all.Entries) != 3 || len(all.Projects) != 2 {
		t.Errorf("empty member must return the full view")
	}

	none := data.ForMember("nobody")
	if len(none.Entries) != 0 || len(none.Projects) != 0 {
		t.Errorf("unknown member must return an empty view, got %+v", none)
	}
}
