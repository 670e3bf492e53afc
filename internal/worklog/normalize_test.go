package worklog

import (
	"encoding/json"
	"testing"

	"github.com/nhle/worklog-dashboard/internal/model"
)

func TestNormalizeEmptyInput(t *testing.T) {
	got := Normalize(nil, nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestNormalizeSingleWorklog(t *testing.T) {
	issues := []model.RawIssue{makeIssue("PROJ-1", "PROJ", "Project Alpha")}
	wl := makeWorklog("wl-1", 3600, model.User{
		AccountID:    "user-1",
		DisplayName:  "Alice",
		EmailAddress: "alice@example.com",
	})
	wl.Comment = rawJSON("Fixed the bug")

	got := Normalize(issues, []model.IssueWorklogs{
		{IssueKey: "PROJ-1", Worklogs: []model.RawWorklog{wl}},
	})

	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	e := got[0]
	if e.ID != "wl-1" || e.IssueKey != "PROJ-1" {
		t.Errorf("unexpected identity: %+v", e)
	}
	if e.IssueSummary != "Summary for PROJ-1" {
		t.Errorf("expected issue summary, got %q", e.IssueSummary)
	}
	if e.ProjectKey != "PROJ" || e.ProjectName != "Project Alpha" {
		t.Errorf("unexpected project: %s / %s", e.ProjectKey, e.ProjectName)
	}
	if e.Author.AccountID != "user-1" || e.Author.DisplayName != "Alice" ||
		e.Author.EmailAddress != "alice@example.com" {
		t.Errorf("unexpected author: %+v", e.Author)
	}
	if e.TimeSpentSeconds != 3600 {
		t.Errorf("expected 3600 seconds, got %d", e.TimeSpentSeconds)
	}
	if e.Started != "2025-01-15T09:00:00.000+0000" {
		t.Errorf("expected started copied verbatim, got %q", e.Started)
	}
	if e.Comment == nil || *e.Comment != "Fixed the bug" {
		t.Errorf("expected plain comment, got %v", e.Comment)
	}
}

func TestNormalizeDropsNonStringComments(t *testing.T) {
	issues := []model.RawIssue{makeIssue("PROJ-1", "PROJ", "Project Alpha")}

	adf := makeWorklog("wl-1", 60, alice)
	adf.Comment = rawJSON(map[string]any{
		"type":    "doc",
		"version": 1,
		"content": []any{},
	})
	null := makeWorklog("wl-2", 60, alice)
	null.Comment = json.RawMessage("null")
	absent := makeWorklog("wl-3", 60, alice)

	got := Normalize(issues, []model.IssueWorklogs{
		{IssueKey: "PROJ-1", Worklogs: []model.RawWorklog{adf, null, absent}},
	})

	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for _, e := range got {
		if e.Comment != nil {
			t.Errorf("entry %s: expected nil comment, got %q", e.ID, *e.Comment)
		}
	}
}

func TestNormalizeSkipsOrphanGroups(t *testing.T) {
	issues := []model.RawIssue{makeIssue("PROJ-1", "PROJ", "Project Alpha")}

	got := Normalize(issues, []model.IssueWorklogs{
		{IssueKey: "PROJ-999", Worklogs: []model.RawWorklog{
			makeWorklog("wl-1", 3600, alice),
			makeWorklog("wl-2", 1800, alice),
		}},
		{IssueKey: "PROJ-1", Worklogs: []model.RawWorklog{
			makeWorklog("wl-3", 900, alice),
		}},
	})

	if len(got) != 1 {
		t.Fatalf("expected only the issue-backed entry, got %d", len(got))
	}
	if got[0].ID != "wl-3" {
		t.Errorf("expected wl-3, got %s", got[0].ID)
	}
}

func TestNormalizeOnlyOrphans(t *testing.T) {
	got := Normalize(nil, []model.IssueWorklogs{
		{IssueKey: "PROJ-999", Worklogs: []model.RawWorklog{makeWorklog("wl-1", 60, alice)}},
	})
	if len(got) != 0 {
		t.Fatalf("expected no entries, got %d", len(got))
	}
}

func TestNormalizePreservesGroupThenListOrder(t *testing.T) {
	issues := []model.RawIssue{
		makeIssue("PROJ-1", "PROJ", "Project Alpha"),
		makeIssue("OTHER-1", "OTHER", "Other"),
	}

	got := Normalize(issues, []model.IssueWorklogs{
		{IssueKey: "OTHER-1", Worklogs: []model.RawWorklog{
			makeWorklog("b1", 60, alice),
			makeWorklog("b2", 60, alice),
		}},
		{IssueKey: "PROJ-1", Worklogs: []model.RawWorklog{
			makeWorklog("a1", 60, alice),
		}},
	})

	want := []string{"b1", "b2", "a1"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
	if got[0].ProjectKey != "OTHER" || got[2].ProjectKey != "PROJ" {
		t.Errorf("project context not taken from owning issue: %+v", got)
	}
}

func TestNormalizeCountsMatchIssueBackedGroups(t *testing.T) {
	issues := []model.RawIssue{
		makeIssue("A-1", "A", "A"),
		makeIssue("B-1", "B", "B"),
	}
	groups := []model.IssueWorklogs{
		{IssueKey: "A-1", Worklogs: []model.RawWorklog{makeWorklog("1", 1, alice), makeWorklog("2", 1, alice)}},
		{IssueKey: "X-1", Worklogs: []model.RawWorklog{makeWorklog("3", 1, alice)}},
		{IssueKey: "B-1", Worklogs: []model.RawWorklog{makeWorklog("4", 1, alice)}},
		{IssueKey: "Y-1", Worklogs: []model.RawWorklog{makeWorklog("5", 1, alice), makeWorklog("6", 1, alice)}},
	}

	got := Normalize(issues, groups)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for _, e := range got {
		if e.IssueKey != "A-1" && e.IssueKey != "B-1" {
			t.Errorf("orphan entry leaked: %+v", e)
		}
	}
}

func TestNormalizeZeroDurationKept(t *testing.T) {
	issues := []model.RawIssue{makeIssue("PROJ-1", "PROJ", "Project Alpha")}
	got := Normalize(issues, []model.IssueWorklogs{
		{IssueKey: "PROJ-1", Worklogs: []model.RawWorklog{makeWorklog("wl-1", 0, alice)}},
	})
	if len(got) != 1 || got[0].TimeSpentSeconds != 0 {
		t.Fatalf("expected zero-duration entry to be kept, got %+v", got)
	}
}
