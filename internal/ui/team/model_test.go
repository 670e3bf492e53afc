package team

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/worklog-dashboard/internal/keys"
	"github.com/nhle/worklog-dashboard/internal/model"
)

func TestSelectEmitsMember(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 20)
	m.SetMembers([]model.TeamMemberTimeData{
		{AccountID: "bob-1", DisplayName: "Bob", TotalHours: 2, ProjectKeys: []string{"PROJ"}},
		{AccountID: "alice-1", DisplayName: "Alice", TotalHours: 1, ProjectKeys: []string{"OPS"}},
	})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	msg, ok := cmd().(MemberSelectedMsg)
	if !ok {
		t.Fatalf("expected MemberSelectedMsg, got %T", cmd())
	}
	if msg.AccountID != "alice-1" || msg.DisplayName != "Alice" {
		t.Errorf("unexpected selection %+v", msg)
	}
}

func TestSelectOnEmptyTable(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 20)
	m.SetMembers(nil)

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("expected no command on an empty table")
	}
}
