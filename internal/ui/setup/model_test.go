package setup

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/worklog-dashboard/internal/model"
	"github.com/nhle/worklog-dashboard/internal/source"
)

func TestParseProjectKeys(t *testing.T) {
	got := ParseProjectKeys(" proj, ops ,,  ")
	if strings.Join(got, ",") != "PROJ,OPS" {
		t.Errorf("unexpected keys %v", got)
	}
	if got := ParseProjectKeys(""); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestValidateEmail(t *testing.T) {
	for _, bad := range []string{"", "   ", "nobody", "@acme.com", "me@"} {
		if validateEmail(bad) == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
	if err := validateEmail("me@acme.com"); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func newValidating(validate ValidateFunc, save SaveFunc) Model {
	m := New(validate, save, 80, 24)
	m.vals = &values{domain: " acme ", email: "me@acme.com", token: "tok", projectKeys: "proj"}
	m, _ = m.startValidation()
	return m
}

func TestValidationSuccessSaves(t *testing.T) {
	var saved Connection
	m := newValidating(
		func(context.Context, Connection) (*source.Identity, error) {
			return &source.Identity{DisplayName: "Me"}, nil
		},
		func(c Connection) error { saved = c; return nil },
	)

	if m.Mode() != ModeValidating {
		t.Fatalf("expected validating mode, got %v", m.Mode())
	}
	if m.conn.Jira.Domain != "acme" || strings.Join(m.conn.Jira.ProjectKeys, ",") != "PROJ" {
		t.Errorf("unexpected connection %+v", m.conn)
	}

	m, cmd := m.Update(validatedMsg{identity: &source.Identity{DisplayName: "Me"}})
	if saved.Token != "tok" {
		t.Errorf("expected connection to be saved, got %+v", saved)
	}
	done, ok := cmd().(DoneMsg)
	if !ok || done.Identity.DisplayName != "Me" {
		t.Errorf("expected DoneMsg, got %#v", cmd())
	}
}

func TestValidationFailureShowsMessage(t *testing.T) {
	m := newValidating(nil, func(Connection) error {
		t.Error("must not save a failed connection")
		return nil
	})

	authErr := &source.Error{Code: source.CodeAuthFailed, Message: "Authentication failed."}
	m, _ = m.Update(validatedMsg{err: authErr})
	if m.Mode() != ModeFailed {
		t.Fatalf("expected failed mode, got %v", m.Mode())
	}
	if !strings.Contains(m.View(), "Authentication failed.") {
		t.Error("expected the user message in the view")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.Mode() != ModeForm {
		t.Errorf("expected retry to reopen the form, got %v", m.Mode())
	}
}

func TestSaveFailure(t *testing.T) {
	m := newValidating(nil, func(Connection) error { return errors.New("keyring locked") })

	m, _ = m.Update(validatedMsg{identity: &source.Identity{}})
	if m.Mode() != ModeFailed || !strings.Contains(m.err.Error(), "keyring locked") {
		t.Errorf("expected save failure, got mode %v err %v", m.Mode(), m.err)
	}
}

func TestStartPrefillsWithoutToken(t *testing.T) {
	m := New(nil, nil, 80, 24)
	m.Start(model.JiraConfig{Domain: "acme", Email: "me@acme.com", ProjectKeys: []string{"A", "B"}})

	if m.vals.domain != "acme" || m.vals.projectKeys != "A, B" || m.vals.token != "" {
		t.Errorf("unexpected prefill %+v", m.vals)
	}
}
