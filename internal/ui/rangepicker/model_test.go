package rangepicker

import (
	"testing"
	"time"

	"github.com/nhle/worklog-dashboard/internal/daterange"
)

func TestOptionsHideSprintPresetsWithoutSprint(t *testing.T) {
	m := New(daterange.Sprint{LengthDays: 14}, 80, 24)
	for _, o := range m.options() {
		if o.Value == string(daterange.ThisSprint) || o.Value == string(daterange.LastSprint) {
			t.Errorf("unexpected sprint option %q", o.Value)
		}
	}

	withSprint := New(daterange.Sprint{StartDate: "2025-01-06", LengthDays: 14}, 80, 24)
	if got := len(withSprint.options()); got != len(daterange.Presets)+1 {
		t.Errorf("expected every preset plus custom, got %d options", got)
	}
}

func TestResultResolvesPreset(t *testing.T) {
	m := New(daterange.Sprint{}, 80, 24)
	m.now = func() time.Time { return time.Date(2025, 3, 20, 15, 0, 0, 0, time.UTC) }
	m.vals = &values{choice: string(daterange.ThisMonth)}

	msg, ok := m.result()().(RangeSelectedMsg)
	if !ok {
		t.Fatal("expected RangeSelectedMsg")
	}
	if msg.Range.StartString() != "2025-03-01" || msg.Range.EndString() != "2025-03-31" {
		t.Errorf("unexpected range %s", msg.Range)
	}
	if msg.Label != "This Month" {
		t.Errorf("unexpected label %q", msg.Label)
	}
}

func TestResultParsesCustomRange(t *testing.T) {
	m := New(daterange.Sprint{}, 80, 24)
	m.vals = &values{choice: customChoice, start: "2025-01-01", end: "2025-01-14"}

	msg, ok := m.result()().(RangeSelectedMsg)
	if !ok {
		t.Fatal("expected RangeSelectedMsg")
	}
	if msg.Range.Key() != "2025-01-01|2025-01-14" {
		t.Errorf("unexpected range %s", msg.Range.Key())
	}
}

func TestResultRejectsInvertedRange(t *testing.T) {
	m := New(daterange.Sprint{}, 80, 24)
	m.vals = &values{choice: customChoice, start: "2025-01-14", end: "2025-01-01"}

	if _, ok := m.result()().(CancelledMsg); !ok {
		t.Error("expected inverted range to be rejected")
	}
}

func TestValidateDate(t *testing.T) {
	if validateDate("2025-02-30") == nil {
		t.Error("expected invalid calendar date to fail")
	}
	if validateDate("2025-02-28") != nil {
		t.Error("expected valid date to pass")
	}
}
