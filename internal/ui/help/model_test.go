package help

import (
	"strings"
	"testing"

	"github.com/nhle/worklog-dashboard/internal/keys"
)

func TestViewListsBindingsCommandsAndPresets(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 50)
	out := m.View()

	for _, want := range []string{"date range", "sort column", ":range <preset>", ":member <name>", "this-sprint", "last-30"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q", want)
		}
	}
}
