package daterange

import (
	"fmt"
	"time"
)

// PresetID names a predefined range.
type PresetID string

const (
	ThisSprint PresetID = "this-sprint"
	LastSprint PresetID = "last-sprint"
	ThisMonth  PresetID = "this-month"
	Last30Days PresetID = "last-30"
)

// Preset is a selectable predefined range.
type Preset struct {
	ID    PresetID `json:"id"`
	Label string   `json:"label"`
}

// Presets lists the predefined ranges in display order.
var Presets = []Preset{
	{ID: ThisSprint, Label: "This Sprint"},
	{ID: LastSprint, Label: "Last Sprint"},
	{ID: ThisMonth, Label: "This Month"},
	{ID: Last30Days, Label: "Last 30 Days"},
}

// Sprint describes a fixed-length sprint cadence anchored at StartDate
// (YYYY-MM-DD).
type Sprint struct {
	StartDate  string
	LengthDays int
}

// Resolve computes the range of preset id relative to now.
func Resolve(id PresetID, now time.Time, sprint Sprint) (Range, error) {
	today := midnight(now)

	switch id {
	case ThisSprint, LastSprint:
		start, err := time.ParseInLocation(Layout, sprint.StartDate, now.Location())
		if err != nil {
			return Range{}, fmt.Errorf("parsing sprint start date %q: %w", sprint.StartDate, err)
		}
		if sprint.LengthDays < 1 {
			return Range{}, fmt.Errorf("sprint length must be positive, got %d", sprint.LengthDays)
		}

		n := sprintNumber(today, start, sprint.LengthDays)
		if id == LastSprint {
			n = max(0, n-1)
		}
		s := start.AddDate(0, 0, n*sprint.LengthDays)
		return Range{Start: s, End: s.AddDate(0, 0, sprint.LengthDays-1)}, nil

	case ThisMonth:
		first := today.AddDate(0, 0, 1-today.Day())
		return Range{Start: first, End: first.AddDate(0, 1, -1)}, nil

	case Last30Days:
		return Range{Start: today.AddDate(0, 0, -29), End: today}, nil
	}

	return Range{}, fmt.Errorf("unknown preset %q", id)
}

// sprintNumber returns the zero-based sprint date falls in; dates before
// the first sprint map to sprint 0.
func sprintNumber(date, sprintStart time.Time, lengthDays int) int {
	days := daysBetween(sprintStart, date)
	if days < 0 {
		return 0
	}
	return days / lengthDays
}

// LookupPreset returns the preset with the given id.
func LookupPreset(id string) (Preset, bool) {
	for _, p := range Presets {
		if string(p.ID) == id {
			return p, true
		}
	}
	return Preset{}, false
}

// DefaultPreset is the range shown on startup: the current sprint when a
// sprint cadence is configured, otherwise the last 30 days.
func DefaultPreset(sprint Sprint) Preset {
	id := Last30Days
	if sprint.StartDate != "" {
		id = ThisSprint
	}
	p, _ := LookupPreset(string(id))
	return p
}
