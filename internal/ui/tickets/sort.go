package tickets

import (
	"cmp"
	"slices"
	"strings"

	"github.com/nhle/worklog-dashboard/internal/model"
)

// Column identifies a sortable ticket column.
type Column int

const (
	ColumnKey Column = iota
	ColumnSummary
	ColumnAssignee
	ColumnStatus
	ColumnHours
	columnCount
)

var columnTitles = [...]string{"Key", "Summary", "Assignee", "Status", "Hours"}

func (c Column) String() string { return columnTitles[c] }

// SortState is the active column and direction.
type SortState struct {
	Column Column
	Desc   bool
}

// DefaultSort orders tickets by hours, largest first.
var DefaultSort = SortState{Column: ColumnHours, Desc: true}

// Request applies a click on col: the same column flips direction, a new
// column starts ascending.
func (s SortState) Request(col Column) SortState {
	if s.Column == col {
		return SortState{Column: col, Desc: !s.Desc}
	}
	return SortState{Column: col}
}

// Next moves to the following column, ascending.
func (s SortState) Next() SortState {
	return s.Request((s.Column + 1) % columnCount)
}

// Sorted returns a sorted copy of tickets. Equal rows keep their order.
func Sorted(tickets []model.TicketTimeData, s SortState) []model.TicketTimeData {
	out := slices.Clone(tickets)
	slices.SortStableFunc(out, func(a, b model.TicketTimeData) int {
		c := compare(a, b, s.Column)
		if s.Desc {
			return -c
		}
		return c
	})
	return out
}

func compare(a, b model.TicketTimeData, col Column) int {
	switch col {
	case ColumnKey:
		return compareFold(a.IssueKey, b.IssueKey)
	case ColumnSummary:
		return compareFold(a.Summary, b.Summary)
	case ColumnAssignee:
		return compareFold(a.Assignee, b.Assignee)
	case ColumnStatus:
		return compareFold(a.Status, b.Status)
	default:
		return cmp.Compare(a.TotalHours, b.TotalHours)
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
