package worklog

import (
	"cmp"
	"slices"

	"github.com/nhle/worklog-dashboard/internal/model"
)

// group is a run of entries sharing one grouping key.
type group struct {
	key     string
	entries []model.WorklogEntry
}

// groupBy partitions entries by key, keeping groups in order of first
// appearance and entries in input order within each group.
func groupBy(
	entries []model.WorklogEntry,
	key func(model.WorklogEntry) string,
) []group {
	var groups []group
	index := make(map[string]int)

	for _, e := range entries {
		k := key(e)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group{key: k})
		}
		groups[i].entries = append(groups[i].entries, e)
	}

	return groups
}

// totalSeconds sums the logged seconds of entries.
func totalSeconds(entries []model.WorklogEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.TimeSpentSeconds
	}
	return total
}

// distinct returns the distinct values of field in order of first appearance.
func distinct(
	entries []model.WorklogEntry,
	field func(model.WorklogEntry) string,
) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, e := range entries {
		v := field(e)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}

// sortByHoursDesc orders items by hours descending. Ties keep their
// relative order.
func sortByHoursDesc[T any](items []T, hours func(T) float64) {
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(hours(b), hours(a))
	})
}
