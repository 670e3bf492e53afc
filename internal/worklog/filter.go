package worklog

import "github.com/nhle/worklog-dashboard/internal/model"

// Filter returns a new slice with the entries that satisfy keep. The
// result can be fed back into any aggregator to scope its breakdown.
func Filter(
	entries []model.WorklogEntry,
	keep func(model.WorklogEntry) bool,
) []model.WorklogEntry {
	out := make([]model.WorklogEntry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// FilterByAuthor keeps the entries logged by accountID.
func FilterByAuthor(entries []model.WorklogEntry, accountID string) []model.WorklogEntry {
	return Filter(entries, func(e model.WorklogEntry) bool {
		return e.Author.AccountID == accountID
	})
}

// FilterByProject keeps the entries of projectKey.
func FilterByProject(entries []model.WorklogEntry, projectKey string) []model.WorklogEntry {
	return Filter(entries, func(e model.WorklogEntry) bool {
		return e.ProjectKey == projectKey
	})
}
