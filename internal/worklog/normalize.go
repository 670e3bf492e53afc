// Package worklog turns raw issue-tracker data into worklog entries and
// aggregates them per ticket, project and team member.
//
// Every function in this package is pure: inputs are never modified and
// each call allocates fresh results, so concurrent calls on different
// snapshots need no synchronization.
package worklog

import (
	"encoding/json"

	"github.com/nhle/worklog-dashboard/internal/model"
)

// Normalize joins each worklog group with its issue and returns the flat
// entry list. Groups whose issue key has no matching issue are dropped.
// Entries keep group order, then worklog order within a group.
func Normalize(
	issues []model.RawIssue,
	groups []model.IssueWorklogs,
) []model.WorklogEntry {
	issueByKey := indexIssues(issues)
	entries := make([]model.WorklogEntry, 0)

	for _, group := range groups {
		issue, ok := issueByKey[group.IssueKey]
		if !ok {
			continue
		}

		for _, wl := range group.Worklogs {
			entries = append(entries, model.WorklogEntry{
				ID:           wl.ID,
				IssueKey:     group.IssueKey,
				IssueSummary: issue.Fields.Summary,
				ProjectKey:   issue.Fields.Project.Key,
				ProjectName:  issue.Fields.Project.Name,
				Author: model.WorklogAuthor{
					AccountID:    wl.Author.AccountID,
					DisplayName:  wl.Author.DisplayName,
					EmailAddress: wl.Author.EmailAddress,
				},
				TimeSpentSeconds: wl.TimeSpentSeconds,
				Started:          wl.Started,
				Comment:          plainComment(wl.Comment),
			})
		}
	}

	return entries
}

// plainComment returns the comment text when the raw value is a JSON
// string. Rich-text documents, null and absent comments yield nil.
func plainComment(raw json.RawMessage) *string {
	if len(raw) == 0 || raw[0] != '"' {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// indexIssues builds a key lookup. With duplicate keys the first issue wins.
func indexIssues(issues []model.RawIssue) map[string]*model.RawIssue {
	byKey := make(map[string]*model.RawIssue, len(issues))
	for i := range issues {
		if _, exists := byKey[issues[i].Key]; !exists {
			byKey[issues[i].Key] = &issues[i]
		}
	}
	return byKey
}
