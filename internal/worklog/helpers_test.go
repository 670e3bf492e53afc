package worklog

import (
	"encoding/json"
	"fmt"

	"github.com/nhle/worklog-dashboard/internal/model"
)

var alice = model.User{AccountID: "user-1", DisplayName: "Alice"}

func makeIssue(key, projectKey, projectName string) model.RawIssue {
	return model.RawIssue{
		ID:  key,
		Key: key,
		Fields: model.IssueFields{
			Summary:  fmt.Sprintf("Summary for %s", key),
			Status:   model.Status{ID: "1", Name: "In Progress"},
			Assignee: &model.User{AccountID: "user-1", DisplayName: "Alice"},
			Project:  model.ProjectRef{ID: "10001", Key: projectKey, Name: projectName},
		},
	}
}

func makeWorklog(id string, seconds int64, author model.User) model.RawWorklog {
	return model.RawWorklog{
		ID:               id,
		Author:           author,
		TimeSpentSeconds: seconds,
		Started:          "2025-01-15T09:00:00.000+0000",
	}
}

func makeEntry(id, issueKey, projectKey string, seconds int64, author model.User) model.WorklogEntry {
	return model.WorklogEntry{
		ID:           id,
		IssueKey:     issueKey,
		IssueSummary: fmt.Sprintf("Summary for %s", issueKey),
		ProjectKey:   projectKey,
		ProjectName:  "Project " + projectKey,
		Author: model.WorklogAuthor{
			AccountID:   author.AccountID,
			DisplayName: author.DisplayName,
		},
		TimeSpentSeconds: seconds,
		Started:          "2025-01-15T09:00:00.000+0000",
	}
}

func rawJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
