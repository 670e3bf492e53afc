package model

import "encoding/json"

// User is a Jira Cloud user reference as it appears on issues and worklogs.
type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Active       bool   `json:"active,omitempty"`
}

// Status is the workflow status of an issue.
type Status struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// ProjectRef identifies the project an issue belongs to.
type ProjectRef struct {
	ID   string `json:"id,omitempty"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// IssueFields holds the subset of issue fields the dashboard requests.
type IssueFields struct {
	Summary  string     `json:"summary"`
	Status   Status     `json:"status"`
	Assignee *User      `json:"assignee"`
	Project  ProjectRef `json:"project"`
}

// RawIssue is an issue as returned by the Jira search API. It is
// read-only once decoded.
type RawIssue struct {
	ID     string      `json:"id,omitempty"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// RawWorklog is a single time-logging record of one issue. The owning
// issue key is carried by IssueWorklogs, not by the worklog itself.
type RawWorklog struct {
	ID               string `json:"id"`
	Author           User   `json:"author"`
	TimeSpentSeconds int64  `json:"timeSpentSeconds"`
	Started          string `json:"started"`

	// Comment is either a plain string (API v2 style) or an Atlassian
	// Document Format object (API v3). Only strings survive normalization.
	Comment json.RawMessage `json:"comment,omitempty"`
}

// IssueWorklogs is one entry of the issue-key to worklog-list mapping.
// A slice of IssueWorklogs keeps the mapping's iteration order explicit.
type IssueWorklogs struct {
	IssueKey string       `json:"issueKey"`
	Worklogs []RawWorklog `json:"worklogs"`
}
