package jira

import "github.com/nhle/worklog-dashboard/internal/model"

// SearchResponse is the response from GET /rest/api/3/search.
type SearchResponse struct {
	StartAt    int              `json:"startAt"`
	MaxResults int              `json:"maxResults"`
	Total      int              `json:"total"`
	Issues     []model.RawIssue `json:"issues"`
}

// WorklogPage is one page of GET /rest/api/3/issue/{key}/worklog.
type WorklogPage struct {
	StartAt    int                `json:"startAt"`
	MaxResults int                `json:"maxResults"`
	Total      int                `json:"total"`
	Worklogs   []model.RawWorklog `json:"worklogs"`
}

// Myself is the response from GET /rest/api/3/myself.
type Myself struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	Active       bool   `json:"active"`
}

// ErrorResponse is the standard Jira error response format.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}
