package model

import "time"

// Snapshot is the raw result of one fetch for a date range, kept so the
// dashboard can be rebuilt without calling Jira again.
type Snapshot struct {
	ID        string
	RangeKey  string
	StartDate string
	EndDate   string
	FetchedAt time.Time
	Issues    []RawIssue
	Worklogs  []IssueWorklogs
}
