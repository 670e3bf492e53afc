package model

// Fallback values used when an issue has no assignee or cannot be found.
const (
	UnassignedName = "Unassigned"
	UnknownStatus  = "Unknown"
)

// WorklogAuthor is the flattened author of a worklog entry.
type WorklogAuthor struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// WorklogEntry is one worklog joined with the project and summary of its
// issue. Entries are created once during normalization and never modified.
type WorklogEntry struct {
	ID               string        `json:"id"`
	IssueKey         string        `json:"issueKey"`
	IssueSummary     string        `json:"issueSummary"`
	ProjectKey       string        `json:"projectKey"`
	ProjectName      string        `json:"projectName"`
	Author           WorklogAuthor `json:"author"`
	TimeSpentSeconds int64         `json:"timeSpentSeconds"`
	Started          string        `json:"started"`
	Comment          *string       `json:"comment,omitempty"`
}

// TicketTimeData aggregates all entries logged against one issue.
type TicketTimeData struct {
	IssueKey   string         `json:"issueKey"`
	Summary    string         `json:"summary"`
	TotalHours float64        `json:"totalHours"`
	Assignee   string         `json:"assignee"`
	Status     string         `json:"status"`
	Worklogs   []WorklogEntry `json:"worklogs"`
}

// ProjectTimeData aggregates all entries of one project.
type ProjectTimeData struct {
	ProjectKey  string  `json:"projectKey"`
	ProjectName string  `json:"projectName"`
	TotalHours  float64 `json:"totalHours"`

	// TicketCount is the number of distinct issues, not worklogs.
	TicketCount int `json:"ticketCount"`

	// Contributors holds distinct author display names in order of first
	// appearance.
	Contributors []string         `json:"contributors"`
	Tickets      []TicketTimeData `json:"tickets"`
}

// TeamMemberTimeData aggregates all entries of one author account.
type TeamMemberTimeData struct {
	AccountID   string         `json:"accountId"`
	DisplayName string         `json:"displayName"`
	TotalHours  float64        `json:"totalHours"`
	ProjectKeys []string       `json:"projectKeys"`
	Worklogs    []WorklogEntry `json:"worklogs"`
}
