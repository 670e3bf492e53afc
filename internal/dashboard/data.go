package dashboard

import (
	"time"

	"github.com/nhle/worklog-dashboard/internal/daterange"
	"github.com/nhle/worklog-dashboard/internal/hours"
	"github.com/nhle/worklog-dashboard/internal/model"
	"github.com/nhle/worklog-dashboard/internal/worklog"
)

// Data is everything the dashboard shows for one date range.
type Data struct {
	Range       daterange.Range
	Issues      []model.RawIssue
	Entries     []model.WorklogEntry
	Projects    []model.ProjectTimeData
	TeamMembers []model.TeamMemberTimeData
	FetchedAt   time.Time

	// FromCache is set when the data was served without calling Jira.
	FromCache bool
}

// Summary holds the headline totals of a view.
type Summary struct {
	TotalHours   float64 `json:"totalHours"`
	EntryCount   int     `json:"entryCount"`
	TicketCount  int     `json:"ticketCount"`
	ProjectCount int     `json:"projectCount"`
	MemberCount  int     `json:"memberCount"`
}

// MemberView is the dashboard narrowed to one team member.
type MemberView struct {
	AccountID   string
	DisplayName string
	Entries     []model.WorklogEntry
	Projects    []model.ProjectTimeData
}

// Build normalizes raw fetch results and runs every aggregation.
func Build(rng daterange.Range, issues []model.RawIssue, groups []model.IssueWorklogs, fetchedAt time.Time) *Data {
	entries := worklog.Normalize(issues, groups)
	return &Data{
		Range:       rng,
		Issues:      issues,
		Entries:     entries,
		Projects:    worklog.AggregateByProject(entries, issues),
		TeamMembers: worklog.AggregateByTeamMember(entries),
		FetchedAt:   fetchedAt,
	}
}

// Summary totals the whole range. TotalHours is rounded once from the
// summed seconds, so it can differ slightly from the sum of project hours.
func (d *Data) Summary() Summary {
	return summarize(d.Entries)
}

// ForMember re-aggregates the projects from accountID's entries only.
// An empty accountID returns the unfiltered view.
func (d *Data) ForMember(accountID string) MemberView {
	if accountID == "" {
		return MemberView{Entries: d.Entries, Projects: d.Projects}
	}

	view := MemberView{AccountID: accountID}
	for _, m := range d.TeamMembers {
		if m.AccountID == accountID {
			view.DisplayName = m.DisplayName
			break
		}
	}
	view.Entries = worklog.FilterByAuthor(d.Entries, accountID)
	view.Projects = worklog.AggregateByProject(view.Entries, d.Issues)
	return view
}

// Summary totals the member's entries.
func (v MemberView) Summary() Summary {
	return summarize(v.Entries)
}

func summarize(entries []model.WorklogEntry) Summary {
	var seconds int64
	tickets := make(map[string]bool)
	projects := make(map[string]bool)
	members := make(map[string]bool)

	for _, e := range entries {
		seconds += e.TimeSpentSeconds
		tickets[e.IssueKey] = true
		projects[e.ProjectKey] = true
		members[e.Author.AccountID] = true
	}

	return Summary{
		TotalHours:   hours.SecondsToHours(seconds),
		EntryCount:   len(entries),
		TicketCount:  len(tickets),
		ProjectCount: len(projects),
		MemberCount:  len(members),
	}
}
