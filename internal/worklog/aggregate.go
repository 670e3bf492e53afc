package worklog

import (
	"github.com/nhle/worklog-dashboard/internal/hours"
	"github.com/nhle/worklog-dashboard/internal/model"
)

// AggregateByTicket groups entries by issue key. Assignee and status come
// from the matching issue; when the issue is missing they fall back to
// "Unassigned" and "Unknown". Results are sorted by hours descending.
func AggregateByTicket(
	entries []model.WorklogEntry,
	issues []model.RawIssue,
) []model.TicketTimeData {
	if len(entries) == 0 {
		return []model.TicketTimeData{}
	}

	issueByKey := indexIssues(issues)
	groups := groupBy(entries, func(e model.WorklogEntry) string {
		return e.IssueKey
	})

	tickets := make([]model.TicketTimeData, 0, len(groups))
	for _, g := range groups {
		assignee := model.UnassignedName
		status := model.UnknownStatus
		if issue, ok := issueByKey[g.key]; ok {
			if issue.Fields.Assignee != nil {
				assignee = issue.Fields.Assignee.DisplayName
			}
			status = issue.Fields.Status.Name
		}

		tickets = append(tickets, model.TicketTimeData{
			IssueKey:   g.key,
			Summary:    g.entries[0].IssueSummary,
			TotalHours: hours.SecondsToHours(totalSeconds(g.entries)),
			Assignee:   assignee,
			Status:     status,
			Worklogs:   g.entries,
		})
	}

	sortByHoursDesc(tickets, func(t model.TicketTimeData) float64 {
		return t.TotalHours
	})
	return tickets
}

// AggregateByProject groups entries by project key and nests the ticket
// breakdown of each project. Results are sorted by hours descending.
func AggregateByProject(
	entries []model.WorklogEntry,
	issues []model.RawIssue,
) []model.ProjectTimeData {
	if len(entries) == 0 {
		return []model.ProjectTimeData{}
	}

	groups := groupBy(entries, func(e model.WorklogEntry) string {
		return e.ProjectKey
	})

	projects := make([]model.ProjectTimeData, 0, len(groups))
	for _, g := range groups {
		issueKeys := distinct(g.entries, func(e model.WorklogEntry) string {
			return e.IssueKey
		})
		contributors := distinct(g.entries, func(e model.WorklogEntry) string {
			return e.Author.DisplayName
		})

		projects = append(projects, model.ProjectTimeData{
			ProjectKey:   g.key,
			ProjectName:  g.entries[0].ProjectName,
			TotalHours:   hours.SecondsToHours(totalSeconds(g.entries)),
			TicketCount:  len(issueKeys),
			Contributors: contributors,
			Tickets:      AggregateByTicket(g.entries, issues),
		})
	}

	sortByHoursDesc(projects, func(p model.ProjectTimeData) float64 {
		return p.TotalHours
	})
	return projects
}

// AggregateByTeamMember groups entries by author account id. The display
// name of the first entry seen for an account is kept even if later
// entries report a different one. Results are sorted by hours descending.
func AggregateByTeamMember(
	entries []model.WorklogEntry,
) []model.TeamMemberTimeData {
	if len(entries) == 0 {
		return []model.TeamMemberTimeData{}
	}

	groups := groupBy(entries, func(e model.WorklogEntry) string {
		return e.Author.AccountID
	})

	members := make([]model.TeamMemberTimeData, 0, len(groups))
	for _, g := range groups {
		members = append(members, model.TeamMemberTimeData{
			AccountID:   g.key,
			DisplayName: g.entries[0].Author.DisplayName,
			TotalHours:  hours.SecondsToHours(totalSeconds(g.entries)),
			ProjectKeys: distinct(g.entries, func(e model.WorklogEntry) string {
				return e.ProjectKey
			}),
			Worklogs: g.entries,
		})
	}

	sortByHoursDesc(members, func(m model.TeamMemberTimeData) float64 {
		return m.TotalHours
	})
	return members
}
