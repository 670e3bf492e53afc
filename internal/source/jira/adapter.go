package jira

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/nhle/worklog-dashboard/internal/daterange"
	"github.com/nhle/worklog-dashboard/internal/model"
	"github.com/nhle/worklog-dashboard/internal/source"
)

const (
	searchPageSize  = 50
	worklogPageSize = 1000
	searchFields    = "summary,status,assignee,project"
)

// Adapter implements source.WorklogSource for Jira Cloud.
type Adapter struct {
	client      *Client
	projectKeys []string
	concurrency int
	log         zerolog.Logger
}

var _ source.WorklogSource = (*Adapter)(nil)

// NewAdapter creates a Jira worklog source scoped to projectKeys. Issue
// worklogs are fetched by up to concurrency requests at a time.
func NewAdapter(
	client *Client,
	projectKeys []string,
	concurrency int,
	log zerolog.Logger,
) *Adapter {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Adapter{
		client:      client,
		projectKeys: projectKeys,
		concurrency: concurrency,
		log:         log,
	}
}

// ValidateConnection verifies credentials by calling GET /rest/api/3/myself.
func (a *Adapter) ValidateConnection(ctx context.Context) (*source.Identity, error) {
	var me Myself
	if err := a.client.Get(ctx, "/rest/api/3/myself", &me); err != nil {
		return nil, fmt.Errorf("validating Jira connection: %w", err)
	}
	return &source.Identity{
		AccountID:    me.AccountID,
		DisplayName:  me.DisplayName,
		EmailAddress: me.EmailAddress,
	}, nil
}

// FetchWorklogs finds every issue with work logged inside rng, then loads
// each issue's full worklog list and keeps the entries started inside rng.
// Groups follow the order of the search results.
func (a *Adapter) FetchWorklogs(
	ctx context.Context,
	rng daterange.Range,
) (*source.WorklogSet, error) {
	issues, err := a.searchIssues(ctx, worklogJQL(a.projectKeys, rng))
	if err != nil {
		return nil, err
	}

	perIssue := make([][]model.RawWorklog, len(issues))
	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(a.concurrency)

	for i, issue := range issues {
		p.Go(func(ctx context.Context) error {
			worklogs, err := a.issueWorklogs(ctx, issue.Key)
			if err != nil {
				return err
			}
			perIssue[i] = inRange(worklogs, rng)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	set := &source.WorklogSet{
		Issues:   issues,
		Worklogs: make([]model.IssueWorklogs, 0, len(issues)),
	}
	for i, issue := range issues {
		if len(perIssue[i]) == 0 {
			continue
		}
		set.Worklogs = append(set.Worklogs, model.IssueWorklogs{
			IssueKey: issue.Key,
			Worklogs: perIssue[i],
		})
	}

	a.log.Info().
		Str("range", rng.Key()).
		Int("issues", len(set.Issues)).
		Int("issues_with_worklogs", len(set.Worklogs)).
		Msg("fetched jira worklogs")

	return set, nil
}

// searchIssues pages through the search API, dropping duplicate keys.
func (a *Adapter) searchIssues(ctx context.Context, jql string) ([]model.RawIssue, error) {
	var issues []model.RawIssue
	seen := make(map[string]bool)
	startAt := 0

	for {
		q := url.Values{}
		q.Set("jql", jql)
		q.Set("fields", searchFields)
		q.Set("startAt", strconv.Itoa(startAt))
		q.Set("maxResults", strconv.Itoa(searchPageSize))

		var page SearchResponse
		if err := a.client.Get(ctx, "/rest/api/3/search?"+q.Encode(), &page); err != nil {
			return nil, fmt.Errorf("searching Jira issues: %w", err)
		}

		for _, issue := range page.Issues {
			if seen[issue.Key] {
				continue
			}
			seen[issue.Key] = true
			issues = append(issues, issue)
		}

		startAt += len(page.Issues)
		if len(page.Issues) == 0 || startAt >= page.Total {
			break
		}
	}

	return issues, nil
}

// issueWorklogs loads all worklog pages of one issue.
func (a *Adapter) issueWorklogs(ctx context.Context, key string) ([]model.RawWorklog, error) {
	var worklogs []model.RawWorklog

	for {
		q := url.Values{}
		q.Set("startAt", strconv.Itoa(len(worklogs)))
		q.Set("maxResults", strconv.Itoa(worklogPageSize))
		path := "/rest/api/3/issue/" + url.PathEscape(key) + "/worklog?" + q.Encode()

		var page WorklogPage
		if err := a.client.Get(ctx, path, &page); err != nil {
			return nil, fmt.Errorf("fetching worklogs for %s: %w", key, err)
		}

		worklogs = append(worklogs, page.Worklogs...)
		if len(page.Worklogs) == 0 || len(worklogs) >= page.Total {
			break
		}
	}

	return worklogs, nil
}

// inRange keeps the worklogs started inside rng. Worklogs with an
// unparseable start time are dropped.
func inRange(worklogs []model.RawWorklog, rng daterange.Range) []model.RawWorklog {
	var kept []model.RawWorklog
	for _, wl := range worklogs {
		started, ok := parseJiraTime(wl.Started)
		if ok && rng.Contains(started) {
			kept = append(kept, wl)
		}
	}
	return kept
}

// worklogJQL selects issues of the configured projects with work logged
// inside rng.
func worklogJQL(projectKeys []string, rng daterange.Range) string {
	var clauses []string
	if len(projectKeys) > 0 {
		quoted := make([]string, len(projectKeys))
		for i, k := range projectKeys {
			quoted[i] = `"` + escapeJQL(k) + `"`
		}
		clauses = append(clauses, "project IN ("+strings.Join(quoted, ", ")+")")
	}
	clauses = append(clauses,
		fmt.Sprintf(`worklogDate >= "%s"`, rng.StartString()),
		fmt.Sprintf(`worklogDate <= "%s"`, rng.EndString()),
	)
	return strings.Join(clauses, " AND ")
}

// parseJiraTime parses a Jira timestamp such as
// "2025-01-15T09:00:00.000+0000".
func parseJiraTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	layouts := []string{
		"2006-01-02T15:04:05.000-0700",
		"2006-01-02T15:04:05-0700",
		time.RFC3339Nano,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// escapeJQL escapes special characters in a JQL string literal.
func escapeJQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
