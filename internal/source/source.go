package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/worklog-dashboard/internal/daterange"
	"github.com/nhle/worklog-dashboard/internal/model"
)

// ErrorCode classifies a failed fetch.
type ErrorCode string

const (
	CodeAuthFailed   ErrorCode = "auth_failed"
	CodeRateLimited  ErrorCode = "rate_limited"
	CodeNetworkError ErrorCode = "network_error"
	CodeTimeout      ErrorCode = "timeout"
	CodeUnknown      ErrorCode = "unknown"
)

// Error is returned by source clients for every failed request. Message
// is suitable for showing to the user as-is.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf returns the classification of err, or CodeUnknown when err is
// not a source error.
func CodeOf(err error) ErrorCode {
	var srcErr *Error
	if errors.As(err, &srcErr) {
		return srcErr.Code
	}
	return CodeUnknown
}

// IsAuthError reports whether err (or any error in its chain) is an
// authentication failure.
func IsAuthError(err error) bool {
	return CodeOf(err) == CodeAuthFailed
}

// UserMessage returns the single message shown to the user for err.
func UserMessage(err error) string {
	var srcErr *Error
	if errors.As(err, &srcErr) {
		return srcErr.Message
	}
	return err.Error()
}

// WorklogSet is the raw result of fetching a date range: the matching
// issues, deduplicated by key, and their in-range worklogs grouped by
// issue key. Only issues with at least one in-range worklog have a group.
type WorklogSet struct {
	Issues   []model.RawIssue      `json:"issues"`
	Worklogs []model.IssueWorklogs `json:"worklogs"`
}

// Identity describes the account a source is authenticated as.
type Identity struct {
	AccountID    string
	DisplayName  string
	EmailAddress string
}

// WorklogSource is the contract every issue-tracker integration implements.
type WorklogSource interface {
	// ValidateConnection verifies credentials and connectivity.
	ValidateConnection(ctx context.Context) (*Identity, error)

	// FetchWorklogs retrieves issues and worklogs logged inside rng.
	FetchWorklogs(ctx context.Context, rng daterange.Range) (*WorklogSet, error)
}
