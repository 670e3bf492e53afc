package source

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", &Error{Code: CodeRateLimited, Status: 429, Message: "slow down"})

	if got := CodeOf(wrapped); got != CodeRateLimited {
		t.Errorf("expected rate_limited, got %s", got)
	}
	if got := CodeOf(errors.New("boom")); got != CodeUnknown {
		t.Errorf("expected unknown for plain error, got %s", got)
	}
}

func TestIsAuthError(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &Error{Code: CodeAuthFailed, Status: 401, Message: "bad token"})
	if !IsAuthError(err) {
		t.Error("expected auth error to be detected through wrapping")
	}
	if IsAuthError(&Error{Code: CodeTimeout}) {
		t.Error("timeout is not an auth error")
	}
}

func TestUserMessage(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &Error{Code: CodeTimeout, Message: "Request timed out after 30 seconds."})
	if got := UserMessage(err); got != "Request timed out after 30 seconds." {
		t.Errorf("unexpected message %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestErrorString(t *testing.T) {
	e := &Error{Code: CodeAuthFailed, Status: 401, Message: "denied"}
	if e.Error() != "auth_failed (401): denied" {
		t.Errorf("unexpected error string %q", e.Error())
	}
	cause := errors.New("dial tcp")
	e = &Error{Code: CodeNetworkError, Message: "Network error", Err: cause}
	if !errors.Is(e, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
}
