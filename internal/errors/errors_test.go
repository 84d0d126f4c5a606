package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{
		Field:   "local",
		Message: "exactly one forwarding combination must be set",
	}

	expected := "validation error for local: exactly one forwarding combination must be set"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}

	if !IsValidationError(err) {
		t.Error("IsValidationError should return true for ValidationError")
	}
}

func TestUserError(t *testing.T) {
	err := NewUserError("bad selector", "use exactly one of --name, --group, --all")

	if err.Error() != "bad selector" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !IsUserError(err) {
		t.Error("IsUserError should return true")
	}
	if got := UserSuggestion(err); got != "use exactly one of --name, --group, --all" {
		t.Errorf("UserSuggestion = %q", got)
	}
}

func TestWrapUserErrorUnwraps(t *testing.T) {
	cause := errors.New("yaml: line 3: mapping values are not allowed")
	err := WrapUserError(cause, "invalid config file", "check the YAML syntax")

	if !errors.Is(err, cause) {
		t.Error("wrapped cause must survive errors.Is")
	}
	if !strings.Contains(err.Error(), "invalid config file") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestProcessError(t *testing.T) {
	cause := errors.New("operation not permitted")

	withPID := &ProcessError{Tunnel: "web", PID: 4242, Err: cause}
	if got := withPID.Error(); !strings.Contains(got, "4242") || !strings.Contains(got, "web") {
		t.Errorf("Error() = %q", got)
	}

	noPID := &ProcessError{Tunnel: "web", Err: cause}
	if strings.Contains(noPID.Error(), "pid") {
		t.Errorf("unstarted process must not report a pid: %q", noPID.Error())
	}

	if !IsProcessError(fmt.Errorf("start failed: %w", withPID)) {
		t.Error("IsProcessError should see through wrapping")
	}
	if !errors.Is(withPID, cause) {
		t.Error("cause must survive errors.Is")
	}
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("tunnel", "websrv")

	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
	if !IsUserError(err) {
		t.Error("NotFoundError is a UserError")
	}
	if !strings.Contains(err.Error(), `tunnel "websrv" not found`) {
		t.Errorf("Error() = %q", err.Error())
	}
	if !strings.Contains(UserSuggestion(err), "tnl list") {
		t.Errorf("suggestion should mention 'tnl list': %q", UserSuggestion(err))
	}

	if IsNotFound(NewUserError("some other problem", "")) {
		t.Error("plain UserError must not report as not-found")
	}
	if IsNotFound(errors.New("generic")) {
		t.Error("generic error must not report as not-found")
	}
}

func TestUserSuggestionForUnknownError(t *testing.T) {
	if got := UserSuggestion(errors.New("boom")); got != "" {
		t.Errorf("UserSuggestion for generic error = %q, want empty", got)
	}
}

func TestTypeCheckersRejectGenericErrors(t *testing.T) {
	generic := errors.New("generic error")
	for name, checker := range map[string]func(error) bool{
		"IsValidationError": IsValidationError,
		"IsUserError":       IsUserError,
		"IsProcessError":    IsProcessError,
	} {
		if checker(generic) {
			t.Errorf("%s returned true for a generic error", name)
		}
		if checker(nil) {
			t.Errorf("%s returned true for nil", name)
		}
	}
}
