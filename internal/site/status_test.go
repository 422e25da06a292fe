// internal/site/status_test.go
//
// Unit-tests for the lifecycle state machine.
//
// Context
// -------
// Covers the user-transition matrix (only active⇄paused), the stuck-build
// staleness window, and the shape of rejection errors.

package site

import (
	"testing"
	"time"
)

func TestCanUserTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusActive, StatusPaused},
		{StatusPaused, StatusActive},
	}
	for _, c := range allowed {
		if !CanUserTransition(c.from, c.to) {
			t.Errorf("%s → %s should be allowed", c.from, c.to)
		}
	}

	statuses := []string{StatusBuilding, StatusActive, StatusPaused, StatusFailed, StatusSuspended}
	for _, from := range statuses {
		for _, to := range statuses {
			ok := (from == StatusActive && to == StatusPaused) ||
				(from == StatusPaused && to == StatusActive)
			if CanUserTransition(from, to) != ok {
				t.Errorf("CanUserTransition(%s, %s) = %v, want %v",
					from, to, !ok, ok)
			}
		}
	}
}

func TestAllowedUserTransitions(t *testing.T) {
	if got := AllowedUserTransitions(StatusActive); len(got) != 1 || got[0] != StatusPaused {
		t.Fatalf("active transitions = %v, want [paused]", got)
	}
	if got := AllowedUserTransitions(StatusSuspended); len(got) != 0 {
		t.Fatalf("suspended transitions = %v, want none", got)
	}
}

func TestRetryEligible_StalenessWindow(t *testing.T) {
	now := time.Now()
	window := 5 * time.Minute

	building := func(age time.Duration) *Record {
		return &Record{Status: StatusBuilding, StatusUpdatedAt: now.Add(-age)}
	}

	// A build that moved recently is alive; past the window it is stuck.
	if RetryEligible(building(4*time.Minute), now, window) {
		t.Error("4-minute-old building status must not be retry-eligible")
	}
	if !RetryEligible(building(6*time.Minute), now, window) {
		t.Error("6-minute-old building status must be retry-eligible")
	}

	// Failed builds always qualify; other statuses never do.
	if !RetryEligible(&Record{Status: StatusFailed, StatusUpdatedAt: now}, now, window) {
		t.Error("failed status must be retry-eligible")
	}
	for _, s := range []string{StatusActive, StatusPaused, StatusSuspended} {
		if RetryEligible(&Record{Status: s, StatusUpdatedAt: now.Add(-time.Hour)}, now, window) {
			t.Errorf("%s must never be retry-eligible", s)
		}
	}
}

func TestRetryEligible_DefaultWindow(t *testing.T) {
	now := time.Now()
	rec := &Record{Status: StatusBuilding, StatusUpdatedAt: now.Add(-6 * time.Minute)}
	if !RetryEligible(rec, now, 0) {
		t.Error("zero window must fall back to the 5-minute default")
	}
}

func TestTransitionErrorMessage(t *testing.T) {
	err := &TransitionError{From: StatusBuilding, To: StatusPaused,
		Allowed: AllowedUserTransitions(StatusBuilding)}
	if err.Error() == "" {
		t.Fatal("expected a descriptive message")
	}
}
