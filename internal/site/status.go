// internal/site/status.go
//
// Lifecycle state machine.
//
// Context
// -------
// A site moves through {building, active, paused, failed, suspended}.
// Only active⇄paused is user-initiated; building→active|failed belongs to
// the content-generation pipeline, failed→building to the retry
// operation, and suspended is admin-only and accepts no user transitions.
//
// The one wrinkle is stuck-build recovery: background generation can die
// without updating status, leaving a site in `building` forever.  A
// `building` row whose status_updated_at has not advanced for longer than
// the staleness window is therefore treated as retry-eligible rather than
// rejected as "already building".
//
// Notes
// -----
//   • Pure checks only; persistence lives in repository.go and the
//     orchestration in lifecycle.go.
//   • Oxford commas, two spaces after periods.
package site

import (
	"fmt"
	"time"
)

// DefaultStalenessWindow is how long a `building` status may sit
// unchanged before the build is considered dead.
const DefaultStalenessWindow = 5 * time.Minute

// userTransitions enumerates the only status edges a site owner may
// request directly.  Everything else is system- or admin-initiated.
var userTransitions = map[string][]string{
	StatusActive: {StatusPaused},
	StatusPaused: {StatusActive},
}

// AllowedUserTransitions returns the target statuses a user may request
// from the given status.  The slice is shared; callers must not mutate.
func AllowedUserTransitions(from string) []string {
	return userTransitions[from]
}

// CanUserTransition reports whether from→to is a legal user-initiated
// transition.
func CanUserTransition(from, to string) bool {
	for _, t := range userTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// TransitionError reports an illegal user-initiated transition, carrying
// the current status and the explicit allowed set so the caller can
// surface both — transitions are never silently coerced.
type TransitionError struct {
	From    string
	To      string
	Allowed []string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition site from %q to %q (allowed: %v)",
		e.From, e.To, e.Allowed)
}

// RetryNotEligibleError reports a retry attempt against a build that is
// still considered alive.
type RetryNotEligibleError struct {
	Status      string
	SinceUpdate time.Duration
	Window      time.Duration
}

func (e *RetryNotEligibleError) Error() string {
	return fmt.Sprintf("build retry not eligible: status %q updated %s ago (window %s)",
		e.Status, e.SinceUpdate.Truncate(time.Second), e.Window)
}

// RetryEligible reports whether a site may be forced back into
// `building`.  Failed builds always qualify; an in-flight build qualifies
// only once its status has gone stale past the window.  Any other status
// never qualifies.
func RetryEligible(rec *Record, now time.Time, window time.Duration) bool {
	if window <= 0 {
		window = DefaultStalenessWindow
	}
	switch rec.Status {
	case StatusFailed:
		return true
	case StatusBuilding:
		return now.Sub(rec.StatusUpdatedAt) > window
	default:
		return false
	}
}
