// internal/site/lifecycle.go
//
// Lifecycle orchestration: the thin layer between the lifecycle API
// handlers and the state-machine checks + repository writes.
//
// Every transition stamps status_updated_at (inside the repository
// helpers); entering paused records a user-facing message, and entering
// building resets the progress snapshot and clears any prior message.
package site

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Lifecycle applies user-initiated status changes and the stuck-build
// retry rule against the control-plane database.
type Lifecycle struct {
	DB        *sqlx.DB
	Staleness time.Duration // zero → DefaultStalenessWindow
}

// Pause moves an active site to paused with an operator-visible message.
func (l *Lifecycle) Pause(ctx context.Context, rec *Record, message string) error {
	if !CanUserTransition(rec.Status, StatusPaused) {
		return &TransitionError{
			From:    rec.Status,
			To:      StatusPaused,
			Allowed: AllowedUserTransitions(rec.Status),
		}
	}
	if message == "" {
		message = "This site is temporarily paused by its owner."
	}
	if err := UpdateStatus(ctx, l.DB, rec.ID, StatusPaused, &message); err != nil {
		return err
	}
	zap.L().Info("site paused", zap.String("slug", rec.Slug))
	return nil
}

// Resume moves a paused site back to active and clears the message.
func (l *Lifecycle) Resume(ctx context.Context, rec *Record) error {
	if !CanUserTransition(rec.Status, StatusActive) {
		return &TransitionError{
			From:    rec.Status,
			To:      StatusActive,
			Allowed: AllowedUserTransitions(rec.Status),
		}
	}
	if err := UpdateStatus(ctx, l.DB, rec.ID, StatusActive, nil); err != nil {
		return err
	}
	zap.L().Info("site resumed", zap.String("slug", rec.Slug))
	return nil
}

// RetryBuild forces a failed or stuck build back into `building` with a
// freshly computed task count and a reset progress snapshot.  A build
// updated within the staleness window is rejected so two generators never
// run for one site.
func (l *Lifecycle) RetryBuild(ctx context.Context, rec *Record, totalTasks int) error {
	window := l.Staleness
	if window <= 0 {
		window = DefaultStalenessWindow
	}
	now := time.Now()
	if !RetryEligible(rec, now, window) {
		if rec.Status == StatusBuilding {
			return &RetryNotEligibleError{
				Status:      rec.Status,
				SinceUpdate: now.Sub(rec.StatusUpdatedAt),
				Window:      window,
			}
		}
		return &TransitionError{
			From:    rec.Status,
			To:      StatusBuilding,
			Allowed: AllowedUserTransitions(rec.Status),
		}
	}
	if err := ResetBuild(ctx, l.DB, rec.ID, totalTasks); err != nil {
		return err
	}
	zap.L().Info("site build retried",
		zap.String("slug", rec.Slug),
		zap.String("previous_status", rec.Status),
		zap.Int("tasks", totalTasks))
	return nil
}
