package workers

import (
	"context"
	"log/slog"
	"time"

	application "electra/contexts/election-ops/session-service/application"
	"electra/contexts/election-ops/session-service/domain/entities"
	"electra/contexts/election-ops/session-service/ports"
)

// startedCreationGap keeps a session created and started in the same instant
// from firing "started" before "scheduled" was ever considered in the same
// poll pass.
const startedCreationGap = time.Minute

// LifecyclePoller sweeps sessions for transitions that have not fired yet
// and fires each one at most once. A transition is first claimed through the
// repository's conditional set-where-null update; only the claim winner
// dispatches, so concurrent poller processes cannot double-fire.
type LifecyclePoller struct {
	Sessions    ports.LifecycleRepository
	Announcer   ports.TransitionAnnouncer
	Clock       ports.Clock
	BatchSize   int
	PassTimeout time.Duration
	Logger      *slog.Logger
}

// RunOnce executes the four passes in lifecycle order. A failing candidate
// or pass is logged and skipped; the next cycle retries whatever was not
// claimed. The returned error is the first pass-level failure, surfaced for
// observability only.
func (p LifecyclePoller) RunOnce(ctx context.Context) error {
	now := p.now()
	limit := p.BatchSize
	if limit <= 0 {
		limit = 100
	}

	var firstErr error
	passes := []struct {
		transition entities.LifecycleTransition
		list       func(context.Context) ([]entities.Session, error)
	}{
		{entities.TransitionScheduled, func(ctx context.Context) ([]entities.Session, error) {
			return p.Sessions.ListPendingScheduled(ctx, now, limit)
		}},
		{entities.TransitionStarted, func(ctx context.Context) ([]entities.Session, error) {
			return p.Sessions.ListPendingStarted(ctx, now, now.Add(-startedCreationGap), limit)
		}},
		{entities.TransitionEnded, func(ctx context.Context) ([]entities.Session, error) {
			return p.Sessions.ListPendingEnded(ctx, now, limit)
		}},
		{entities.TransitionResults, func(ctx context.Context) ([]entities.Session, error) {
			return p.Sessions.ListPendingResults(ctx, limit)
		}},
	}

	for _, pass := range passes {
		if err := p.runPass(ctx, pass.transition, pass.list, now); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p LifecyclePoller) runPass(
	ctx context.Context,
	transition entities.LifecycleTransition,
	list func(context.Context) ([]entities.Session, error),
	now time.Time,
) error {
	logger := application.ResolveLogger(p.Logger)

	// A stuck store call must not stall the following cycle indefinitely.
	if p.PassTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.PassTimeout)
		defer cancel()
	}

	candidates, err := list(ctx)
	if err != nil {
		logger.Error("lifecycle pass candidate query failed",
			"event", "lifecycle_pass_query_failed",
			"module", "election-ops/session-service",
			"layer", "worker",
			"transition", string(transition),
			"error", err.Error(),
		)
		return err
	}

	fired := 0
	for _, session := range candidates {
		claimed, err := p.Sessions.ClaimTransition(ctx, session.SessionID, transition, now)
		if err != nil {
			logger.Error("lifecycle transition claim failed",
				"event", "lifecycle_claim_failed",
				"module", "election-ops/session-service",
				"layer", "worker",
				"transition", string(transition),
				"session_id", session.SessionID,
				"error", err.Error(),
			)
			continue
		}
		if !claimed {
			// Another poller won the conditional update.
			continue
		}

		session.Marks.Set(transition, now)
		if err := p.Announcer.AnnounceTransition(ctx, session, transition); err != nil {
			logger.Error("lifecycle transition announce failed",
				"event", "lifecycle_announce_failed",
				"module", "election-ops/session-service",
				"layer", "worker",
				"transition", string(transition),
				"session_id", session.SessionID,
				"error", err.Error(),
			)
			continue
		}
		fired++
	}

	if fired > 0 {
		logger.Info("lifecycle pass completed",
			"event", "lifecycle_pass_completed",
			"module", "election-ops/session-service",
			"layer", "worker",
			"transition", string(transition),
			"fired_count", fired,
		)
	}
	return nil
}

func (p LifecyclePoller) now() time.Time {
	if p.Clock != nil {
		return p.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
