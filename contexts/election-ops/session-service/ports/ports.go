package ports

import (
	"context"
	"time"

	"electra/contexts/election-ops/session-service/domain/entities"
)

// SessionRepository is the write/read store for sessions.
type SessionRepository interface {
	SaveSession(ctx context.Context, session entities.Session) error
	GetSession(ctx context.Context, sessionID string) (entities.Session, error)
	ListSessions(ctx context.Context) ([]entities.Session, error)
}

// LifecycleRepository exposes the poller's candidate queries plus the atomic
// fired-at claim. ClaimTransition must be a single conditional update
// (set-where-null) so concurrent pollers cannot both win the same transition.
type LifecycleRepository interface {
	ListPendingScheduled(ctx context.Context, now time.Time, limit int) ([]entities.Session, error)
	ListPendingStarted(ctx context.Context, now time.Time, createdBefore time.Time, limit int) ([]entities.Session, error)
	ListPendingEnded(ctx context.Context, now time.Time, limit int) ([]entities.Session, error)
	ListPendingResults(ctx context.Context, limit int) ([]entities.Session, error)
	ClaimTransition(ctx context.Context, sessionID string, transition entities.LifecycleTransition, at time.Time) (bool, error)
}

// TransitionAnnouncer fans a claimed transition out to the notification side:
// durable event, live push, bulk email. Implemented by the composition root.
type TransitionAnnouncer interface {
	AnnounceTransition(ctx context.Context, session entities.Session, transition entities.LifecycleTransition) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
