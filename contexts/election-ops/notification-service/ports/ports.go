package ports

import (
	"context"
	"time"

	"electra/contexts/election-ops/eligibility"
	"electra/contexts/election-ops/notification-service/domain/entities"
)

// NotificationRepository is the append-only event log plus the feed queries
// over it.
type NotificationRepository interface {
	SaveNotification(ctx context.Context, notification entities.Notification) error
	GetNotification(ctx context.Context, notificationID string) (entities.Notification, error)
	// ListUnclearedForUser returns events for the audience the given user has
	// not cleared, newest first, capped at limit.
	ListUnclearedForUser(ctx context.Context, audience entities.Audience, userID string, limit int) ([]entities.Notification, error)
}

// ReceiptRepository upserts per-user receipt state. Both upserts must be
// atomic per (notification, user) pair: read_at is first-writer-wins and
// cleared_at, once set, is never unset, so concurrent read/clear calls
// cannot lose either flag.
type ReceiptRepository interface {
	UpsertRead(ctx context.Context, notificationID, userID string, at time.Time) error
	UpsertClear(ctx context.Context, notificationID, userID string, at time.Time) error
	GetReceipt(ctx context.Context, notificationID, userID string) (entities.Receipt, bool, error)
	ListReceipts(ctx context.Context, userID string, notificationIDs []string) ([]entities.Receipt, error)
}

// Pusher is the best-effort live delivery channel. Callers treat every error
// as advisory; the durable event is the system of record.
type Pusher interface {
	PushToUser(userID string, payload any) error
	Broadcast(payload any) error
}

// VoterDirectory exposes the voter read models the notification side needs:
// a single profile for inbox filtering and the bulk email recipient pool
// (active accounts with a verified email).
type VoterDirectory interface {
	GetVoter(ctx context.Context, userID string) (eligibility.Voter, bool, error)
	ListEmailRecipients(ctx context.Context) ([]eligibility.Voter, error)
}

// SessionCatalog resolves the participation rules of the session an event is
// linked to.
type SessionCatalog interface {
	GetSessionRules(ctx context.Context, sessionID string) (eligibility.Rules, bool, error)
}

// Mailer sends one templated message to a recipient batch.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, html string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
