package bootstrap

import (
	"context"
	"errors"

	"electra/contexts/election-ops/eligibility"
	notificationcommands "electra/contexts/election-ops/notification-service/application/commands"
	notificationports "electra/contexts/election-ops/notification-service/ports"
	sessionpostgres "electra/contexts/election-ops/session-service/adapters/postgres"
	sessionentities "electra/contexts/election-ops/session-service/domain/entities"
	sessionerrors "electra/contexts/election-ops/session-service/domain/errors"
	"electra/internal/platform/mailer"
)

// transitionAnnouncer bridges the poller to the notification side without
// coupling the two contexts: it maps a session transition into the
// announcement shape the notification service accepts.
type transitionAnnouncer struct {
	announce notificationcommands.AnnounceSessionUseCase
}

func (a transitionAnnouncer) AnnounceTransition(ctx context.Context, session sessionentities.Session, transition sessionentities.LifecycleTransition) error {
	_, err := a.announce.Announce(ctx, notificationports.SessionAnnouncement{
		SessionID:   session.SessionID,
		Title:       session.Title,
		Transition:  string(transition),
		ForcedEnded: session.ForcedEnded,
		Scope:       session.Scope,
		ScopeState:  session.ScopeState,
		ScopeLGA:    session.ScopeLGA,
		StartTime:   session.StartTime,
		EndTime:     session.EndTime,
	})
	return err
}

// sessionCatalog resolves participation rules for the inbox read path.
type sessionCatalog struct {
	repo *sessionpostgres.Repository
}

func (c sessionCatalog) GetSessionRules(ctx context.Context, sessionID string) (eligibility.Rules, bool, error) {
	session, err := c.repo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionerrors.ErrSessionNotFound) {
			return eligibility.Rules{}, false, nil
		}
		return eligibility.Rules{}, false, err
	}
	return session.Rules(), true, nil
}

// nilIfUnset keeps a nil *Resend from becoming a non-nil Mailer interface.
func nilIfUnset(m *mailer.Resend) notificationports.Mailer {
	if m == nil {
		return nil
	}
	return m
}
