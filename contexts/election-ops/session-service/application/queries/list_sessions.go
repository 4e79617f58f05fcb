package queries

import (
	"context"
	"strings"

	"electra/contexts/election-ops/eligibility"
	"electra/contexts/election-ops/session-service/domain/entities"
	"electra/contexts/election-ops/session-service/ports"
)

// SessionQueryUseCase serves session reads. Visibility is enforced with the
// same scope predicate the notification read path uses.
type SessionQueryUseCase struct {
	Sessions ports.SessionRepository
}

// ListVisibleSessions returns sessions whose scope covers the actor's
// recorded location, newest start first as the repository orders them.
func (uc SessionQueryUseCase) ListVisibleSessions(ctx context.Context, actor eligibility.Location) ([]entities.Session, error) {
	sessions, err := uc.Sessions.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]entities.Session, 0, len(sessions))
	for _, session := range sessions {
		if eligibility.Matches(session.Scope, session.ScopeState, session.ScopeLGA, actor) {
			visible = append(visible, session)
		}
	}
	return visible, nil
}

func (uc SessionQueryUseCase) GetSession(ctx context.Context, sessionID string) (entities.Session, error) {
	return uc.Sessions.GetSession(ctx, strings.TrimSpace(sessionID))
}
