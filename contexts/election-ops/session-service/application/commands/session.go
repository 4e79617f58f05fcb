package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "electra/contexts/election-ops/session-service/application"
	"electra/contexts/election-ops/session-service/domain/entities"
	domainerrors "electra/contexts/election-ops/session-service/domain/errors"
	"electra/contexts/election-ops/session-service/ports"

	"electra/contexts/election-ops/eligibility"
)

// CreateSessionCommand is the write-model input for opening a new voting
// period.
type CreateSessionCommand struct {
	Title            string
	Description      string
	StartTime        time.Time
	EndTime          time.Time
	MinAge           int
	Scope            eligibility.Scope
	ScopeState       string
	ScopeLGA         string
	RequireWhitelist bool
}

// SessionUseCase orchestrates the administrative session commands. Lifecycle
// notifications are never fired here; the poller owns every transition.
type SessionUseCase struct {
	Sessions ports.SessionRepository
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc SessionUseCase) CreateSession(ctx context.Context, cmd CreateSessionCommand) (entities.Session, error) {
	logger := application.ResolveLogger(uc.Logger)

	scope := cmd.Scope
	if scope == "" {
		scope = eligibility.ScopeNational
	}
	minAge := cmd.MinAge
	if minAge == 0 {
		minAge = 18
	}

	now := uc.now()
	session := entities.Session{
		Title:            strings.TrimSpace(cmd.Title),
		Description:      strings.TrimSpace(cmd.Description),
		StartTime:        cmd.StartTime.UTC(),
		EndTime:          cmd.EndTime.UTC(),
		MinAge:           minAge,
		Scope:            scope,
		ScopeState:       strings.TrimSpace(cmd.ScopeState),
		ScopeLGA:         strings.TrimSpace(cmd.ScopeLGA),
		RequireWhitelist: cmd.RequireWhitelist,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if !session.ValidateBasics() {
		logger.Warn("session create validation failed",
			"event", "session_create_validation_failed",
			"module", "election-ops/session-service",
			"layer", "application",
			"title", session.Title,
		)
		return entities.Session{}, domainerrors.ErrInvalidSessionInput
	}

	id, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Session{}, err
	}
	session.SessionID = id

	if err := uc.Sessions.SaveSession(ctx, session); err != nil {
		logger.Error("session create persist failed",
			"event", "session_create_persist_failed",
			"module", "election-ops/session-service",
			"layer", "application",
			"session_id", session.SessionID,
			"error", err.Error(),
		)
		return entities.Session{}, err
	}

	logger.Info("session created",
		"event", "session_created",
		"module", "election-ops/session-service",
		"layer", "application",
		"session_id", session.SessionID,
		"scope", string(session.Scope),
		"start_time", session.StartTime,
	)
	return session, nil
}

// ForceEnd closes a session ahead of its natural end time. The poller
// observes the flag on its next pass and fires the "ended" notification with
// the early-close wording.
func (uc SessionUseCase) ForceEnd(ctx context.Context, sessionID string) (entities.Session, error) {
	logger := application.ResolveLogger(uc.Logger)

	session, err := uc.Sessions.GetSession(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return entities.Session{}, err
	}
	if session.ForcedEnded {
		return entities.Session{}, domainerrors.ErrSessionAlreadyEnded
	}

	session.ForcedEnded = true
	session.UpdatedAt = uc.now()
	if err := uc.Sessions.SaveSession(ctx, session); err != nil {
		return entities.Session{}, err
	}

	logger.Info("session force ended",
		"event", "session_force_ended",
		"module", "election-ops/session-service",
		"layer", "application",
		"session_id", session.SessionID,
	)
	return session, nil
}

// PublishResults marks results as available. Publication requires the
// session to be closed, naturally or by force.
func (uc SessionUseCase) PublishResults(ctx context.Context, sessionID string) (entities.Session, error) {
	logger := application.ResolveLogger(uc.Logger)

	session, err := uc.Sessions.GetSession(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return entities.Session{}, err
	}
	if session.ResultsPublished {
		return entities.Session{}, domainerrors.ErrResultsAlreadyPublished
	}
	now := uc.now()
	if !session.ForcedEnded && session.EndTime.After(now) {
		return entities.Session{}, domainerrors.ErrResultsBeforeClose
	}

	session.ResultsPublished = true
	session.UpdatedAt = now
	if err := uc.Sessions.SaveSession(ctx, session); err != nil {
		return entities.Session{}, err
	}

	logger.Info("session results published",
		"event", "session_results_published",
		"module", "election-ops/session-service",
		"layer", "application",
		"session_id", session.SessionID,
	)
	return session, nil
}

func (uc SessionUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
