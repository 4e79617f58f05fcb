package httpadapter

import (
	"context"
	"log/slog"

	"electra/contexts/election-ops/eligibility"
	"electra/contexts/election-ops/session-service/application/commands"
	"electra/contexts/election-ops/session-service/application/queries"
	"electra/contexts/election-ops/session-service/domain/entities"
	httptransport "electra/contexts/election-ops/session-service/transport/http"
)

type Handler struct {
	Sessions commands.SessionUseCase
	Queries  queries.SessionQueryUseCase
	Logger   *slog.Logger
}

func (h Handler) CreateSessionHandler(ctx context.Context, req httptransport.CreateSessionRequest) (httptransport.SessionResponse, error) {
	session, err := h.Sessions.CreateSession(ctx, commands.CreateSessionCommand{
		Title:            req.Title,
		Description:      req.Description,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		MinAge:           req.MinAge,
		Scope:            eligibility.Scope(req.Scope),
		ScopeState:       req.ScopeState,
		ScopeLGA:         req.ScopeLGA,
		RequireWhitelist: req.RequireWhitelist,
	})
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return mapSession(session), nil
}

func (h Handler) ForceEndHandler(ctx context.Context, sessionID string) (httptransport.SessionResponse, error) {
	session, err := h.Sessions.ForceEnd(ctx, sessionID)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return mapSession(session), nil
}

func (h Handler) PublishResultsHandler(ctx context.Context, sessionID string) (httptransport.SessionResponse, error) {
	session, err := h.Sessions.PublishResults(ctx, sessionID)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return mapSession(session), nil
}

func (h Handler) ListSessionsHandler(ctx context.Context, actorState, actorLGA string) (httptransport.SessionListResponse, error) {
	sessions, err := h.Queries.ListVisibleSessions(ctx, eligibility.Location{State: actorState, LGA: actorLGA})
	if err != nil {
		return httptransport.SessionListResponse{}, err
	}
	items := make([]httptransport.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, mapSession(session))
	}
	return httptransport.SessionListResponse{Items: items}, nil
}

func mapSession(session entities.Session) httptransport.SessionResponse {
	return httptransport.SessionResponse{
		SessionID:           session.SessionID,
		Title:               session.Title,
		Description:         session.Description,
		StartTime:           session.StartTime,
		EndTime:             session.EndTime,
		MinAge:              session.MinAge,
		Scope:               string(session.Scope),
		ScopeState:          session.ScopeState,
		ScopeLGA:            session.ScopeLGA,
		RequireWhitelist:    session.RequireWhitelist,
		ForcedEnded:         session.ForcedEnded,
		ResultsPublished:    session.ResultsPublished,
		ScheduledNotifiedAt: session.Marks.ScheduledNotifiedAt,
		StartedNotifiedAt:   session.Marks.StartedNotifiedAt,
		EndedNotifiedAt:     session.Marks.EndedNotifiedAt,
		ResultsNotifiedAt:   session.Marks.ResultsNotifiedAt,
		CreatedAt:           session.CreatedAt,
	}
}
