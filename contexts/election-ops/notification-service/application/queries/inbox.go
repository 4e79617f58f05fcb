package queries

import (
	"context"
	"log/slog"
	"strings"

	"electra/contexts/election-ops/eligibility"
	application "electra/contexts/election-ops/notification-service/application"
	"electra/contexts/election-ops/notification-service/domain/entities"
	domainerrors "electra/contexts/election-ops/notification-service/domain/errors"
	"electra/contexts/election-ops/notification-service/ports"
)

// InboxItem pairs a notification with the requesting user's read state.
type InboxItem struct {
	Notification entities.Notification
	Read         bool
}

// InboxUseCase serves a user's notification feed. Visibility is re-evaluated
// live on every fetch against the user's current profile: session-linked
// events go through the eligibility evaluator (cached per session for the
// call), unlinked events through the scope matcher. Stored events and
// receipts are never written by a read.
type InboxUseCase struct {
	Notifications ports.NotificationRepository
	Receipts      ports.ReceiptRepository
	Directory     ports.VoterDirectory
	Sessions      ports.SessionCatalog
	Evaluator     eligibility.Evaluator
	PageSize      int
	Logger        *slog.Logger
}

func (uc InboxUseCase) ListForUser(ctx context.Context, userID string, audience entities.Audience) ([]InboxItem, error) {
	logger := application.ResolveLogger(uc.Logger)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domainerrors.ErrUserRequired
	}
	if audience == "" {
		audience = entities.AudienceUser
	}

	limit := uc.PageSize
	if limit <= 0 {
		limit = 50
	}
	notifications, err := uc.Notifications.ListUnclearedForUser(ctx, audience, userID, limit)
	if err != nil {
		return nil, err
	}

	if audience == entities.AudienceUser {
		notifications, err = uc.filterForVoter(ctx, userID, notifications, logger)
		if err != nil {
			return nil, err
		}
	}

	return uc.attachReadState(ctx, userID, notifications)
}

func (uc InboxUseCase) filterForVoter(
	ctx context.Context,
	userID string,
	notifications []entities.Notification,
	logger *slog.Logger,
) ([]entities.Notification, error) {
	voter, found, err := uc.Directory.GetVoter(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found || voter.Status == eligibility.VoterStatusDisabled {
		return nil, nil
	}
	actor := eligibility.Location{State: voter.State, LGA: voter.LGA}

	// Many events reference the same session; evaluate each session once
	// per call.
	eligibleBySession := make(map[string]bool)

	visible := make([]entities.Notification, 0, len(notifications))
	for _, notification := range notifications {
		sessionID := strings.TrimSpace(notification.SessionID)
		if sessionID == "" {
			if eligibility.Matches(notification.Scope, notification.ScopeState, notification.ScopeLGA, actor) {
				visible = append(visible, notification)
			}
			continue
		}

		eligible, cached := eligibleBySession[sessionID]
		if !cached {
			rules, ok, err := uc.Sessions.GetSessionRules(ctx, sessionID)
			if err != nil {
				logger.Warn("inbox session lookup failed",
					"event", "inbox_session_lookup_failed",
					"module", "election-ops/notification-service",
					"layer", "application",
					"session_id", sessionID,
					"error", err.Error(),
				)
				eligibleBySession[sessionID] = false
				continue
			}
			if !ok {
				eligibleBySession[sessionID] = false
				continue
			}
			eligible = uc.Evaluator.Evaluate(ctx, voter, rules).Eligible
			eligibleBySession[sessionID] = eligible
		}
		if eligible {
			visible = append(visible, notification)
		}
	}
	return visible, nil
}

func (uc InboxUseCase) attachReadState(ctx context.Context, userID string, notifications []entities.Notification) ([]InboxItem, error) {
	if len(notifications) == 0 {
		return []InboxItem{}, nil
	}
	ids := make([]string, 0, len(notifications))
	for _, notification := range notifications {
		ids = append(ids, notification.NotificationID)
	}
	receipts, err := uc.Receipts.ListReceipts(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	readByID := make(map[string]bool, len(receipts))
	for _, receipt := range receipts {
		readByID[receipt.NotificationID] = receipt.Read()
	}

	items := make([]InboxItem, 0, len(notifications))
	for _, notification := range notifications {
		items = append(items, InboxItem{
			Notification: notification,
			Read:         readByID[notification.NotificationID],
		})
	}
	return items, nil
}
