package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "electra/contexts/election-ops/notification-service/application"
	"electra/contexts/election-ops/notification-service/domain/entities"
	domainerrors "electra/contexts/election-ops/notification-service/domain/errors"
	"electra/contexts/election-ops/notification-service/ports"
)

// AnnounceSessionUseCase turns a session lifecycle transition into a durable
// notification event plus a best-effort bulk email. The notification is the
// system of record; the email failing never fails the announcement.
type AnnounceSessionUseCase struct {
	Dispatch DispatchUseCase
	Email    *LifecycleEmailUseCase
	Logger   *slog.Logger
}

func (uc AnnounceSessionUseCase) Announce(ctx context.Context, ann ports.SessionAnnouncement) (entities.Notification, error) {
	logger := application.ResolveLogger(uc.Logger)

	notificationType, title, message, ok := announcementContent(ann)
	if !ok {
		return entities.Notification{}, domainerrors.ErrInvalidNotification
	}

	notification, err := uc.Dispatch.Notify(ctx, NotifyCommand{
		Notification: entities.Notification{
			Type:       notificationType,
			Title:      title,
			Message:    message,
			Audience:   entities.AudienceUser,
			Scope:      ann.Scope,
			ScopeState: ann.ScopeState,
			ScopeLGA:   ann.ScopeLGA,
			SessionID:  ann.SessionID,
			Metadata: map[string]string{
				"session_id": ann.SessionID,
				"transition": ann.Transition,
			},
		},
	})
	if err != nil {
		return entities.Notification{}, err
	}

	if uc.Email != nil {
		if err := uc.Email.SendSessionEmail(ctx, ann, title, message); err != nil {
			logger.Warn("lifecycle email send failed",
				"event", "lifecycle_email_failed",
				"module", "election-ops/notification-service",
				"layer", "application",
				"session_id", ann.SessionID,
				"transition", ann.Transition,
				"error", err.Error(),
			)
		}
	}
	return notification, nil
}

func announcementContent(ann ports.SessionAnnouncement) (notificationType, title, message string, ok bool) {
	sessionTitle := strings.TrimSpace(ann.Title)
	switch ann.Transition {
	case ports.TransitionScheduled:
		return "session.scheduled",
			fmt.Sprintf("Upcoming election: %s", sessionTitle),
			fmt.Sprintf("Voting opens %s.", formatInstant(ann.StartTime)),
			true
	case ports.TransitionStarted:
		return "session.started",
			fmt.Sprintf("Voting is open: %s", sessionTitle),
			fmt.Sprintf("Voting is open until %s.", formatInstant(ann.EndTime)),
			true
	case ports.TransitionEnded:
		if ann.ForcedEnded {
			return "session.ended",
				fmt.Sprintf("Voting closed early: %s", sessionTitle),
				"This election was closed ahead of schedule. Results will follow.",
				true
		}
		return "session.ended",
			fmt.Sprintf("Voting closed: %s", sessionTitle),
			"Voting has closed. Results will follow once published.",
			true
	case ports.TransitionResults:
		return "session.results",
			fmt.Sprintf("Results published: %s", sessionTitle),
			"The results for this election are now available.",
			true
	default:
		return "", "", "", false
	}
}

func formatInstant(at time.Time) string {
	return at.UTC().Format("Mon, 02 Jan 2006 15:04 MST")
}
