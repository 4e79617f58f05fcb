package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"electra/contexts/election-ops/eligibility"
	application "electra/contexts/election-ops/notification-service/application"
	"electra/contexts/election-ops/notification-service/domain/entities"
	domainerrors "electra/contexts/election-ops/notification-service/domain/errors"
	"electra/contexts/election-ops/notification-service/ports"
)

// NotifyCommand is the fan-out input: the event to persist plus optional
// explicit recipients for the push side. Empty recipients means broadcast;
// consumers re-filter by scope and eligibility when they render.
type NotifyCommand struct {
	Notification entities.Notification
	Recipients   []string
}

// DispatchUseCase persists a notification event and then pushes it to live
// connections. Persist-then-push, never the reverse: a failed push is logged
// and swallowed because the durable event is authoritative.
type DispatchUseCase struct {
	Notifications ports.NotificationRepository
	Pusher        ports.Pusher
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

func (uc DispatchUseCase) Notify(ctx context.Context, cmd NotifyCommand) (entities.Notification, error) {
	logger := application.ResolveLogger(uc.Logger)

	notification := cmd.Notification
	notification.Type = strings.TrimSpace(notification.Type)
	notification.Title = strings.TrimSpace(notification.Title)
	if !notification.ValidateBasics() {
		logger.Warn("notification dispatch validation failed",
			"event", "notification_dispatch_validation_failed",
			"module", "election-ops/notification-service",
			"layer", "application",
			"type", notification.Type,
		)
		return entities.Notification{}, domainerrors.ErrInvalidNotification
	}
	if notification.Audience == "" {
		notification.Audience = entities.AudienceUser
	}
	if notification.Scope == "" {
		notification.Scope = eligibility.ScopeGlobal
	}

	id, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Notification{}, err
	}
	notification.NotificationID = id
	notification.CreatedAt = uc.now()

	if err := uc.Notifications.SaveNotification(ctx, notification); err != nil {
		logger.Error("notification persist failed",
			"event", "notification_persist_failed",
			"module", "election-ops/notification-service",
			"layer", "application",
			"type", notification.Type,
			"error", err.Error(),
		)
		return entities.Notification{}, err
	}

	uc.push(notification, cmd.Recipients, logger)

	logger.Info("notification dispatched",
		"event", "notification_dispatched",
		"module", "election-ops/notification-service",
		"layer", "application",
		"notification_id", notification.NotificationID,
		"type", notification.Type,
		"audience", string(notification.Audience),
		"recipient_count", len(cmd.Recipients),
	)
	return notification, nil
}

func (uc DispatchUseCase) push(notification entities.Notification, recipients []string, logger *slog.Logger) {
	if uc.Pusher == nil {
		return
	}
	payload := pushPayload(notification)
	if len(recipients) == 0 {
		if err := uc.Pusher.Broadcast(payload); err != nil {
			logger.Warn("notification broadcast push failed",
				"event", "notification_push_failed",
				"module", "election-ops/notification-service",
				"layer", "application",
				"notification_id", notification.NotificationID,
				"error", err.Error(),
			)
		}
		return
	}
	for _, userID := range recipients {
		if err := uc.Pusher.PushToUser(userID, payload); err != nil {
			logger.Warn("notification user push failed",
				"event", "notification_push_failed",
				"module", "election-ops/notification-service",
				"layer", "application",
				"notification_id", notification.NotificationID,
				"user_id", userID,
				"error", err.Error(),
			)
		}
	}
}

func pushPayload(notification entities.Notification) map[string]any {
	return map[string]any{
		"notification_id": notification.NotificationID,
		"type":            notification.Type,
		"title":           notification.Title,
		"message":         notification.Message,
		"audience":        string(notification.Audience),
		"scope":           string(notification.Scope),
		"session_id":      notification.SessionID,
		"metadata":        notification.Metadata,
		"created_at":      notification.CreatedAt,
	}
}

func (uc DispatchUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
