package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "electra/contexts/election-ops/notification-service/application"
	"electra/contexts/election-ops/notification-service/domain/entities"
	domainerrors "electra/contexts/election-ops/notification-service/domain/errors"
	"electra/contexts/election-ops/notification-service/ports"
)

// ReceiptUseCase applies per-user read/clear state. Every operation is an
// upsert and is idempotent: read_at is set once and never overwritten,
// cleared_at is terminal for the pair.
type ReceiptUseCase struct {
	Notifications ports.NotificationRepository
	Receipts      ports.ReceiptRepository
	Clock         ports.Clock
	BulkPageSize  int
	Logger        *slog.Logger
}

func (uc ReceiptUseCase) MarkRead(ctx context.Context, notificationID, userID string) error {
	notificationID, userID, err := uc.pair(notificationID, userID)
	if err != nil {
		return err
	}
	if _, err := uc.Notifications.GetNotification(ctx, notificationID); err != nil {
		return err
	}
	return uc.Receipts.UpsertRead(ctx, notificationID, userID, uc.now())
}

func (uc ReceiptUseCase) Clear(ctx context.Context, notificationID, userID string) error {
	notificationID, userID, err := uc.pair(notificationID, userID)
	if err != nil {
		return err
	}
	if _, err := uc.Notifications.GetNotification(ctx, notificationID); err != nil {
		return err
	}
	return uc.Receipts.UpsertClear(ctx, notificationID, userID, uc.now())
}

// MarkAllRead applies the read upsert to every event still visible to the
// user in the given audience. Cleared events are already excluded by the
// feed query, so they are left untouched.
func (uc ReceiptUseCase) MarkAllRead(ctx context.Context, userID string, audience entities.Audience) (int, error) {
	return uc.bulk(ctx, userID, audience, uc.Receipts.UpsertRead, "notification_mark_all_read")
}

// ClearAll clears every uncleared event visible to the user's audience.
// Safe to retry: re-applying is a no-op per pair.
func (uc ReceiptUseCase) ClearAll(ctx context.Context, userID string, audience entities.Audience) (int, error) {
	return uc.bulk(ctx, userID, audience, uc.Receipts.UpsertClear, "notification_clear_all")
}

func (uc ReceiptUseCase) bulk(
	ctx context.Context,
	userID string,
	audience entities.Audience,
	apply func(context.Context, string, string, time.Time) error,
	event string,
) (int, error) {
	logger := application.ResolveLogger(uc.Logger)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, domainerrors.ErrUserRequired
	}
	if audience == "" {
		audience = entities.AudienceUser
	}

	limit := uc.BulkPageSize
	if limit <= 0 {
		limit = 500
	}
	notifications, err := uc.Notifications.ListUnclearedForUser(ctx, audience, userID, limit)
	if err != nil {
		return 0, err
	}

	now := uc.now()
	applied := 0
	for _, notification := range notifications {
		if err := apply(ctx, notification.NotificationID, userID, now); err != nil {
			logger.Error("bulk receipt upsert failed",
				"event", event+"_failed",
				"module", "election-ops/notification-service",
				"layer", "application",
				"notification_id", notification.NotificationID,
				"user_id", userID,
				"error", err.Error(),
			)
			return applied, err
		}
		applied++
	}

	logger.Info("bulk receipt operation completed",
		"event", event+"_completed",
		"module", "election-ops/notification-service",
		"layer", "application",
		"user_id", userID,
		"audience", string(audience),
		"applied_count", applied,
	)
	return applied, nil
}

func (uc ReceiptUseCase) pair(notificationID, userID string) (string, string, error) {
	notificationID = strings.TrimSpace(notificationID)
	userID = strings.TrimSpace(userID)
	if notificationID == "" {
		return "", "", domainerrors.ErrNotificationNotFound
	}
	if userID == "" {
		return "", "", domainerrors.ErrUserRequired
	}
	return notificationID, userID, nil
}

func (uc ReceiptUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
