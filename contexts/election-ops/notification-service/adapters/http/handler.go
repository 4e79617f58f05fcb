package httpadapter

import (
	"context"
	"log/slog"

	"electra/contexts/election-ops/notification-service/application/commands"
	"electra/contexts/election-ops/notification-service/application/queries"
	"electra/contexts/election-ops/notification-service/domain/entities"
	httptransport "electra/contexts/election-ops/notification-service/transport/http"
)

type Handler struct {
	Receipts commands.ReceiptUseCase
	Inbox    queries.InboxUseCase
	Logger   *slog.Logger
}

func (h Handler) ListNotificationsHandler(ctx context.Context, userID, audience string) (httptransport.InboxResponse, error) {
	items, err := h.Inbox.ListForUser(ctx, userID, entities.Audience(normalizeAudience(audience)))
	if err != nil {
		return httptransport.InboxResponse{}, err
	}
	responses := make([]httptransport.NotificationResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, mapNotification(item))
	}
	return httptransport.InboxResponse{Items: responses}, nil
}

func (h Handler) MarkReadHandler(ctx context.Context, notificationID, userID string) error {
	return h.Receipts.MarkRead(ctx, notificationID, userID)
}

func (h Handler) ClearHandler(ctx context.Context, notificationID, userID string) error {
	return h.Receipts.Clear(ctx, notificationID, userID)
}

func (h Handler) MarkAllReadHandler(ctx context.Context, userID, audience string) (httptransport.BulkReceiptResponse, error) {
	applied, err := h.Receipts.MarkAllRead(ctx, userID, entities.Audience(normalizeAudience(audience)))
	if err != nil {
		return httptransport.BulkReceiptResponse{}, err
	}
	return httptransport.BulkReceiptResponse{Applied: applied}, nil
}

func (h Handler) ClearAllHandler(ctx context.Context, userID, audience string) (httptransport.BulkReceiptResponse, error) {
	applied, err := h.Receipts.ClearAll(ctx, userID, entities.Audience(normalizeAudience(audience)))
	if err != nil {
		return httptransport.BulkReceiptResponse{}, err
	}
	return httptransport.BulkReceiptResponse{Applied: applied}, nil
}

func normalizeAudience(audience string) string {
	if audience == string(entities.AudienceAdmin) {
		return string(entities.AudienceAdmin)
	}
	return string(entities.AudienceUser)
}

func mapNotification(item queries.InboxItem) httptransport.NotificationResponse {
	notification := item.Notification
	return httptransport.NotificationResponse{
		NotificationID: notification.NotificationID,
		Type:           notification.Type,
		Title:          notification.Title,
		Message:        notification.Message,
		Audience:       string(notification.Audience),
		Scope:          string(notification.Scope),
		ScopeState:     notification.ScopeState,
		ScopeLGA:       notification.ScopeLGA,
		SessionID:      notification.SessionID,
		Metadata:       notification.Metadata,
		Read:           item.Read,
		CreatedAt:      notification.CreatedAt,
	}
}
