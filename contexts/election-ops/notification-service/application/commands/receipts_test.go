package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"electra/contexts/election-ops/notification-service/adapters/memory"
	"electra/contexts/election-ops/notification-service/domain/entities"
	domainerrors "electra/contexts/election-ops/notification-service/domain/errors"
)

func seedNotifications(createdAt time.Time, ids ...string) []entities.Notification {
	seed := make([]entities.Notification, 0, len(ids))
	for i, id := range ids {
		seed = append(seed, entities.Notification{
			NotificationID: id,
			Type:           "announcement",
			Title:          "Election update",
			Audience:       entities.AudienceUser,
			CreatedAt:      createdAt.Add(time.Duration(i) * time.Minute),
		})
	}
	return seed
}

func TestMarkReadRequiresExistingNotification(t *testing.T) {
	store := memory.NewStore(nil)
	uc := ReceiptUseCase{Notifications: store, Receipts: store, Clock: store}

	err := uc.MarkRead(context.Background(), "n-missing", "voter-1")
	if !errors.Is(err, domainerrors.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if store.ReceiptCount() != 0 {
		t.Fatalf("no receipt row must be written for a missing event")
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore(seedNotifications(createdAt, "n-1"))
	store.SetNow(createdAt.Add(time.Hour))
	uc := ReceiptUseCase{Notifications: store, Receipts: store, Clock: store}

	if err := uc.MarkRead(context.Background(), "n-1", "voter-1"); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	firstRead, _, _ := store.GetReceipt(context.Background(), "n-1", "voter-1")

	store.SetNow(createdAt.Add(2 * time.Hour))
	if err := uc.MarkRead(context.Background(), "n-1", "voter-1"); err != nil {
		t.Fatalf("second mark read failed: %v", err)
	}
	secondRead, _, _ := store.GetReceipt(context.Background(), "n-1", "voter-1")
	if !secondRead.ReadAt.Equal(*firstRead.ReadAt) {
		t.Fatalf("read_at must keep the first timestamp, got %v then %v", firstRead.ReadAt, secondRead.ReadAt)
	}
}

func TestClearIsTerminalForThePair(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore(seedNotifications(createdAt, "n-1"))
	store.SetNow(createdAt.Add(time.Hour))
	uc := ReceiptUseCase{Notifications: store, Receipts: store, Clock: store}

	if err := uc.Clear(context.Background(), "n-1", "voter-1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	cleared, _, _ := store.GetReceipt(context.Background(), "n-1", "voter-1")
	if !cleared.Cleared() {
		t.Fatalf("expected receipt cleared")
	}

	// Marking read after a clear changes nothing and never resurrects the
	// event in the feed.
	store.SetNow(createdAt.Add(2 * time.Hour))
	if err := uc.MarkRead(context.Background(), "n-1", "voter-1"); err != nil {
		t.Fatalf("mark read after clear failed: %v", err)
	}
	after, _, _ := store.GetReceipt(context.Background(), "n-1", "voter-1")
	if !after.Cleared() || !after.ClearedAt.Equal(*cleared.ClearedAt) {
		t.Fatalf("cleared_at must survive later writes, got %v", after.ClearedAt)
	}

	feed, err := store.ListUnclearedForUser(context.Background(), entities.AudienceUser, "voter-1", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(feed) != 0 {
		t.Fatalf("cleared event must stay out of the feed, got %d items", len(feed))
	}
}

func TestClearAllSkipsAlreadyClearedEvents(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore(seedNotifications(createdAt, "n-1", "n-2", "n-3", "n-4"))
	store.SetNow(createdAt.Add(time.Hour))
	uc := ReceiptUseCase{Notifications: store, Receipts: store, Clock: store}

	if err := uc.Clear(context.Background(), "n-2", "voter-1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	applied, err := uc.ClearAll(context.Background(), "voter-1", entities.AudienceUser)
	if err != nil {
		t.Fatalf("clear all failed: %v", err)
	}
	if applied != 3 {
		t.Fatalf("expected 3 events cleared, got %d", applied)
	}

	// Retrying finds an empty feed.
	applied, err = uc.ClearAll(context.Background(), "voter-1", entities.AudienceUser)
	if err != nil {
		t.Fatalf("repeat clear all failed: %v", err)
	}
	if applied != 0 {
		t.Fatalf("repeat clear all must be a no-op, got %d", applied)
	}
}

func TestMarkAllReadLeavesOtherUsersUntouched(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore(seedNotifications(createdAt, "n-1", "n-2"))
	store.SetNow(createdAt.Add(time.Hour))
	uc := ReceiptUseCase{Notifications: store, Receipts: store, Clock: store}

	applied, err := uc.MarkAllRead(context.Background(), "voter-1", entities.AudienceUser)
	if err != nil {
		t.Fatalf("mark all read failed: %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected 2 events marked, got %d", applied)
	}
	if _, found, _ := store.GetReceipt(context.Background(), "n-1", "voter-2"); found {
		t.Fatalf("another user's receipt state must not change")
	}
}
