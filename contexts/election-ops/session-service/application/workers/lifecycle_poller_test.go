package workers

import (
	"context"
	"testing"
	"time"

	"electra/contexts/election-ops/eligibility"
	"electra/contexts/election-ops/session-service/adapters/memory"
	"electra/contexts/election-ops/session-service/domain/entities"
)

func newPoller(store *memory.Store, announcer *memory.CaptureAnnouncer) LifecyclePoller {
	return LifecyclePoller{
		Sessions:  store,
		Announcer: announcer,
		Clock:     store,
	}
}

func baseSession(id string, start, end time.Time) entities.Session {
	return entities.Session{
		SessionID: id,
		Title:     "Governorship Election",
		StartTime: start,
		EndTime:   end,
		MinAge:    18,
		Scope:     eligibility.ScopeNational,
		CreatedAt: start.Add(-48 * time.Hour),
		UpdatedAt: start.Add(-48 * time.Hour),
	}
}

func countByTransition(announcements []memory.Announcement, transition entities.LifecycleTransition) int {
	total := 0
	for _, ann := range announcements {
		if ann.Transition == transition {
			total++
		}
	}
	return total
}

func TestPollCycleIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.Session{
		baseSession("s-upcoming", now.Add(24*time.Hour), now.Add(36*time.Hour)),
	})
	store.SetNow(now)
	announcer := &memory.CaptureAnnouncer{}
	poller := newPoller(store, announcer)

	if err := poller.RunOnce(context.Background()); err != nil {
		t.Fatalf("first cycle failed: %v", err)
	}
	if err := poller.RunOnce(context.Background()); err != nil {
		t.Fatalf("second cycle failed: %v", err)
	}

	if got := countByTransition(announcer.Announcements(), entities.TransitionScheduled); got != 1 {
		t.Fatalf("expected exactly one scheduled announcement, got %d", got)
	}
	session, err := store.GetSession(context.Background(), "s-upcoming")
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if session.Marks.ScheduledNotifiedAt == nil {
		t.Fatalf("expected scheduled mark to be set")
	}
}

func TestPollCycleFiresStartedAfterScheduled(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	session := baseSession("s-open", now.Add(-time.Hour), now.Add(6*time.Hour))
	scheduledAt := now.Add(-2 * time.Hour)
	session.Marks.Set(entities.TransitionScheduled, scheduledAt)

	store := memory.NewStore([]entities.Session{session})
	store.SetNow(now)
	announcer := &memory.CaptureAnnouncer{}

	if err := newPoller(store, announcer).RunOnce(context.Background()); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}

	announcements := announcer.Announcements()
	if got := countByTransition(announcements, entities.TransitionStarted); got != 1 {
		t.Fatalf("expected one started announcement, got %d", got)
	}
	stored, _ := store.GetSession(context.Background(), "s-open")
	if stored.Marks.StartedNotifiedAt == nil {
		t.Fatalf("expected started mark to be set")
	}
	if !stored.Marks.ScheduledNotifiedAt.Equal(scheduledAt) {
		t.Fatalf("scheduled mark must not change, got %v", stored.Marks.ScheduledNotifiedAt)
	}
}

func TestPollCycleHoldsStartedForFreshUnscheduledSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	// Created and started in the same instant: no scheduled mark yet and the
	// creation-gap guard must hold "started" back this cycle.
	session := baseSession("s-instant", now, now.Add(6*time.Hour))
	session.CreatedAt = now
	session.UpdatedAt = now

	store := memory.NewStore([]entities.Session{session})
	store.SetNow(now)
	announcer := &memory.CaptureAnnouncer{}

	if err := newPoller(store, announcer).RunOnce(context.Background()); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}
	if got := countByTransition(announcer.Announcements(), entities.TransitionStarted); got != 0 {
		t.Fatalf("expected started to be held back, got %d announcements", got)
	}

	// Two minutes later the guard has aged out.
	store.SetNow(now.Add(2 * time.Minute))
	if err := newPoller(store, announcer).RunOnce(context.Background()); err != nil {
		t.Fatalf("second cycle failed: %v", err)
	}
	if got := countByTransition(announcer.Announcements(), entities.TransitionStarted); got != 1 {
		t.Fatalf("expected started after the guard aged out, got %d", got)
	}
}

func TestPollCycleFiresEndedForForcedSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	// Forced ended mid-flight, natural end still in the future.
	session := baseSession("s-forced", now.Add(-3*time.Hour), now.Add(3*time.Hour))
	session.ForcedEnded = true

	store := memory.NewStore([]entities.Session{session})
	store.SetNow(now)
	announcer := &memory.CaptureAnnouncer{}

	if err := newPoller(store, announcer).RunOnce(context.Background()); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}

	announcements := announcer.Announcements()
	if got := countByTransition(announcements, entities.TransitionEnded); got != 1 {
		t.Fatalf("expected one ended announcement, got %d", got)
	}
	// Forced sessions never fire "started".
	if got := countByTransition(announcements, entities.TransitionStarted); got != 0 {
		t.Fatalf("forced session must not fire started, got %d", got)
	}
}

func TestPollCycleFiresResults(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	session := baseSession("s-done", now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	session.ResultsPublished = true

	store := memory.NewStore([]entities.Session{session})
	store.SetNow(now)
	announcer := &memory.CaptureAnnouncer{}
	poller := newPoller(store, announcer)

	if err := poller.RunOnce(context.Background()); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}
	if err := poller.RunOnce(context.Background()); err != nil {
		t.Fatalf("second cycle failed: %v", err)
	}

	announcements := announcer.Announcements()
	if got := countByTransition(announcements, entities.TransitionEnded); got != 1 {
		t.Fatalf("expected one ended announcement, got %d", got)
	}
	if got := countByTransition(announcements, entities.TransitionResults); got != 1 {
		t.Fatalf("expected one results announcement, got %d", got)
	}
}
