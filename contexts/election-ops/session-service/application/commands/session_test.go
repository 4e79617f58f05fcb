package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"electra/contexts/election-ops/eligibility"
	"electra/contexts/election-ops/session-service/adapters/memory"
	"electra/contexts/election-ops/session-service/domain/entities"
	domainerrors "electra/contexts/election-ops/session-service/domain/errors"
)

func newSessionUseCase(store *memory.Store) SessionUseCase {
	return SessionUseCase{Sessions: store, Clock: store, IDGen: store}
}

func TestCreateSessionAppliesDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	store := memory.NewStore(nil)
	store.SetNow(now)
	uc := newSessionUseCase(store)

	session, err := uc.CreateSession(context.Background(), CreateSessionCommand{
		Title:     "  Governorship Election ",
		StartTime: now.Add(24 * time.Hour),
		EndTime:   now.Add(36 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if session.Scope != eligibility.ScopeNational {
		t.Fatalf("expected national scope default, got %q", session.Scope)
	}
	if session.MinAge != 18 {
		t.Fatalf("expected minimum age default of 18, got %d", session.MinAge)
	}
	if session.Title != "Governorship Election" {
		t.Fatalf("expected trimmed title, got %q", session.Title)
	}
	if session.SessionID == "" {
		t.Fatalf("expected a generated id")
	}
	if _, err := store.GetSession(context.Background(), session.SessionID); err != nil {
		t.Fatalf("expected session persisted: %v", err)
	}
}

func TestCreateSessionRejectsInvalidInput(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	store := memory.NewStore(nil)
	store.SetNow(now)
	uc := newSessionUseCase(store)

	cases := []struct {
		name string
		cmd  CreateSessionCommand
	}{
		{"empty title", CreateSessionCommand{
			Title: "   ", StartTime: now, EndTime: now.Add(time.Hour),
		}},
		{"end before start", CreateSessionCommand{
			Title: "Council Election", StartTime: now.Add(time.Hour), EndTime: now,
		}},
		{"minimum age below 18", CreateSessionCommand{
			Title: "Council Election", StartTime: now, EndTime: now.Add(time.Hour), MinAge: 16,
		}},
		{"local scope without lga", CreateSessionCommand{
			Title: "Council Election", StartTime: now, EndTime: now.Add(time.Hour),
			Scope: eligibility.ScopeLocal, ScopeState: "Lagos",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.CreateSession(context.Background(), tc.cmd); !errors.Is(err, domainerrors.ErrInvalidSessionInput) {
				t.Fatalf("expected ErrInvalidSessionInput, got %v", err)
			}
		})
	}
}

func TestForceEndIsNotRepeatable(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.Session{{
		SessionID: "s-1",
		Title:     "Governorship Election",
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(6 * time.Hour),
		MinAge:    18,
		Scope:     eligibility.ScopeNational,
	}})
	store.SetNow(now)
	uc := newSessionUseCase(store)

	session, err := uc.ForceEnd(context.Background(), "s-1")
	if err != nil {
		t.Fatalf("force end failed: %v", err)
	}
	if !session.ForcedEnded {
		t.Fatalf("expected forced flag set")
	}

	if _, err := uc.ForceEnd(context.Background(), "s-1"); !errors.Is(err, domainerrors.ErrSessionAlreadyEnded) {
		t.Fatalf("expected ErrSessionAlreadyEnded, got %v", err)
	}
}

func TestPublishResultsRequiresClosedSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.Session{{
		SessionID: "s-open",
		Title:     "Governorship Election",
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(6 * time.Hour),
		MinAge:    18,
		Scope:     eligibility.ScopeNational,
	}})
	store.SetNow(now)
	uc := newSessionUseCase(store)

	if _, err := uc.PublishResults(context.Background(), "s-open"); !errors.Is(err, domainerrors.ErrResultsBeforeClose) {
		t.Fatalf("expected ErrResultsBeforeClose, got %v", err)
	}

	// Force end closes the window and unblocks publication.
	if _, err := uc.ForceEnd(context.Background(), "s-open"); err != nil {
		t.Fatalf("force end failed: %v", err)
	}
	session, err := uc.PublishResults(context.Background(), "s-open")
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if !session.ResultsPublished {
		t.Fatalf("expected results flag set")
	}

	if _, err := uc.PublishResults(context.Background(), "s-open"); !errors.Is(err, domainerrors.ErrResultsAlreadyPublished) {
		t.Fatalf("expected ErrResultsAlreadyPublished, got %v", err)
	}
}

func TestPublishResultsAfterNaturalClose(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.Session{{
		SessionID: "s-done",
		Title:     "Governorship Election",
		StartTime: now.Add(-48 * time.Hour),
		EndTime:   now.Add(-24 * time.Hour),
		MinAge:    18,
		Scope:     eligibility.ScopeNational,
	}})
	store.SetNow(now)
	uc := newSessionUseCase(store)

	session, err := uc.PublishResults(context.Background(), "s-done")
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if !session.ResultsPublished {
		t.Fatalf("expected results flag set")
	}
}
