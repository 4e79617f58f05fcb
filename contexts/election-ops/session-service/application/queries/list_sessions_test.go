package queries

import (
	"context"
	"testing"
	"time"

	"electra/contexts/election-ops/eligibility"
	"electra/contexts/election-ops/session-service/adapters/memory"
	"electra/contexts/election-ops/session-service/domain/entities"
)

func TestListVisibleSessionsFiltersByActorLocation(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.Session{
		{
			SessionID: "s-national",
			Title:     "Presidential Election",
			StartTime: now.Add(24 * time.Hour),
			EndTime:   now.Add(36 * time.Hour),
			Scope:     eligibility.ScopeNational,
		},
		{
			SessionID:  "s-lagos",
			Title:      "Lagos Gubernatorial Election",
			StartTime:  now.Add(48 * time.Hour),
			EndTime:    now.Add(60 * time.Hour),
			Scope:      eligibility.ScopeState,
			ScopeState: "Lagos",
		},
		{
			SessionID:  "s-epe",
			Title:      "Epe Council Election",
			StartTime:  now.Add(72 * time.Hour),
			EndTime:    now.Add(84 * time.Hour),
			Scope:      eligibility.ScopeLocal,
			ScopeState: "Lagos",
			ScopeLGA:   "Epe",
		},
	})
	uc := SessionQueryUseCase{Sessions: store}

	visible, err := uc.ListVisibleSessions(context.Background(), eligibility.Location{State: "Lagos", LGA: "Ikeja"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	got := make(map[string]bool, len(visible))
	for _, session := range visible {
		got[session.SessionID] = true
	}
	if !got["s-national"] || !got["s-lagos"] {
		t.Fatalf("expected national and state sessions visible, got %v", got)
	}
	if got["s-epe"] {
		t.Fatalf("a session scoped to another LGA must be hidden")
	}
}

func TestListVisibleSessionsForOutOfStateActor(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.Session{{
		SessionID:  "s-lagos",
		Title:      "Lagos Gubernatorial Election",
		StartTime:  now.Add(24 * time.Hour),
		EndTime:    now.Add(36 * time.Hour),
		Scope:      eligibility.ScopeState,
		ScopeState: "Lagos",
	}})
	uc := SessionQueryUseCase{Sessions: store}

	visible, err := uc.ListVisibleSessions(context.Background(), eligibility.Location{State: "Kano", LGA: "Tarauni"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("expected no visible sessions, got %d", len(visible))
	}
}
