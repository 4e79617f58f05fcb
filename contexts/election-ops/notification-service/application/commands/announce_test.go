package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"electra/contexts/election-ops/eligibility"
	"electra/contexts/election-ops/notification-service/adapters/memory"
	domainerrors "electra/contexts/election-ops/notification-service/domain/errors"
	"electra/contexts/election-ops/notification-service/ports"
)

func newAnnounceUseCase(store *memory.Store, mailer *memory.CaptureMailer) AnnounceSessionUseCase {
	uc := AnnounceSessionUseCase{
		Dispatch: DispatchUseCase{Notifications: store, Clock: store, IDGen: store},
	}
	if mailer != nil {
		uc.Email = &LifecycleEmailUseCase{Directory: store, Mailer: mailer}
	}
	return uc
}

func TestAnnounceMapsTransitionsToEventTypes(t *testing.T) {
	cases := []struct {
		transition  string
		forcedEnded bool
		wantType    string
		wantInTitle string
	}{
		{ports.TransitionScheduled, false, "session.scheduled", "Upcoming election"},
		{ports.TransitionStarted, false, "session.started", "Voting is open"},
		{ports.TransitionEnded, false, "session.ended", "Voting closed"},
		{ports.TransitionEnded, true, "session.ended", "Voting closed early"},
		{ports.TransitionResults, false, "session.results", "Results published"},
	}

	for _, tc := range cases {
		t.Run(tc.wantType+"/forced="+boolWord(tc.forcedEnded), func(t *testing.T) {
			store := memory.NewStore(nil)
			uc := newAnnounceUseCase(store, nil)

			notification, err := uc.Announce(context.Background(), ports.SessionAnnouncement{
				SessionID:   "s-1",
				Title:       "Governorship Election",
				Transition:  tc.transition,
				ForcedEnded: tc.forcedEnded,
				Scope:       eligibility.ScopeNational,
				StartTime:   time.Date(2026, 3, 7, 8, 0, 0, 0, time.UTC),
				EndTime:     time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC),
			})
			if err != nil {
				t.Fatalf("announce failed: %v", err)
			}
			if notification.Type != tc.wantType {
				t.Fatalf("expected type %q, got %q", tc.wantType, notification.Type)
			}
			if !strings.HasPrefix(notification.Title, tc.wantInTitle) {
				t.Fatalf("expected title starting with %q, got %q", tc.wantInTitle, notification.Title)
			}
			if notification.SessionID != "s-1" {
				t.Fatalf("expected session link, got %q", notification.SessionID)
			}
			if notification.Metadata["transition"] != tc.transition {
				t.Fatalf("expected transition metadata %q, got %q", tc.transition, notification.Metadata["transition"])
			}
		})
	}
}

func TestAnnounceRejectsUnknownTransition(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newAnnounceUseCase(store, nil)

	_, err := uc.Announce(context.Background(), ports.SessionAnnouncement{
		SessionID:  "s-1",
		Title:      "Governorship Election",
		Transition: "paused",
	})
	if !errors.Is(err, domainerrors.ErrInvalidNotification) {
		t.Fatalf("expected ErrInvalidNotification, got %v", err)
	}
}

func TestAnnounceEmailsScopedVerifiedVoters(t *testing.T) {
	store := memory.NewStore(nil)
	store.SetVoter(eligibility.Voter{
		VoterID: "v-lagos", State: "Lagos", LGA: "Ikeja",
		Status: eligibility.VoterStatusActive, Email: "Ada@Example.com", EmailVerified: true,
	})
	store.SetVoter(eligibility.Voter{
		VoterID: "v-lagos-dup", State: "Lagos", LGA: "Epe",
		Status: eligibility.VoterStatusActive, Email: "ada@example.com", EmailVerified: true,
	})
	store.SetVoter(eligibility.Voter{
		VoterID: "v-kano", State: "Kano", LGA: "Tarauni",
		Status: eligibility.VoterStatusActive, Email: "musa@example.com", EmailVerified: true,
	})
	store.SetVoter(eligibility.Voter{
		VoterID: "v-unverified", State: "Lagos", LGA: "Ikeja",
		Status: eligibility.VoterStatusActive, Email: "tobi@example.com", EmailVerified: false,
	})

	mailer := &memory.CaptureMailer{}
	uc := newAnnounceUseCase(store, mailer)

	if _, err := uc.Announce(context.Background(), ports.SessionAnnouncement{
		SessionID:  "s-1",
		Title:      "Lagos Gubernatorial Election",
		Transition: ports.TransitionStarted,
		Scope:      eligibility.ScopeState,
		ScopeState: "Lagos",
		EndTime:    time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("announce failed: %v", err)
	}

	mails := mailer.Mails()
	if len(mails) != 1 {
		t.Fatalf("expected one batch, got %d", len(mails))
	}
	if len(mails[0].To) != 1 || mails[0].To[0] != "ada@example.com" {
		t.Fatalf("expected deduplicated in-scope recipient list, got %v", mails[0].To)
	}
}

func TestAnnounceSurvivesEmailFailure(t *testing.T) {
	store := memory.NewStore(nil)
	store.SetVoter(eligibility.Voter{
		VoterID: "v-1", State: "Lagos", LGA: "Ikeja",
		Status: eligibility.VoterStatusActive, Email: "ada@example.com", EmailVerified: true,
	})
	mailer := &memory.CaptureMailer{Fail: errors.New("provider unavailable")}
	uc := newAnnounceUseCase(store, mailer)

	notification, err := uc.Announce(context.Background(), ports.SessionAnnouncement{
		SessionID:  "s-1",
		Title:      "Governorship Election",
		Transition: ports.TransitionResults,
		Scope:      eligibility.ScopeNational,
	})
	if err != nil {
		t.Fatalf("email failure must not fail the announcement: %v", err)
	}
	if _, err := store.GetNotification(context.Background(), notification.NotificationID); err != nil {
		t.Fatalf("expected notification persisted: %v", err)
	}
}

func boolWord(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
