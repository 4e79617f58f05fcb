package eligibility

import (
	"context"
	"testing"
	"time"
)

type staticWhitelist map[string]struct{}

func (w staticWhitelist) Contains(_ context.Context, email, nationalID string) (bool, error) {
	if _, ok := w[email]; ok && email != "" {
		return true, nil
	}
	if _, ok := w[nationalID]; ok && nationalID != "" {
		return true, nil
	}
	return false, nil
}

func TestEvaluateLocalScopeScenario(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	dob := start.AddDate(-19, 0, 0)

	rules := Rules{
		SessionID:  "session-a",
		StartTime:  start,
		MinAge:     18,
		Scope:      ScopeLocal,
		ScopeState: "Lagos",
		ScopeLGA:   "Ikeja",
	}
	voter := Voter{
		VoterID:     "voter-u",
		DateOfBirth: &dob,
		State:       "Lagos",
		LGA:         "Ikeja",
	}

	decision := Evaluator{}.Evaluate(context.Background(), voter, rules)
	if !decision.Eligible {
		t.Fatalf("expected eligible, got reason %q", decision.Reason)
	}

	voter.LGA = "Epe"
	decision = Evaluator{}.Evaluate(context.Background(), voter, rules)
	if decision.Eligible {
		t.Fatalf("expected ineligible after LGA change")
	}
	if decision.Reason != "Restricted to Ikeja" {
		t.Fatalf("expected reason %q, got %q", "Restricted to Ikeja", decision.Reason)
	}
}

func TestEvaluateAgePinnedToStartTime(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	// Turns 18 one day after the session opens.
	dob := start.AddDate(-18, 0, 1)

	rules := Rules{StartTime: start, MinAge: 18, Scope: ScopeNational}
	voter := Voter{VoterID: "voter-young", DateOfBirth: &dob, State: "Lagos"}

	decision := Evaluator{}.Evaluate(context.Background(), voter, rules)
	if decision.Eligible {
		t.Fatalf("expected ineligible: voter was 17 at start time")
	}
	if decision.Reason != "Minimum age 18" {
		t.Fatalf("expected reason %q, got %q", "Minimum age 18", decision.Reason)
	}

	// Exactly 18 on start day qualifies, even though they turn 19 later.
	exactly := start.AddDate(-18, 0, 0)
	voter.DateOfBirth = &exactly
	decision = Evaluator{}.Evaluate(context.Background(), voter, rules)
	if !decision.Eligible {
		t.Fatalf("expected eligible at exactly 18, got reason %q", decision.Reason)
	}
}

func TestEvaluateMissingDateOfBirth(t *testing.T) {
	rules := Rules{StartTime: time.Now().UTC(), MinAge: 18}
	decision := Evaluator{}.Evaluate(context.Background(), Voter{VoterID: "voter-x"}, rules)
	if decision.Eligible {
		t.Fatalf("expected ineligible without date of birth")
	}
	if decision.Reason != "Missing date of birth" {
		t.Fatalf("unexpected reason %q", decision.Reason)
	}
}

func TestEvaluateWhitelist(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	dob := start.AddDate(-30, 0, 0)
	rules := Rules{StartTime: start, MinAge: 18, Scope: ScopeNational, RequireWhitelist: true}
	voter := Voter{
		VoterID:     "voter-w",
		DateOfBirth: &dob,
		State:       "Kano",
		Email:       "voter@example.com",
		NationalID:  "NIN-123",
	}

	evaluator := Evaluator{Whitelist: staticWhitelist{"nin-999": {}}}
	decision := evaluator.Evaluate(context.Background(), voter, rules)
	if decision.Eligible {
		t.Fatalf("expected ineligible off-whitelist")
	}
	if decision.Reason != "Not on whitelist" {
		t.Fatalf("unexpected reason %q", decision.Reason)
	}

	evaluator = Evaluator{Whitelist: staticWhitelist{"NIN-123": {}}}
	decision = evaluator.Evaluate(context.Background(), voter, rules)
	if !decision.Eligible {
		t.Fatalf("expected eligible via national id, got reason %q", decision.Reason)
	}
}
