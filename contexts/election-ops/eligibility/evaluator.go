package eligibility

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// VoterStatus is the account standing of a registered voter.
type VoterStatus string

const (
	VoterStatusPending  VoterStatus = "pending"
	VoterStatusActive   VoterStatus = "active"
	VoterStatusDisabled VoterStatus = "disabled"
)

// Voter is the profile slice the evaluator needs: identity for whitelist
// matching, residence for scope matching, date of birth for the age gate.
type Voter struct {
	VoterID       string
	DateOfBirth   *time.Time
	State         string
	LGA           string
	Status        VoterStatus
	Email         string
	NationalID    string
	EmailVerified bool
}

// Rules are the participation constraints a session imposes on voters.
type Rules struct {
	SessionID        string
	StartTime        time.Time
	MinAge           int
	Scope            Scope
	ScopeState       string
	ScopeLGA         string
	RequireWhitelist bool
}

// Decision is the evaluator verdict. Reason is set only when ineligible.
type Decision struct {
	Eligible bool
	Reason   string
}

// WhitelistChecker answers whether an email or national id appears on the
// eligible-voters allow-list.
type WhitelistChecker interface {
	Contains(ctx context.Context, email, nationalID string) (bool, error)
}

// Evaluator decides whether a voter may participate in, or be notified
// about, a session. It is stateless apart from the whitelist lookup and safe
// for concurrent use. Malformed input denies with a reason, never an error.
type Evaluator struct {
	Whitelist WhitelistChecker
}

// Evaluate runs the checks in fixed order, first failure wins:
// minimum age (pinned to the session start time, not "now"), geographic
// scope, whitelist membership.
func (e Evaluator) Evaluate(ctx context.Context, voter Voter, rules Rules) Decision {
	if rules.MinAge > 0 {
		if voter.DateOfBirth == nil {
			return Decision{Reason: "Missing date of birth"}
		}
		if wholeYears(*voter.DateOfBirth, rules.StartTime) < rules.MinAge {
			return Decision{Reason: fmt.Sprintf("Minimum age %d", rules.MinAge)}
		}
	}

	actor := Location{State: voter.State, LGA: voter.LGA}
	if !Matches(rules.Scope, rules.ScopeState, rules.ScopeLGA, actor) {
		return Decision{Reason: restrictionReason(rules)}
	}

	if rules.RequireWhitelist {
		if e.Whitelist == nil {
			return Decision{Reason: "Not on whitelist"}
		}
		ok, err := e.Whitelist.Contains(ctx, strings.TrimSpace(voter.Email), strings.TrimSpace(voter.NationalID))
		if err != nil || !ok {
			return Decision{Reason: "Not on whitelist"}
		}
	}

	return Decision{Eligible: true}
}

func restrictionReason(rules Rules) string {
	if rules.Scope == ScopeLocal && strings.TrimSpace(rules.ScopeLGA) != "" {
		return "Restricted to " + strings.TrimSpace(rules.ScopeLGA)
	}
	if strings.TrimSpace(rules.ScopeState) != "" {
		return "Restricted to " + strings.TrimSpace(rules.ScopeState)
	}
	return "Outside session area"
}

// wholeYears is the completed years between dob and at.
func wholeYears(dob, at time.Time) int {
	years := at.Year() - dob.Year()
	anniversary := dob.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}
