package entities

import (
	"strings"
	"time"

	"electra/contexts/election-ops/eligibility"
)

// Session is a time-boxed election instance with a geographic scope and
// participation rules.
type Session struct {
	SessionID        string
	Title            string
	Description      string
	StartTime        time.Time
	EndTime          time.Time
	MinAge           int
	Scope            eligibility.Scope
	ScopeState       string
	ScopeLGA         string
	RequireWhitelist bool
	ForcedEnded      bool
	ResultsPublished bool
	Marks            LifecycleMarks
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Rules projects the session into the evaluator's input shape.
func (s Session) Rules() eligibility.Rules {
	return eligibility.Rules{
		SessionID:        s.SessionID,
		StartTime:        s.StartTime,
		MinAge:           s.MinAge,
		Scope:            s.Scope,
		ScopeState:       s.ScopeState,
		ScopeLGA:         s.ScopeLGA,
		RequireWhitelist: s.RequireWhitelist,
	}
}

// ValidateBasics checks the invariants a new session must satisfy:
// a non-empty title, endTime after startTime, a minimum age of at least 18,
// and scope narrowing fields present progressively as scope narrows.
func (s Session) ValidateBasics() bool {
	if strings.TrimSpace(s.Title) == "" {
		return false
	}
	if !s.EndTime.After(s.StartTime) {
		return false
	}
	if s.MinAge < 18 {
		return false
	}
	switch s.Scope {
	case eligibility.ScopeGlobal, eligibility.ScopeNational:
		return true
	case eligibility.ScopeState:
		return strings.TrimSpace(s.ScopeState) != ""
	case eligibility.ScopeLocal:
		return strings.TrimSpace(s.ScopeState) != "" && strings.TrimSpace(s.ScopeLGA) != ""
	default:
		return false
	}
}
