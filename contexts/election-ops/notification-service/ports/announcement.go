package ports

import (
	"time"

	"electra/contexts/election-ops/eligibility"
)

// Lifecycle transition names accepted by the announcement use case. They
// mirror the session side's transitions without importing it.
const (
	TransitionScheduled = "scheduled"
	TransitionStarted   = "started"
	TransitionEnded     = "ended"
	TransitionResults   = "results"
)

// SessionAnnouncement is the cross-context input describing one session
// lifecycle transition to fan out.
type SessionAnnouncement struct {
	SessionID   string
	Title       string
	Transition  string
	ForcedEnded bool
	Scope       eligibility.Scope
	ScopeState  string
	ScopeLGA    string
	StartTime   time.Time
	EndTime     time.Time
}
