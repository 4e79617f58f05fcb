package entities

import "time"

// LifecycleTransition names one of the four notifiable session transitions.
type LifecycleTransition string

const (
	TransitionScheduled LifecycleTransition = "scheduled"
	TransitionStarted   LifecycleTransition = "started"
	TransitionEnded     LifecycleTransition = "ended"
	TransitionResults   LifecycleTransition = "results"
)

// LifecycleMarks records when each lifecycle notification fired. The marks
// are independent, not states of one enum: a session accumulates them in
// sequence, and a set mark is never cleared. Each mark doubles as the
// idempotency guard for its transition.
type LifecycleMarks struct {
	ScheduledNotifiedAt *time.Time
	StartedNotifiedAt   *time.Time
	EndedNotifiedAt     *time.Time
	ResultsNotifiedAt   *time.Time
}

// Set stamps a mark, refusing to overwrite one already set. Returning false
// means the transition already fired.
func (m *LifecycleMarks) Set(transition LifecycleTransition, at time.Time) bool {
	slot := m.slot(transition)
	if slot == nil || *slot != nil {
		return false
	}
	stamped := at.UTC()
	*slot = &stamped
	return true
}

// At returns the fired-at instant for a transition, nil if it has not fired.
func (m LifecycleMarks) At(transition LifecycleTransition) *time.Time {
	slot := m.slot(transition)
	if slot == nil {
		return nil
	}
	return *slot
}

func (m *LifecycleMarks) slot(transition LifecycleTransition) **time.Time {
	switch transition {
	case TransitionScheduled:
		return &m.ScheduledNotifiedAt
	case TransitionStarted:
		return &m.StartedNotifiedAt
	case TransitionEnded:
		return &m.EndedNotifiedAt
	case TransitionResults:
		return &m.ResultsNotifiedAt
	default:
		return nil
	}
}
