package memory

import (
	"context"
	"sync"

	"electra/contexts/election-ops/session-service/domain/entities"
)

// Announcement captures one fan-out request observed by CaptureAnnouncer.
type Announcement struct {
	SessionID  string
	Transition entities.LifecycleTransition
	Session    entities.Session
}

// CaptureAnnouncer records transitions instead of dispatching them. Fail, if
// set, is returned from every call to exercise failure paths.
type CaptureAnnouncer struct {
	mu            sync.Mutex
	announcements []Announcement
	Fail          error
}

func (a *CaptureAnnouncer) AnnounceTransition(_ context.Context, session entities.Session, transition entities.LifecycleTransition) error {
	if a.Fail != nil {
		return a.Fail
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.announcements = append(a.announcements, Announcement{
		SessionID:  session.SessionID,
		Transition: transition,
		Session:    session,
	})
	return nil
}

func (a *CaptureAnnouncer) Announcements() []Announcement {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Announcement(nil), a.announcements...)
}
