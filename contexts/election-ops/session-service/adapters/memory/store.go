package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"electra/contexts/election-ops/session-service/domain/entities"
	domainerrors "electra/contexts/election-ops/session-service/domain/errors"

	"github.com/google/uuid"
)

// Store is the in-memory session repository used by tests and local wiring.
// It implements ports.SessionRepository, ports.LifecycleRepository,
// ports.Clock and ports.IDGenerator.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]entities.Session
	now      time.Time
}

func NewStore(seed []entities.Session) *Store {
	sessions := make(map[string]entities.Session, len(seed))
	for _, session := range seed {
		sessions[session.SessionID] = session
	}
	return &Store{sessions: sessions}
}

// SetNow pins the store clock; zero means wall clock.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now.UTC()
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) SaveSession(_ context.Context, session entities.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[session.SessionID]; ok {
		// Fired-at marks are monotonic; a stale save never clears them.
		session.Marks = mergeMarks(existing.Marks, session.Marks)
	}
	s.sessions[strings.TrimSpace(session.SessionID)] = session
	return nil
}

func (s *Store) GetSession(_ context.Context, sessionID string) (entities.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[strings.TrimSpace(sessionID)]
	if !ok {
		return entities.Session{}, domainerrors.ErrSessionNotFound
	}
	return session, nil
}

func (s *Store) ListSessions(_ context.Context) ([]entities.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		items = append(items, session)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].StartTime.After(items[j].StartTime)
	})
	return items, nil
}

func (s *Store) ListPendingScheduled(_ context.Context, now time.Time, limit int) ([]entities.Session, error) {
	return s.filter(limit, func(session entities.Session) bool {
		return session.Marks.ScheduledNotifiedAt == nil && session.StartTime.After(now)
	}), nil
}

func (s *Store) ListPendingStarted(_ context.Context, now time.Time, createdBefore time.Time, limit int) ([]entities.Session, error) {
	return s.filter(limit, func(session entities.Session) bool {
		if session.Marks.StartedNotifiedAt != nil || session.ForcedEnded {
			return false
		}
		if session.StartTime.After(now) {
			return false
		}
		return session.Marks.ScheduledNotifiedAt != nil || !session.CreatedAt.After(createdBefore)
	}), nil
}

func (s *Store) ListPendingEnded(_ context.Context, now time.Time, limit int) ([]entities.Session, error) {
	return s.filter(limit, func(session entities.Session) bool {
		if session.Marks.EndedNotifiedAt != nil {
			return false
		}
		return session.ForcedEnded || !session.EndTime.After(now)
	}), nil
}

func (s *Store) ListPendingResults(_ context.Context, limit int) ([]entities.Session, error) {
	return s.filter(limit, func(session entities.Session) bool {
		return session.Marks.ResultsNotifiedAt == nil && session.ResultsPublished
	}), nil
}

func (s *Store) ClaimTransition(_ context.Context, sessionID string, transition entities.LifecycleTransition, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[strings.TrimSpace(sessionID)]
	if !ok {
		return false, domainerrors.ErrSessionNotFound
	}
	if !session.Marks.Set(transition, at) {
		return false, nil
	}
	s.sessions[session.SessionID] = session
	return true, nil
}

func (s *Store) filter(limit int, keep func(entities.Session) bool) []entities.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Session, 0)
	for _, session := range s.sessions {
		if keep(session) {
			items = append(items, session)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].StartTime.Before(items[j].StartTime)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func mergeMarks(existing, incoming entities.LifecycleMarks) entities.LifecycleMarks {
	merged := existing
	for _, transition := range []entities.LifecycleTransition{
		entities.TransitionScheduled,
		entities.TransitionStarted,
		entities.TransitionEnded,
		entities.TransitionResults,
	} {
		if at := incoming.At(transition); at != nil {
			merged.Set(transition, *at)
		}
	}
	return merged
}
